package ast

import "github.com/Taly-projects/taly-lang/pkgs/source"

// The helpers below build zero-span nodes for use in hand-written
// expected-AST fixtures in tests, mirroring the teacher's smart-constructor
// builder pattern; production code always goes through the New* functions
// in node.go with a real span from the parser or IR generator.

func zeroSpan() source.Span { return source.Span{} }

// Str builds a string-literal Value node.
func Str(value string) *Value { return NewValue(zeroSpan(), StringLiteral(value)) }

// Int builds an integer-literal Value node.
func Int(value string) *Value { return NewValue(zeroSpan(), IntegerLiteral(value)) }

// Dec builds a decimal-literal Value node.
func Dec(value string) *Value { return NewValue(zeroSpan(), DecimalLiteral(value)) }

// Bool builds a boolean-literal Value node.
func Bool(value bool) *Value { return NewValue(zeroSpan(), BooleanLiteral(value)) }

// Id builds a VariableCall node.
func Id(name string) *VariableCall { return NewVariableCall(zeroSpan(), name) }

// Call builds a FunctionCall node.
func Call(name string, args ...Node) *FunctionCall { return NewFunctionCall(zeroSpan(), name, args) }

// Bin builds a BinaryOperation node.
func Bin(lhs Node, op Operator, rhs Node) *BinaryOperation {
	return NewBinaryOperation(zeroSpan(), lhs, op, rhs)
}

// Un builds a UnaryOperation node.
func Un(op Operator, value Node) *UnaryOperation { return NewUnaryOperation(zeroSpan(), op, value) }

// Ret builds a Return node.
func Ret(expr Node) *Return { return NewReturn(zeroSpan(), expr) }

// VarDef builds a `var` VariableDefinition node.
func VarDef(name string, typ *DataType, value Node) *VariableDefinition {
	return NewVariableDefinition(zeroSpan(), KindVar, name, typ, value)
}

// ConstDef builds a `const` VariableDefinition node.
func ConstDef(name string, typ *DataType, value Node) *VariableDefinition {
	return NewVariableDefinition(zeroSpan(), KindConst, name, typ, value)
}

// Fn builds a FunctionDefinition node.
func Fn(name string, params []Param, ret *DataType, body ...Node) *FunctionDefinition {
	return NewFunctionDefinition(zeroSpan(), name, params, ret, body)
}

// P builds a parameter.
func P(name string, typ DataType) Param { return Param{Name: name, Type: typ} }
