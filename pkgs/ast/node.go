// Package ast defines the talyc abstract syntax tree. Each node kind is a
// Go interface (Node) implemented by one concrete struct per variant,
// discovered through a type switch, rather than a single tagged-enum type.
package ast

import "github.com/Taly-projects/taly-lang/pkgs/source"

// Node is implemented by every AST variant. Span returns the source range
// the node was parsed from; synthesized nodes (wrapped in Generated)
// inherit the span of the statement they replace.
type Node interface {
	Span() source.Span
	node()
}

type base struct {
	span source.Span
}

func (b base) Span() source.Span { return b.span }
func (base) node()               {}

// newBase builds the embeddable span-carrying base for a new node.
func newBase(span source.Span) base { return base{span: span} }

// ---- Literals ----------------------------------------------------------

// Value wraps a literal (string, integer, decimal, boolean) as a standalone
// expression node.
type Value struct {
	base
	Literal Literal
}

func NewValue(span source.Span, lit Literal) *Value { return &Value{base: newBase(span), Literal: lit} }

// ---- Declarations -------------------------------------------------------

// Param is a single function parameter: a name plus its declared type.
type Param struct {
	Name string
	Type DataType
	Span source.Span
}

// FunctionDefinition is `fn NAME(params) [: ReturnType] [=> body]`.
type FunctionDefinition struct {
	base
	Name        string
	External    bool
	Constructor bool
	Params      []Param
	ReturnType  *DataType
	Body        []Node
	Access      *Access
}

func NewFunctionDefinition(span source.Span, name string, params []Param, ret *DataType, body []Node) *FunctionDefinition {
	return &FunctionDefinition{base: newBase(span), Name: name, Params: params, ReturnType: ret, Body: body}
}

// NewFunctionDefinitionFull builds a FunctionDefinition specifying every
// field, used by the IR generator when rebuilding a definition with a
// rewritten body/params/return type but the same external/constructor/
// access flags as the one it replaces.
func NewFunctionDefinitionFull(span source.Span, name string, external, constructor bool, params []Param, ret *DataType, body []Node, access *Access) *FunctionDefinition {
	return &FunctionDefinition{
		base: newBase(span), Name: name, External: external, Constructor: constructor,
		Params: params, ReturnType: ret, Body: body, Access: access,
	}
}

// FunctionCall is `name(args...)`.
type FunctionCall struct {
	base
	Name   string
	Params []Node
}

func NewFunctionCall(span source.Span, name string, params []Node) *FunctionCall {
	return &FunctionCall{base: newBase(span), Name: name, Params: params}
}

// Use is `use "path"`.
type Use struct {
	base
	Path string
}

func NewUse(span source.Span, path string) *Use { return &Use{base: newBase(span), Path: path} }

// VarKind distinguishes `var` from `const` declarations.
type VarKind int

const (
	KindVar VarKind = iota
	KindConst
)

// VariableDefinition is `var|const NAME [: Type] [= Value]`.
type VariableDefinition struct {
	base
	Kind  VarKind
	Name  string
	Type  *DataType
	Value Node // nil if no initializer
	Access *Access
}

func NewVariableDefinition(span source.Span, kind VarKind, name string, typ *DataType, value Node) *VariableDefinition {
	return &VariableDefinition{base: newBase(span), Kind: kind, Name: name, Type: typ, Value: value}
}

// VariableCall is a bare identifier used as an expression.
type VariableCall struct {
	base
	Name string
}

func NewVariableCall(span source.Span, name string) *VariableCall {
	return &VariableCall{base: newBase(span), Name: name}
}

// ---- Expressions ----------------------------------------------------------

// BinaryOperation is `lhs op rhs`.
type BinaryOperation struct {
	base
	Lhs Node
	Op  Operator
	Rhs Node
}

func NewBinaryOperation(span source.Span, lhs Node, op Operator, rhs Node) *BinaryOperation {
	return &BinaryOperation{base: newBase(span), Lhs: lhs, Op: op, Rhs: rhs}
}

// UnaryOperation is `op value` (`-x`, `+x`, `not x`).
type UnaryOperation struct {
	base
	Op    Operator
	Value Node
}

func NewUnaryOperation(span source.Span, op Operator, value Node) *UnaryOperation {
	return &UnaryOperation{base: newBase(span), Op: op, Value: value}
}

// Return is `return [expr]`.
type Return struct {
	base
	Expr Node // nil if bare `return`
}

func NewReturn(span source.Span, expr Node) *Return { return &Return{base: newBase(span), Expr: expr} }

// ---- Types ----------------------------------------------------------------

// ClassDefinition is `class NAME[: I1, I2] body end`.
type ClassDefinition struct {
	base
	Name       string
	Body       []Node
	Access     *Access
	Extensions []string
}

func NewClassDefinition(span source.Span, name string, body []Node, extensions []string) *ClassDefinition {
	return &ClassDefinition{base: newBase(span), Name: name, Body: body, Extensions: extensions}
}

// SpaceDefinition is a namespace-like grouping of functions/classes/spaces/interfaces.
type SpaceDefinition struct {
	base
	Name   string
	Body   []Node
	Access *Access
}

func NewSpaceDefinition(span source.Span, name string, body []Node) *SpaceDefinition {
	return &SpaceDefinition{base: newBase(span), Name: name, Body: body}
}

// InterfaceDefinition groups method signatures a class may implement.
type InterfaceDefinition struct {
	base
	Name   string
	Body   []Node // FunctionDefinition signatures only, no bodies
	Access *Access
}

func NewInterfaceDefinition(span source.Span, name string, body []Node) *InterfaceDefinition {
	return &InterfaceDefinition{base: newBase(span), Name: name, Body: body}
}

// ---- Control flow -----------------------------------------------------------

// ElifBranch is one `elif cond then body` arm of an IfStatement.
type ElifBranch struct {
	Cond Node
	Body []Node
}

// IfStatement is `if cond then body [elif ...]* [else ...] end`.
type IfStatement struct {
	base
	Cond Node
	Body []Node
	Elif []ElifBranch
	Else []Node
}

func NewIfStatement(span source.Span, cond Node, body []Node, elif []ElifBranch, els []Node) *IfStatement {
	return &IfStatement{base: newBase(span), Cond: cond, Body: body, Elif: elif, Else: els}
}

// WhileLoop is `while cond do body end`.
type WhileLoop struct {
	base
	Cond Node
	Body []Node
}

func NewWhileLoop(span source.Span, cond Node, body []Node) *WhileLoop {
	return &WhileLoop{base: newBase(span), Cond: cond, Body: body}
}

// MatchBranch is one `c1, c2, ... => body` arm of a MatchStatement.
type MatchBranch struct {
	Conditions []Node
	Body       []Node
}

// MatchStatement is `match expr branches... [else ...] end`.
type MatchStatement struct {
	base
	Expr     Node
	Branches []MatchBranch
	Else     []Node
}

func NewMatchStatement(span source.Span, expr Node, branches []MatchBranch, els []Node) *MatchStatement {
	return &MatchStatement{base: newBase(span), Expr: expr, Branches: branches, Else: els}
}

// Break is `break [$label]`.
type Break struct {
	base
	Label *string
}

func NewBreak(span source.Span, label *string) *Break { return &Break{base: newBase(span), Label: label} }

// Continue is `continue [$label]`.
type Continue struct {
	base
	Label *string
}

func NewContinue(span source.Span, label *string) *Continue {
	return &Continue{base: newBase(span), Label: label}
}

// Label is `$name : inner`, wrapping a loop so break/continue can target it
// by name.
type Label struct {
	base
	Name  string
	Inner Node
}

func NewLabel(span source.Span, name string, inner Node) *Label {
	return &Label{base: newBase(span), Name: name, Inner: inner}
}
