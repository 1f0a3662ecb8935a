package parser_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/Taly-projects/taly-lang/pkgs/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) []ast.Node {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	nodes, err := parser.Parse(src, toks)
	require.NoError(t, err)
	return nodes
}

func TestParse_FunctionDefinitionWithReturn(t *testing.T) {
	nodes := parse(t, "fn main(): I32 => return 0\n")
	require.Len(t, nodes, 1)

	fn, ok := nodes[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, "I32", fn.ReturnType.Custom)
	require.Len(t, fn.Body, 1)
	_, ok = fn.Body[0].(*ast.Return)
	assert.True(t, ok)
}

func TestParse_FunctionDefinitionWithIndentedBody(t *testing.T) {
	src := "fn main(): I32 =>\n" +
		"\tvar x = 1\n" +
		"\treturn x\n" +
		"end\n"
	nodes := parse(t, src)
	require.Len(t, nodes, 1)

	fn, ok := nodes[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	require.Len(t, fn.Body, 2)
	_, ok = fn.Body[0].(*ast.VariableDefinition)
	assert.True(t, ok)
	_, ok = fn.Body[1].(*ast.Return)
	assert.True(t, ok)
}

func TestParse_ExternFunctionHasNoBody(t *testing.T) {
	nodes := parse(t, "extern fn puts(s: Str): I32\n")
	require.Len(t, nodes, 1)
	fn, ok := nodes[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	assert.True(t, fn.External)
	assert.Empty(t, fn.Body)
}

func TestParse_VariableDefinitionWithAccessModifier(t *testing.T) {
	nodes := parse(t, "pub var count: I32 = 1\n")
	require.Len(t, nodes, 1)
	def, ok := nodes[0].(*ast.VariableDefinition)
	require.True(t, ok)
	assert.Equal(t, ast.KindVar, def.Kind)
	require.NotNil(t, def.Access)
	assert.Equal(t, ast.AccessPublic, *def.Access)
}

func TestParse_ConstWithoutInitializerIsError(t *testing.T) {
	toks, err := lexer.Tokenize("const x: I32\n")
	require.NoError(t, err)
	_, err = parser.Parse("const x: I32\n", toks)
	require.Error(t, err)

	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.UninitializedConstant, perr.Kind)
}

func TestParse_ClassWithFieldAndMethod(t *testing.T) {
	src := "class Counter\n" +
		"\tvar count: I32 = 0\n" +
		"\tfn get(): I32 => return count\n" +
		"end\n"
	nodes := parse(t, src)
	require.Len(t, nodes, 1)

	class, ok := nodes[0].(*ast.ClassDefinition)
	require.True(t, ok)
	assert.Equal(t, "Counter", class.Name)
	require.Len(t, class.Body, 2)
}

func TestParse_ClassWithExtensions(t *testing.T) {
	nodes := parse(t, "class Duck: Quacker, Walker\nend\n")
	require.Len(t, nodes, 1)
	class, ok := nodes[0].(*ast.ClassDefinition)
	require.True(t, ok)
	assert.Equal(t, []string{"Quacker", "Walker"}, class.Extensions)
}

func TestParse_IfElifElse(t *testing.T) {
	src := "fn sign(x: I32): I32 =>\n" +
		"\tif x > 0 then\n" +
		"\t\treturn 1\n" +
		"\telif x < 0 then\n" +
		"\t\treturn -1\n" +
		"\telse\n" +
		"\t\treturn 0\n" +
		"\tend\n" +
		"end\n"
	nodes := parse(t, src)
	require.Len(t, nodes, 1)
	fn := nodes[0].(*ast.FunctionDefinition)
	require.Len(t, fn.Body, 1)

	ifs, ok := fn.Body[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, ifs.Elif, 1)
	require.Len(t, ifs.Else, 1)
}

func TestParse_WhileLoop(t *testing.T) {
	src := "fn loop() =>\n" +
		"\twhile true do\n" +
		"\t\tbreak\n" +
		"\tend\n" +
		"end\n"
	nodes := parse(t, src)
	fn := nodes[0].(*ast.FunctionDefinition)
	require.Len(t, fn.Body, 1)
	loop, ok := fn.Body[0].(*ast.WhileLoop)
	require.True(t, ok)
	require.Len(t, loop.Body, 1)
	_, ok = loop.Body[0].(*ast.Break)
	assert.True(t, ok)
}

func TestParse_DotAccessLowersToPtrAccess(t *testing.T) {
	nodes := parse(t, "self.greet()\n")
	require.Len(t, nodes, 1)
	bin, ok := nodes[0].(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.PtrAccess, bin.Op)
}

func TestParse_OperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3)
	nodes := parse(t, "1 + 2 * 3\n")
	require.Len(t, nodes, 1)
	add, ok := nodes[0].(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Add, add.Op)

	mul, ok := add.Rhs.(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, mul.Op)
}

func TestParse_AssignmentIsRightAssociative(t *testing.T) {
	nodes := parse(t, "a = b = 1\n")
	require.Len(t, nodes, 1)
	outer, ok := nodes[0].(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Assign, outer.Op)

	inner, ok := outer.Rhs.(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Assign, inner.Op)
}

func TestParse_UseStatement(t *testing.T) {
	nodes := parse(t, `use "stdio.h"` + "\n")
	require.Len(t, nodes, 1)
	use, ok := nodes[0].(*ast.Use)
	require.True(t, ok)
	assert.Equal(t, "stdio.h", use.Path)
}

func TestParse_UnexpectedTokenReportsCaretDiagnostic(t *testing.T) {
	toks, err := lexer.Tokenize("fn (): I32\n")
	require.NoError(t, err)
	_, err = parser.Parse("fn (): I32\n", toks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected token")
}
