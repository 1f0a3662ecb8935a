package ir_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/Taly-projects/taly-lang/pkgs/parser"
	"github.com/Taly-projects/taly-lang/pkgs/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) (*ir.Output, error) {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	nodes, err := parser.Parse(src, toks)
	require.NoError(t, err)
	root, err := scope.New(src).Symbolize(nodes)
	require.NoError(t, err)
	return ir.New(src, root).Generate(nodes)
}

func TestGenerate_StdUsePrefixProducesStdExternalInclude(t *testing.T) {
	out, err := generate(t, `use "std-stdio"`+"\n")
	require.NoError(t, err)
	require.Len(t, out.Includes, 1)
	assert.Equal(t, ir.IncludeStdExternal, out.Includes[0].Type)
	assert.Equal(t, "stdio.h", out.Includes[0].Path)
}

func TestGenerate_CUsePrefixProducesExternalInclude(t *testing.T) {
	out, err := generate(t, `use "c-math"`+"\n")
	require.NoError(t, err)
	require.Len(t, out.Includes, 1)
	assert.Equal(t, ir.IncludeExternal, out.Includes[0].Type)
	assert.Equal(t, "math.h", out.Includes[0].Path)
}

func TestGenerate_PlainUseProducesInternalInclude(t *testing.T) {
	out, err := generate(t, `use "list"`+"\n")
	require.NoError(t, err)
	require.Len(t, out.Includes, 1)
	assert.Equal(t, ir.IncludeInternal, out.Includes[0].Type)
	assert.Equal(t, "list", out.Includes[0].Path)
}

func TestGenerate_DuplicateUseIsError(t *testing.T) {
	_, err := generate(t, `use "c-math.h"`+"\n"+`use "c-math.h"`+"\n")
	require.Error(t, err)
	var ierr *ir.Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ir.FileAlreadyIncluded, ierr.Kind)
}

func TestGenerate_MainWithoutReturnTypeGetsImplicitReturn0(t *testing.T) {
	out, err := generate(t, "fn main() =>\n\tvar x = 1\nend\n")
	require.NoError(t, err)
	require.Len(t, out.Body, 1)
	fn, ok := out.Body[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, "c_int", fn.ReturnType.Custom)

	last := fn.Body[len(fn.Body)-1]
	ret, ok := last.(*ast.Return)
	require.True(t, ok)
	val, ok := ret.Expr.(*ast.Value)
	require.True(t, ok)
	assert.Equal(t, "0", val.Literal.Raw)
}

func TestGenerate_MainDeclaringI32ReturnIsRewrittenToCInt(t *testing.T) {
	out, err := generate(t, "fn main(): I32 => return 0\n")
	require.NoError(t, err)
	fn := out.Body[0].(*ast.FunctionDefinition)
	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, "c_int", fn.ReturnType.Custom)
}

func TestGenerate_MatchLowersToIfStatementWithOredConditions(t *testing.T) {
	src := "fn f(x: I32): I32 =>\n" +
		"\tmatch x\n" +
		"\t\t1, 2 => return 1\n" +
		"\t\telse => return 0\n" +
		"\tend\n" +
		"end\n"
	out, err := generate(t, src)
	require.NoError(t, err)
	fn := out.Body[0].(*ast.FunctionDefinition)
	require.Len(t, fn.Body, 1)

	ifs, ok := fn.Body[0].(*ast.IfStatement)
	require.True(t, ok)
	cond, ok := ifs.Cond.(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.BoolOr, cond.Op)
	require.Len(t, ifs.Else, 1)
}

func TestGenerate_EmptyMatchIsError(t *testing.T) {
	src := "fn f(x: I32) =>\n" +
		"\tmatch x\n" +
		"\tend\n" +
		"end\n"
	_, err := generate(t, src)
	require.Error(t, err)
	var ierr *ir.Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ir.CannotHaveEmptyMatchExpression, ierr.Kind)
}

func TestGenerate_ClassWithoutDestroyGetsSyntheticFreeCall(t *testing.T) {
	src := "class Counter\n" +
		"\tvar count: I32 = 0\n" +
		"end\n"
	out, err := generate(t, src)
	require.NoError(t, err)
	require.Len(t, out.Body, 1)

	class := out.Body[0].(*ast.ClassDefinition)
	var destroy *ast.FunctionDefinition
	for _, m := range class.Body {
		inner, _ := ast.Unwrap(m)
		if fn, ok := inner.(*ast.FunctionDefinition); ok && fn.Name == "destroy" {
			destroy = fn
		}
	}
	require.NotNil(t, destroy, "a class with no user destructor must get a synthesized one")
	require.Len(t, destroy.Body, 1)
}
