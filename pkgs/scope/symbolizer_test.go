package scope_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/Taly-projects/taly-lang/pkgs/parser"
	"github.com/Taly-projects/taly-lang/pkgs/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbolize(t *testing.T, src string) (*scope.Node, error) {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	nodes, err := parser.Parse(src, toks)
	require.NoError(t, err)
	return scope.New(src).Symbolize(nodes)
}

func TestSymbolize_FunctionAndVariableBecomeChildrenOfRoot(t *testing.T) {
	root, err := symbolize(t, "var x: I32 = 1\nfn main() => return\n")
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, scope.KindVariable, root.Children[0].Kind)
	assert.Equal(t, "x", root.Children[0].Name)
	assert.Equal(t, scope.KindFunction, root.Children[1].Kind)
	assert.Equal(t, "main", root.Children[1].Name)
}

func TestSymbolize_FunctionParametersBecomeVariableChildren(t *testing.T) {
	root, err := symbolize(t, "fn add(a: I32, b: I32): I32 => return a\n")
	require.NoError(t, err)
	fn := root.Children[0]
	require.Len(t, fn.Children, 2)
	assert.Equal(t, "a", fn.Children[0].Name)
	assert.True(t, fn.Children[0].Initialized)
}

func TestSymbolize_DuplicateFunctionIsError(t *testing.T) {
	_, err := symbolize(t, "fn main() => return\nfn main() => return\n")
	require.Error(t, err)
	var serr *scope.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, scope.SymbolAlreadyDefined, serr.Kind)
}

func TestSymbolize_ClassExtendingUnknownInterfaceIsError(t *testing.T) {
	_, err := symbolize(t, "class Duck: Quacker\nend\n")
	require.Error(t, err)
	var serr *scope.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, scope.SymbolNotFound, serr.Kind)
}

func TestSymbolize_ClassExtendingKnownInterfaceRecordsExtension(t *testing.T) {
	src := "intf Quacker\n" +
		"\tfn quack()\n" +
		"end\n" +
		"class Duck: Quacker\n" +
		"end\n"
	root, err := symbolize(t, src)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	class := root.Children[1]
	require.Len(t, class.Extensions, 1)
	assert.Equal(t, "Quacker", class.Extensions[0].Name)
}

func TestSymbolize_IfStatementProducesOneBranchChildPerArm(t *testing.T) {
	src := "fn f() =>\n" +
		"\tif true then\n" +
		"\t\treturn\n" +
		"\telse\n" +
		"\t\treturn\n" +
		"\tend\n" +
		"end\n"
	root, err := symbolize(t, src)
	require.NoError(t, err)
	fn := root.Children[0]
	var branches int
	for _, n := range nestedChildren(fn) {
		if n.Kind == scope.KindBranch {
			branches++
		}
	}
	assert.Equal(t, 2, branches)
}

// nestedChildren flattens a scope subtree depth-first; kept local to the
// test file since scope.Node exposes no traversal helper of its own.
func nestedChildren(n *scope.Node) []*scope.Node {
	var out []*scope.Node
	for _, c := range n.Children {
		out = append(out, c)
		out = append(out, nestedChildren(c)...)
	}
	return out
}

func TestSymbolize_WhileLoopLabelAttachesToBranchNode(t *testing.T) {
	src := "fn f() =>\n" +
		"\t$outer: while true do\n" +
		"\t\tbreak\n" +
		"\tend\n" +
		"end\n"
	root, err := symbolize(t, src)
	require.NoError(t, err)
	fn := root.Children[0]
	require.Len(t, fn.Children, 1)
	assert.Equal(t, "outer", fn.Children[0].Label)
}
