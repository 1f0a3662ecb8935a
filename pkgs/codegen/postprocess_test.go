package codegen_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/codegen"
	"github.com/Taly-projects/taly-lang/pkgs/source"
	"github.com/stretchr/testify/require"
)

func TestFlattenStripsGeneratedMarker(t *testing.T) {
	var sp source.Span
	inner := ast.NewVariableDefinition(sp, ast.KindVar, "x", &ast.DataType{Kind: ast.TypeCustom, Custom: "I32"}, nil)
	wrapped := ast.NewGenerated(sp, inner)

	out := codegen.Flatten([]ast.Node{wrapped})
	require.Len(t, out, 1)
	_, ok := out[0].(*ast.VariableDefinition)
	require.True(t, ok, "Generated wrapper must be fully stripped, not just unwrapped one layer")
}

func TestFlattenAppliesRenamedNameToFunctionDefinition(t *testing.T) {
	var sp source.Span
	fn := ast.NewFunctionDefinition(sp, "greet", nil, nil, nil)
	renamed := ast.NewRenamed("Greeter_greet", fn)

	out := codegen.Flatten([]ast.Node{renamed})
	require.Len(t, out, 1)
	got, ok := out[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	require.Equal(t, "Greeter_greet", got.Name)
}

func TestFlattenCollapsesDotAccessToResolvedCall(t *testing.T) {
	var sp source.Span
	receiver := ast.NewVariableCall(sp, "self")
	call := ast.NewFunctionCall(sp, "Greeter_greet", []ast.Node{receiver})
	access := ast.NewBinaryOperation(sp, receiver, ast.DotAccess, call)

	out := codegen.Flatten([]ast.Node{access})
	require.Len(t, out, 1)
	got, ok := out[0].(*ast.FunctionCall)
	require.True(t, ok, "a `.` chain resolving to a call should collapse to just that call")
	require.Equal(t, "Greeter_greet", got.Name)
}

func TestFlattenLeavesNonAccessBinaryOperationsAlone(t *testing.T) {
	var sp source.Span
	lhs := ast.NewValue(sp, ast.IntegerLiteral("1"))
	rhs := ast.NewValue(sp, ast.IntegerLiteral("2"))
	add := ast.NewBinaryOperation(sp, lhs, ast.Add, rhs)

	out := codegen.Flatten([]ast.Node{add})
	require.Len(t, out, 1)
	got, ok := out[0].(*ast.BinaryOperation)
	require.True(t, ok)
	require.Equal(t, ast.Add, got.Op)
}
