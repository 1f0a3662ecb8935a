package provenance_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
	"github.com/Taly-projects/taly-lang/pkgs/provenance"
	"github.com/Taly-projects/taly-lang/pkgs/source"
	"github.com/stretchr/testify/require"
)

func sampleOutput() ir.Output {
	var sp source.Span
	return ir.Output{
		Includes: []ir.Include{{Type: ir.IncludeStdExternal, Path: "stdio.h"}},
		Body: []ast.Node{
			ast.NewFunctionDefinitionFull(
				sp,
				"main",
				false,
				false,
				nil,
				&ast.DataType{Kind: ast.TypeCustom, Custom: "I32"},
				[]ast.Node{ast.NewReturn(sp, ast.NewValue(sp, ast.IntegerLiteral("0")))},
				nil,
			),
		},
	}
}

// TestFingerprintIsStable checks that hashing the same module twice
// produces the same fingerprint, regardless of Go's undefined map
// iteration order (there are no maps in this tree, but the property
// still needs to hold end to end through the CBOR encode).
func TestFingerprintIsStable(t *testing.T) {
	out := sampleOutput()

	first, err := provenance.Fingerprint(out)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	for i := 0; i < 10; i++ {
		next, err := provenance.Fingerprint(sampleOutput())
		require.NoError(t, err)
		require.Equal(t, first, next)
	}
}

// TestFingerprintDiffersOnContentChange verifies the hash actually
// depends on module content, not just its shape.
func TestFingerprintDiffersOnContentChange(t *testing.T) {
	a := sampleOutput()
	b := sampleOutput()
	fn := b.Body[0].(*ast.FunctionDefinition)
	fn.Name = "other"

	fpA, err := provenance.Fingerprint(a)
	require.NoError(t, err)
	fpB, err := provenance.Fingerprint(b)
	require.NoError(t, err)

	require.NotEqual(t, fpA, fpB)
}

// TestBuildCommentFormat checks the exact comment shape the emitter
// stamps atop every generated file.
func TestBuildCommentFormat(t *testing.T) {
	comment, err := provenance.BuildComment(sampleOutput())
	require.NoError(t, err)
	require.Regexp(t, `^// talyc:build [0-9a-f]{32}$`, comment)
}

// TestFingerprintIgnoresSpans verifies that two modules identical except
// for their source positions hash the same — provenance tracks semantic
// content, not byte offsets.
func TestFingerprintIgnoresSpans(t *testing.T) {
	a := sampleOutput()

	var moved source.Span
	moved.Start = source.Position{Offset: 40, Line: 7, Column: 3}
	moved.End = source.Position{Offset: 41, Line: 7, Column: 4}
	b := ir.Output{
		Includes: a.Includes,
		Body: []ast.Node{
			ast.NewFunctionDefinitionFull(
				moved,
				"main",
				false,
				false,
				nil,
				&ast.DataType{Kind: ast.TypeCustom, Custom: "I32"},
				[]ast.Node{ast.NewReturn(moved, ast.NewValue(moved, ast.IntegerLiteral("0")))},
				nil,
			),
		},
	}

	fpA, err := provenance.Fingerprint(a)
	require.NoError(t, err)
	fpB, err := provenance.Fingerprint(b)
	require.NoError(t, err)
	require.Equal(t, fpA, fpB)
}
