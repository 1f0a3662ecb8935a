package provenance_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
	"github.com/Taly-projects/taly-lang/pkgs/provenance"
	"github.com/Taly-projects/taly-lang/pkgs/source"
	"github.com/google/go-cmp/cmp"
)

func spanAt(offset, line, col int) source.Span {
	p := source.Position{Offset: offset, Line: line, Column: col, ColumnIndex: col}
	return source.Span{Start: p, End: p}
}

// TestCanonicalizeIsSpanIndependent mirrors core/planfmt/canonical_test.go's
// shape: two modules built from nodes with different spans must canonicalize
// to byte-for-byte identical structures, not just hash the same. cmp.Diff
// gives a field-by-field diff on failure instead of testify's single
// "not equal" line, which matters here since CanonicalNode is a wide struct.
func TestCanonicalizeIsSpanIndependent(t *testing.T) {
	spanA := spanAt(0, 1, 0)
	spanB := spanAt(400, 9, 12)

	a := ir.Output{
		Includes: []ir.Include{{Type: ir.IncludeInternal, Path: "list"}},
		Body: []ast.Node{
			ast.NewFunctionDefinitionFull(spanA, "f", false, false, nil,
				&ast.DataType{Kind: ast.TypeCustom, Custom: "I32"},
				[]ast.Node{ast.NewReturn(spanA, ast.NewValue(spanA, ast.IntegerLiteral("1")))},
				nil),
		},
	}
	b := ir.Output{
		Includes: []ir.Include{{Type: ir.IncludeInternal, Path: "list"}},
		Body: []ast.Node{
			ast.NewFunctionDefinitionFull(spanB, "f", false, false, nil,
				&ast.DataType{Kind: ast.TypeCustom, Custom: "I32"},
				[]ast.Node{ast.NewReturn(spanB, ast.NewValue(spanB, ast.IntegerLiteral("1")))},
				nil),
		},
	}

	got := provenance.Canonicalize(a)
	want := provenance.Canonicalize(b)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("canonical forms differ despite only spans changing (-want +got):\n%s", diff)
	}
}

// TestCanonicalizeDiffersOnCallName exercises cmp.Diff on a genuine content
// mismatch so the diff stays meaningful beyond the span-independence case.
func TestCanonicalizeDiffersOnCallName(t *testing.T) {
	span := spanAt(0, 1, 0)
	a := provenance.Canonicalize(ir.Output{Body: []ast.Node{ast.NewFunctionCall(span, "foo", nil)}})
	b := provenance.Canonicalize(ir.Output{Body: []ast.Node{ast.NewFunctionCall(span, "bar", nil)}})
	if cmp.Equal(a, b) {
		t.Fatal("expected canonical forms to differ on function call name")
	}
}
