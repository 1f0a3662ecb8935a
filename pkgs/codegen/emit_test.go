package codegen_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/codegen"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
	"github.com/Taly-projects/taly-lang/pkgs/source"
	"github.com/stretchr/testify/require"
)

func TestCompileEmitsIncludeGuardAndMain(t *testing.T) {
	var sp source.Span
	i32 := &ast.DataType{Kind: ast.TypeCustom, Custom: "I32"}
	body := []ast.Node{ast.NewReturn(sp, ast.NewValue(sp, ast.IntegerLiteral("0")))}
	main := ast.NewFunctionDefinitionFull(sp, "main", false, false, nil, i32, body, nil)

	out := ir.Output{
		Includes: []ir.Include{{Type: ir.IncludeStdExternal, Path: "stdio.h"}},
		Body:     []ast.Node{main},
	}

	proj, err := codegen.Compile(out)
	require.NoError(t, err)
	require.Contains(t, proj.Files, "main")

	f := proj.Files["main"]
	require.Contains(t, f.Header, "#ifndef TALY_GEN_C_main_H")
	require.Contains(t, f.Header, "#include <stdio.h>")
	require.Contains(t, f.Header, "// talyc:build ")
	require.Contains(t, f.Src, "int main(void) {")
	require.Contains(t, f.Src, "return 0;")
}

func TestCompileRendersInternalIncludeWithHeaderSuffix(t *testing.T) {
	out := ir.Output{
		Includes: []ir.Include{{Type: ir.IncludeInternal, Path: "list"}},
		Body:     nil,
	}

	proj, err := codegen.Compile(out)
	require.NoError(t, err)
	require.Contains(t, proj.Files["main"].Header, `#include "list.h"`)
}

func TestGenClassRendersStructAndMethods(t *testing.T) {
	var sp source.Span
	i32 := &ast.DataType{Kind: ast.TypeCustom, Custom: "I32"}
	field := ast.NewVariableDefinition(sp, ast.KindVar, "count", i32, nil)
	method := ast.NewFunctionDefinitionFull(sp, "Counter_get", false, false,
		[]ast.Param{{Name: "self", Type: *i32}}, i32,
		[]ast.Node{ast.NewReturn(sp, ast.NewVariableCall(sp, "self"))}, nil)
	class := ast.NewClassDefinition(sp, "Counter", []ast.Node{field, method}, nil)

	out := ir.Output{Body: []ast.Node{class}}
	proj, err := codegen.Compile(out)
	require.NoError(t, err)

	f := proj.Files["main"]
	require.Contains(t, f.Header, "typedef struct Counter {")
	require.Contains(t, f.Header, "int count;")
	require.Contains(t, f.Src, "Counter_get")
}
