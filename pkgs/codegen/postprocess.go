// Package codegen turns a checked module into a runnable C project: a
// post-processing flatten pass collapses `.` access chains down to the
// plain calls the checker already resolved and renamed, then the emitter
// walks the flattened tree into `.h`/`.c` text, grounded in the teacher's
// text/template composition (`pkgs/generator/go_template.go`) for the
// file-level skeleton and the original compiler's recursive string
// builder (`src/generator/generator.rs`) for expression/statement text.
package codegen

import (
	"github.com/Taly-projects/taly-lang/pkgs/ast"
)

// Flatten collapses every `.` access chain in nodes down to its resolved
// target, mirroring the original's PostProcessor: by the time a module
// reaches codegen, the IR generator has already fused a method call's
// receiver into its argument list (wrapped in ast.Optional) and the
// checker has already rewritten the callee's Name to its mangled form,
// so the BinaryOperation wrapping the chain carries no information the
// flattened call doesn't already have — it can simply be replaced by its
// right-hand side.
func Flatten(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = flattenNode(n)
	}
	return out
}

func flattenNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Unchecked:
		return flattenNode(v.Inner)
	case *ast.Optional:
		return flattenNode(v.Inner)
	case *ast.Generated:
		// Generated only matters to the Symbolizer/Checker's positional
		// trace bookkeeping; the emitter doesn't care how a node came to
		// exist, only what it says.
		return flattenNode(v.Inner)
	case *ast.Renamed:
		return renameNode(flattenNode(v.Inner), v.NewName)
	case *ast.Implementation:
		return flattenNode(v.Inner)

	case *ast.FunctionDefinition:
		body := Flatten(v.Body)
		return ast.NewFunctionDefinitionFull(v.Span(), v.Name, v.External, v.Constructor, v.Params, v.ReturnType, body, v.Access)
	case *ast.ClassDefinition:
		out := ast.NewClassDefinition(v.Span(), v.Name, Flatten(v.Body), v.Extensions)
		out.Access = v.Access
		return out
	case *ast.SpaceDefinition:
		out := ast.NewSpaceDefinition(v.Span(), v.Name, Flatten(v.Body))
		out.Access = v.Access
		return out
	case *ast.InterfaceDefinition:
		out := ast.NewInterfaceDefinition(v.Span(), v.Name, Flatten(v.Body))
		out.Access = v.Access
		return out

	case *ast.FunctionCall:
		params := make([]ast.Node, len(v.Params))
		for i, p := range v.Params {
			params[i] = flattenNode(p)
		}
		return ast.NewFunctionCall(v.Span(), v.Name, params)
	case *ast.VariableDefinition:
		var value ast.Node
		if v.Value != nil {
			value = flattenNode(v.Value)
		}
		out := ast.NewVariableDefinition(v.Span(), v.Kind, v.Name, v.Type, value)
		out.Access = v.Access
		return out
	case *ast.BinaryOperation:
		if v.Op == ast.PtrAccess || v.Op == ast.DotAccess {
			return flattenAccess(v)
		}
		return ast.NewBinaryOperation(v.Span(), flattenNode(v.Lhs), v.Op, flattenNode(v.Rhs))
	case *ast.UnaryOperation:
		return ast.NewUnaryOperation(v.Span(), v.Op, flattenNode(v.Value))
	case *ast.Return:
		var expr ast.Node
		if v.Expr != nil {
			expr = flattenNode(v.Expr)
		}
		return ast.NewReturn(v.Span(), expr)
	case *ast.IfStatement:
		elifs := make([]ast.ElifBranch, len(v.Elif))
		for i, e := range v.Elif {
			elifs[i] = ast.ElifBranch{Cond: flattenNode(e.Cond), Body: Flatten(e.Body)}
		}
		var els []ast.Node
		if v.Else != nil {
			els = Flatten(v.Else)
		}
		return ast.NewIfStatement(v.Span(), flattenNode(v.Cond), Flatten(v.Body), elifs, els)
	case *ast.WhileLoop:
		return ast.NewWhileLoop(v.Span(), flattenNode(v.Cond), Flatten(v.Body))
	case *ast.Label:
		return ast.NewLabel(v.Span(), v.Name, flattenNode(v.Inner))

	default:
		// Value, VariableCall, Use, Break, Continue carry nothing further
		// to descend into.
		return n
	}
}

// flattenAccess drops the receiver side of a `.` chain once its RHS has
// resolved to a call: the IR generator already spliced the receiver into
// the call's own argument list, so the BinaryOperation wrapper is pure
// scaffolding the checker needed and the emitter doesn't.
func flattenAccess(bo *ast.BinaryOperation) ast.Node {
	inner, m := ast.Unwrap(bo.Rhs)
	if fc, ok := inner.(*ast.FunctionCall); ok {
		flat := flattenNode(fc)
		if m.Renamed {
			return renameNode(flat, m.RenamedTo)
		}
		return flat
	}
	return ast.NewBinaryOperation(bo.Span(), flattenNode(bo.Lhs), bo.Op, flattenNode(bo.Rhs))
}

// renameNode applies a _Renamed marker's mangled name directly onto the
// node it wraps, rather than keeping the wrapper around for the emitter
// to special-case.
func renameNode(n ast.Node, name string) ast.Node {
	switch v := n.(type) {
	case *ast.FunctionDefinition:
		return ast.NewFunctionDefinitionFull(v.Span(), name, v.External, v.Constructor, v.Params, v.ReturnType, v.Body, v.Access)
	case *ast.FunctionCall:
		return ast.NewFunctionCall(v.Span(), name, v.Params)
	default:
		return n
	}
}
