package ir

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/scope"
	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// Generator desugars a symbolized AST. It walks the same scope tree the
// symbolizer built, descending into a declaration's own scope.Node while
// generating its body so self-injection and synthesized members can be
// recorded against it (a default destructor it adds, for instance, needs
// a scope.Node of its own so the checker can later resolve `destroy`).
type Generator struct {
	input         string
	scope         *scope.Node
	trace         scope.Trace
	tempID        int
	extraIncludes []Include
}

// New creates a Generator rooted at root, the scope tree the symbolizer
// produced for the same AST.
func New(input string, root *scope.Node) *Generator {
	return &Generator{input: input, scope: root}
}

func (g *Generator) err(kind ErrorKind) *Error {
	return &Error{Kind: kind, Input: g.input}
}

func (g *Generator) addExtraInclude(inc Include) {
	for _, already := range g.extraIncludes {
		if already.FullPath() == inc.FullPath() {
			return
		}
	}
	g.extraIncludes = append(g.extraIncludes, inc)
}

// Generate runs every desugaring over a module's top-level declarations.
func (g *Generator) Generate(nodes []ast.Node) (*Output, error) {
	out := &Output{}
	g.trace = scope.Root()

	for i, n := range nodes {
		g.trace = scope.Child(i, scope.Root())
		switch v := n.(type) {
		case *ast.FunctionDefinition:
			if v.Constructor {
				return nil, g.unexpected(n, "")
			}
			gen, err := g.genFunctionDefinition(v, nil, true)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, gen...)
		case *ast.ClassDefinition:
			gen, err := g.genClassDefinition(v)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, gen...)
		case *ast.SpaceDefinition:
			gen, err := g.genSpaceDefinition(v)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, gen...)
		case *ast.InterfaceDefinition:
			gen, err := g.genInterfaceDefinition(v)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, gen...)
		case *ast.Unchecked, *ast.Generated:
			out.Body = append(out.Body, n)
		case *ast.Use:
			inc, err := g.genInclude(v.Path, v.Span())
			if err != nil {
				return nil, err
			}
			for _, already := range out.Includes {
				if already.FullPath() == inc.FullPath() {
					e := g.err(FileAlreadyIncluded)
					e.Span = v.Span()
					return nil, e
				}
			}
			out.Includes = append(out.Includes, inc)
		default:
			return nil, g.unexpected(n, "")
		}
	}

	for _, inc := range g.extraIncludes {
		dup := false
		for _, already := range out.Includes {
			if already.FullPath() == inc.FullPath() {
				dup = true
				break
			}
		}
		if !dup {
			out.Includes = append(out.Includes, inc)
		}
	}

	return out, nil
}

func (g *Generator) genInclude(path string, span source.Span) (Include, error) {
	switch {
	case len(path) > 2 && path[:2] == "c-":
		return Include{Type: IncludeExternal, Path: path[2:] + ".h"}, nil
	case len(path) > 4 && path[:4] == "std-":
		return Include{Type: IncludeStdExternal, Path: path[4:] + ".h"}, nil
	default:
		return Include{Type: IncludeInternal, Path: path}, nil
	}
}

func (g *Generator) unexpected(n ast.Node, expected string) *Error {
	e := g.err(UnexpectedNode)
	e.Span = n.Span()
	e.Found = shortName(n)
	e.Expected = expected
	return e
}

func shortName(n ast.Node) string {
	switch n.(type) {
	case *ast.Value:
		return "Value"
	case *ast.FunctionCall:
		return "FunctionCall"
	case *ast.FunctionDefinition:
		return "FunctionDefinition"
	case *ast.VariableDefinition:
		return "VariableDefinition"
	case *ast.VariableCall:
		return "VariableCall"
	case *ast.BinaryOperation:
		return "BinaryOperation"
	case *ast.UnaryOperation:
		return "UnaryOperation"
	case *ast.Return:
		return "Return"
	case *ast.ClassDefinition:
		return "ClassDefinition"
	case *ast.SpaceDefinition:
		return "SpaceDefinition"
	case *ast.InterfaceDefinition:
		return "InterfaceDefinition"
	case *ast.IfStatement:
		return "IfStatement"
	case *ast.WhileLoop:
		return "WhileLoop"
	case *ast.MatchStatement:
		return "MatchStatement"
	case *ast.Break:
		return "Break"
	case *ast.Continue:
		return "Continue"
	case *ast.Label:
		return "Label"
	case *ast.Use:
		return "Use"
	default:
		return "Node"
	}
}

// ---- Expressions --------------------------------------------------------

// genExpr desugars an expression node, returning the hoisted
// sub-statements a complex expression needed (assignment snapshots,
// nested calls) followed by the final expression itself.
func (g *Generator) genExpr(n ast.Node) ([]ast.Node, error) {
	switch v := n.(type) {
	case *ast.Value:
		return []ast.Node{v}, nil
	case *ast.FunctionCall:
		return g.genFunctionCall(v)
	case *ast.VariableCall:
		return []ast.Node{v}, nil
	case *ast.BinaryOperation:
		return g.genBinaryOperation(v, true)
	case *ast.UnaryOperation:
		return g.genUnaryOperation(v)
	default:
		return nil, g.unexpected(n, "expression")
	}
}

func last(nodes []ast.Node) (ast.Node, []ast.Node) {
	return nodes[len(nodes)-1], nodes[:len(nodes)-1]
}

func (g *Generator) genFunctionCall(fc *ast.FunctionCall) ([]ast.Node, error) {
	var pre []ast.Node
	newParams := make([]ast.Node, 0, len(fc.Params))
	for _, p := range fc.Params {
		gen, err := g.genExpr(p)
		if err != nil {
			return nil, err
		}
		lastN, rest := last(gen)
		pre = append(pre, rest...)
		newParams = append(newParams, lastN)
	}
	pre = append(pre, ast.NewFunctionCall(fc.Span(), fc.Name, newParams))
	return pre, nil
}

func (g *Generator) genBinaryOperation(bo *ast.BinaryOperation, used bool) ([]ast.Node, error) {
	lhsGen, err := g.genExpr(bo.Lhs)
	if err != nil {
		return nil, err
	}
	rhsGen, err := g.genExpr(bo.Rhs)
	if err != nil {
		return nil, err
	}

	var pre []ast.Node
	lhsLast, lhsRest := last(lhsGen)
	pre = append(pre, lhsRest...)
	rhsLast, rhsRest := last(rhsGen)
	pre = append(pre, rhsRest...)

	switch {
	case bo.Op == ast.Assign && used:
		// `x = (y = z)` needs the assignment's old-value result captured
		// before the assignment runs, since C's `=` evaluates to the
		// right-hand side, not the value actually stored.
		id := fmt.Sprintf("_temp%d", g.tempID)
		g.tempID++
		pre = append(pre, ast.NewVariableDefinition(bo.Span(), ast.KindConst, id, nil, lhsLast))
		pre = append(pre, ast.NewBinaryOperation(bo.Span(), lhsLast, bo.Op, rhsLast))
		pre = append(pre, ast.NewVariableCall(bo.Span(), id))

	case bo.Op == ast.PtrAccess:
		if call, ok := rhsLast.(*ast.FunctionCall); ok {
			newParams := append([]ast.Node{ast.NewOptional(lhsLast)}, call.Params...)
			rhsLast = ast.NewFunctionCall(call.Span(), call.Name, newParams)
		}
		pre = append(pre, ast.NewBinaryOperation(bo.Span(), lhsLast, bo.Op, rhsLast))

	case bo.Op == ast.BoolXor:
		// `a xor b` -> `(a or b) and not (a and b)`
		or := ast.NewBinaryOperation(bo.Span(), lhsLast, ast.BoolOr, rhsLast)
		and := ast.NewBinaryOperation(bo.Span(), lhsLast, ast.BoolAnd, rhsLast)
		notAnd := ast.NewUnaryOperation(bo.Span(), ast.BoolNot, and)
		pre = append(pre, ast.NewBinaryOperation(bo.Span(), or, ast.BoolAnd, notAnd))

	default:
		pre = append(pre, ast.NewBinaryOperation(bo.Span(), lhsLast, bo.Op, rhsLast))
	}

	return pre, nil
}

func (g *Generator) genUnaryOperation(uo *ast.UnaryOperation) ([]ast.Node, error) {
	gen, err := g.genExpr(uo.Value)
	if err != nil {
		return nil, err
	}
	lastN, rest := last(gen)
	return append(rest, ast.NewUnaryOperation(uo.Span(), uo.Op, lastN)), nil
}

// ---- Function bodies -----------------------------------------------------

func (g *Generator) genFunctionBodyStatement(n ast.Node) ([]ast.Node, error) {
	switch v := n.(type) {
	case *ast.Value:
		return []ast.Node{v}, nil
	case *ast.FunctionCall:
		return g.genFunctionCall(v)
	case *ast.VariableDefinition:
		if v.Access != nil {
			e := g.err(CannotSpecifyAccessHere)
			e.Span = v.Span()
			return nil, e
		}
		return g.genVariableDefinition(v)
	case *ast.VariableCall:
		return []ast.Node{v}, nil
	case *ast.BinaryOperation:
		return g.genBinaryOperation(v, false)
	case *ast.UnaryOperation:
		return g.genUnaryOperation(v)
	case *ast.Return:
		return g.genReturn(v)
	case *ast.IfStatement:
		return g.genIfStatement(v)
	case *ast.WhileLoop:
		return g.genWhileLoop(v)
	case *ast.MatchStatement:
		return g.genMatchStatement(v)
	case *ast.Break:
		return []ast.Node{v}, nil
	case *ast.Continue:
		return []ast.Node{v}, nil
	case *ast.Label:
		return g.genLabel(v)
	case *ast.Unchecked, *ast.Generated:
		return []ast.Node{n}, nil
	default:
		return nil, g.unexpected(n, "")
	}
}

func (g *Generator) genVariableDefinition(v *ast.VariableDefinition) ([]ast.Node, error) {
	var pre []ast.Node
	var value ast.Node
	if v.Value != nil {
		gen, err := g.genExpr(v.Value)
		if err != nil {
			return nil, err
		}
		lastN, rest := last(gen)
		pre = append(pre, rest...)
		value = lastN
	}
	def := ast.NewVariableDefinition(v.Span(), v.Kind, v.Name, v.Type, value)
	def.Access = v.Access
	pre = append(pre, def)
	return pre, nil
}

func (g *Generator) genReturn(r *ast.Return) ([]ast.Node, error) {
	var pre []ast.Node
	var expr ast.Node
	if r.Expr != nil {
		gen, err := g.genExpr(r.Expr)
		if err != nil {
			return nil, err
		}
		lastN, rest := last(gen)
		pre = append(pre, rest...)
		expr = lastN
	}
	pre = append(pre, ast.NewReturn(r.Span(), expr))
	return pre, nil
}

func (g *Generator) genBody(body []ast.Node) ([]ast.Node, error) {
	var out []ast.Node
	for _, n := range body {
		gen, err := g.genFunctionBodyStatement(n)
		if err != nil {
			return nil, err
		}
		out = append(out, gen...)
	}
	return out, nil
}

func isTailExpression(n ast.Node) bool {
	switch n.(type) {
	case *ast.Value, *ast.FunctionCall, *ast.VariableCall, *ast.BinaryOperation:
		return true
	default:
		return false
	}
}

// genFunctionBody desugars a function's statement list, implicitly
// wrapping the final statement in a return when the function declares a
// return type and the last statement is an expression rather than an
// explicit `return`.
func (g *Generator) genFunctionBody(body []ast.Node, hasReturnType bool) ([]ast.Node, error) {
	var out []ast.Node
	for i, n := range body {
		isLast := i == len(body)-1
		if hasReturnType && isLast {
			switch n.(type) {
			case *ast.Return:
				gen, err := g.genFunctionBodyStatement(n)
				if err != nil {
					return nil, err
				}
				out = append(out, gen...)
			default:
				gen, err := g.genFunctionBodyStatement(n)
				if err != nil {
					return nil, err
				}
				if !isTailExpression(n) {
					out = append(out, gen...)
					continue
				}
				lastN, rest := last(gen)
				out = append(out, rest...)
				out = append(out, ast.NewReturn(n.Span(), lastN))
			}
		} else {
			gen, err := g.genFunctionBodyStatement(n)
			if err != nil {
				return nil, err
			}
			out = append(out, gen...)
		}
	}
	return out, nil
}

// ---- Functions ------------------------------------------------------------

// genFunctionDefinition desugars one function. classScope is non-nil when
// the function is a method: for an ordinary method this injects an
// explicit `self` parameter; for a constructor it rewrites the return
// type to the class itself and synthesizes the allocation prologue plus
// a trailing `return self`.
func (g *Generator) genFunctionDefinition(fn *ast.FunctionDefinition, classScope *scope.Node, root bool) ([]ast.Node, error) {
	container := g.scope
	fnScope := container.FunctionIn(fn.Name)
	if fnScope != nil {
		g.scope = fnScope
		defer func() { g.scope = container }()
	}

	name := fn.Name
	params := fn.Params
	returnType := fn.ReturnType
	body := fn.Body

	switch {
	case classScope != nil && !fn.Constructor:
		self := ast.Param{Name: "self", Type: ast.Custom(classScope.Name), Span: fn.Span()}
		params = append([]ast.Param{self}, params...)
		if fnScope != nil {
			fnScope.Params = params
			fnScope.AddChild(&scope.Node{
				Kind:        scope.KindVariable,
				VarKind:     ast.KindConst,
				Name:        "self",
				DataType:    paramType(self.Type),
				Initialized: true,
			})
		}

	case classScope != nil && fn.Constructor:
		classType := ast.Custom(classScope.Name)
		returnType = &classType
		if fnScope != nil {
			fnScope.ReturnType = &classType
			fnScope.AddChild(&scope.Node{
				Kind:        scope.KindVariable,
				VarKind:     ast.KindConst,
				Name:        "self",
				DataType:    &classType,
				Initialized: true,
			})
		}

		g.addExtraInclude(Include{Type: IncludeStdExternal, Path: "stdlib.h"})

		noPtr := ast.WithNoPtr(ast.Custom(classScope.Name))
		prologue := ast.NewUnchecked(ast.NewVariableDefinition(fn.Span(), ast.KindConst, "self", &classType,
			ast.NewFunctionCall(fn.Span(), "malloc", []ast.Node{
				ast.NewFunctionCall(fn.Span(), "sizeof", []ast.Node{
					ast.NewValue(fn.Span(), ast.TypeLiteral(noPtr.String())),
				}),
			}),
		))
		trailer := ast.NewReturn(fn.Span(), ast.NewVariableCall(fn.Span(), "self"))

		newBody := make([]ast.Node, 0, len(body)+2)
		newBody = append(newBody, prologue)
		newBody = append(newBody, body...)
		newBody = append(newBody, trailer)
		body = newBody

	case root && name == "main":
		if returnType != nil {
			switch returnType.Custom {
			case "I32":
				cint := ast.Custom("c_int")
				returnType = &cint
				if fnScope != nil {
					fnScope.ReturnType = &cint
				}
			case "c_int":
				// already correct
			default:
				e := g.err(MainFunctionShouldReturnCInt)
				e.Span = fn.Span()
				return nil, e
			}
		} else {
			cint := ast.Custom("c_int")
			returnType = &cint
			if fnScope != nil {
				fnScope.ReturnType = &cint
			}
			body = append(append([]ast.Node{}, body...), ast.NewReturn(fn.Span(), ast.NewValue(fn.Span(), ast.IntegerLiteral("0"))))
		}
	}

	genBody, err := g.genFunctionBody(body, returnType != nil)
	if err != nil {
		return nil, err
	}

	out := ast.NewFunctionDefinitionFull(fn.Span(), name, fn.External, fn.Constructor, params, returnType, genBody, fn.Access)
	return []ast.Node{out}, nil
}

func paramType(t ast.DataType) *ast.DataType { return &t }

// ---- Control flow -----------------------------------------------------------

func (g *Generator) genIfStatement(stmt *ast.IfStatement) ([]ast.Node, error) {
	var pre []ast.Node
	condGen, err := g.genExpr(stmt.Cond)
	if err != nil {
		return nil, err
	}
	condLast, condRest := last(condGen)
	pre = append(pre, condRest...)

	body, err := g.genBody(stmt.Body)
	if err != nil {
		return nil, err
	}

	var elifs []ast.ElifBranch
	for _, elif := range stmt.Elif {
		elifCondGen, err := g.genExpr(elif.Cond)
		if err != nil {
			return nil, err
		}
		elifCondLast, elifCondRest := last(elifCondGen)
		pre = append(pre, elifCondRest...)

		elifBody, err := g.genBody(elif.Body)
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ast.ElifBranch{Cond: elifCondLast, Body: elifBody})
	}

	elseBody, err := g.genBody(stmt.Else)
	if err != nil {
		return nil, err
	}

	pre = append(pre, ast.NewIfStatement(stmt.Span(), condLast, body, elifs, elseBody))
	return pre, nil
}

func (g *Generator) genWhileLoop(w *ast.WhileLoop) ([]ast.Node, error) {
	var pre []ast.Node
	condGen, err := g.genExpr(w.Cond)
	if err != nil {
		return nil, err
	}
	condLast, condRest := last(condGen)
	pre = append(pre, condRest...)

	body, err := g.genBody(w.Body)
	if err != nil {
		return nil, err
	}

	pre = append(pre, ast.NewWhileLoop(w.Span(), condLast, body))
	return pre, nil
}

// genMatchStatement lowers `match e { c1, c2 => A; c3 => B; else => C }`
// into `if (e==c1) or (e==c2) then A elif (e==c3) then B else C end`: every
// comma-separated condition in a branch is OR'd together against the
// match subject, and branches after the first become elif arms. The
// original implementation of this language folded multiple conditions
// with AND instead of OR, which rejected every multi-pattern branch
// whose patterns weren't all simultaneously true; this lowering matches
// the "any of c1, c2, ..." meaning the surface syntax implies.
func (g *Generator) genMatchStatement(m *ast.MatchStatement) ([]ast.Node, error) {
	var pre []ast.Node
	exprGen, err := g.genExpr(m.Expr)
	if err != nil {
		return nil, err
	}
	exprLast, exprRest := last(exprGen)
	pre = append(pre, exprRest...)

	if len(m.Branches) == 0 {
		e := g.err(CannotHaveEmptyMatchExpression)
		e.Span = m.Span()
		return nil, e
	}

	var ifCond ast.Node
	var ifBody []ast.Node
	var elifs []ast.ElifBranch

	for _, branch := range m.Branches {
		var cond ast.Node
		for _, c := range branch.Conditions {
			condGen, err := g.genExpr(c)
			if err != nil {
				return nil, err
			}
			condLast, condRest := last(condGen)
			pre = append(pre, condRest...)

			eq := ast.NewBinaryOperation(c.Span(), exprLast, ast.Equal, condLast)
			if cond == nil {
				cond = eq
			} else {
				cond = ast.NewBinaryOperation(c.Span(), cond, ast.BoolOr, eq)
			}
		}

		body, err := g.genBody(branch.Body)
		if err != nil {
			return nil, err
		}

		if ifCond == nil {
			ifCond = cond
			ifBody = body
		} else {
			elifs = append(elifs, ast.ElifBranch{Cond: cond, Body: body})
		}
	}

	elseBody, err := g.genBody(m.Else)
	if err != nil {
		return nil, err
	}

	pre = append(pre, ast.NewIfStatement(m.Span(), ifCond, ifBody, elifs, elseBody))
	return pre, nil
}

func (g *Generator) genLabel(l *ast.Label) ([]ast.Node, error) {
	gen, err := g.genFunctionBodyStatement(l.Inner)
	if err != nil {
		return nil, err
	}
	lastN, rest := last(gen)
	return append(rest, ast.NewLabel(l.Span(), l.Name, lastN)), nil
}

// ---- Classes, spaces, interfaces -------------------------------------------

func (g *Generator) genClassDefinition(c *ast.ClassDefinition) ([]ast.Node, error) {
	classScope := g.scope.GetClass(scope.FullTrace(), c.Name)
	if classScope == nil {
		e := g.err(UnexpectedNode)
		e.Span = c.Span()
		e.Found = "ClassDefinition"
		return nil, e
	}
	container := g.scope
	g.scope = classScope
	defer func() { g.scope = container }()

	var newBody []ast.Node
	var initConstruction []ast.Node
	hasConstructor := false
	hasFields := false
	var destructorSpan *source.Span

	for _, extName := range c.Extensions {
		hasFields = true
		fieldName := "base_" + extName
		intfScope := g.scope.GetInterface(scope.FullTrace(), extName)
		if intfScope == nil {
			e := g.err(UnexpectedNode)
			e.Span = c.Span()
			e.Found = "extension " + extName
			return nil, e
		}

		classScope.AddChild(&scope.Node{
			Kind:        scope.KindVariable,
			VarKind:     ast.KindConst,
			Name:        fieldName,
			DataType:    paramType(ast.WithNoPtr(ast.Custom(extName))),
			Initialized: true,
		})

		fieldType := ast.Custom(extName)
		newBody = append(newBody, ast.NewGenerated(c.Span(), ast.NewVariableDefinition(c.Span(), ast.KindConst, fieldName, &fieldType, nil)))

		for _, m := range intfScope.Children {
			if m.Kind != scope.KindFunction {
				continue
			}
			target := ast.NewVariableCall(c.Span(), fmt.Sprintf("&%s_%s_impl", c.Name, m.Name))
			fieldAccess := ast.NewBinaryOperation(c.Span(),
				ast.NewVariableCall(c.Span(), "self"), ast.PtrAccess, ast.NewVariableCall(c.Span(), fieldName))
			methodSlot := ast.NewBinaryOperation(c.Span(), fieldAccess, ast.DotAccess,
				ast.NewVariableCall(c.Span(), fmt.Sprintf("%s_%s", extName, m.Name)))
			assign := ast.NewBinaryOperation(c.Span(), methodSlot, ast.Assign, target)
			initConstruction = append(initConstruction, ast.NewGenerated(c.Span(), ast.NewUnchecked(assign)))
		}
	}

	for i, member := range c.Body {
		g.trace = scope.Child(i, scope.Root())
		switch v := member.(type) {
		case *ast.FunctionDefinition:
			if v.Constructor {
				v = ast.NewFunctionDefinitionFull(v.Span(), v.Name, v.External, v.Constructor,
					v.Params, v.ReturnType, append(append([]ast.Node{}, initConstruction...), v.Body...), v.Access)
				hasConstructor = true
			}
			if v.Name == "destroy" {
				span := v.Span()
				if destructorSpan != nil {
					e := g.err(DestructorAlreadyDefined)
					e.Span = span
					e.Previous = *destructorSpan
					return nil, e
				}
				destructorSpan = &span
				if v.ReturnType != nil {
					e := g.err(DestructorShouldNotReturnAnything)
					e.Span = span
					return nil, e
				}
				if len(v.Params) > 0 {
					e := g.err(DestructorShouldNotHaveParameters)
					e.Span = span
					return nil, e
				}
				if v.Constructor {
					e := g.err(DestructorShouldNotBeConstructor)
					e.Span = span
					return nil, e
				}
			}
			gen, err := g.genFunctionDefinition(v, classScope, false)
			if err != nil {
				return nil, err
			}
			newBody = append(newBody, gen...)
		case *ast.VariableDefinition:
			hasFields = true
			gen, err := g.genVariableDefinition(v)
			if err != nil {
				return nil, err
			}
			newBody = append(newBody, gen...)
		case *ast.Unchecked, *ast.Generated:
			newBody = append(newBody, member)
		default:
			return nil, g.unexpected(member, "")
		}
	}

	if destructorSpan == nil {
		synthetic := ast.NewFunctionDefinition(c.Span(), "destroy", nil, nil, []ast.Node{
			ast.NewUnchecked(ast.NewFunctionCall(c.Span(), "free", []ast.Node{ast.NewVariableCall(c.Span(), "self")})),
		})
		pubAccess := ast.AccessPublic
		synthetic.Access = &pubAccess
		classScope.AddChild(&scope.Node{
			Kind: scope.KindFunction, Name: "destroy",
			Params: []ast.Param{{Name: "self", Type: ast.Custom(c.Name)}},
			Access: ast.AccessPublic,
		})
		gen, err := g.genFunctionDefinition(synthetic, classScope, false)
		if err != nil {
			return nil, err
		}
		for _, n := range gen {
			newBody = append(newBody, ast.NewGenerated(c.Span(), n))
		}
	}

	if !hasConstructor && !hasFields {
		synthetic := ast.NewFunctionDefinition(c.Span(), "create", nil, nil, nil)
		synthetic.Constructor = true
		pubAccess := ast.AccessPublic
		synthetic.Access = &pubAccess
		classScope.AddChild(&scope.Node{
			Kind: scope.KindFunction, Name: "create", Constructor: true, Access: ast.AccessPublic,
		})
		gen, err := g.genFunctionDefinition(synthetic, classScope, false)
		if err != nil {
			return nil, err
		}
		for _, n := range gen {
			newBody = append(newBody, ast.NewGenerated(c.Span(), n))
		}
	}

	out := ast.NewClassDefinition(c.Span(), c.Name, newBody, c.Extensions)
	out.Access = c.Access
	return []ast.Node{out}, nil
}


func (g *Generator) genSpaceDefinition(sp *ast.SpaceDefinition) ([]ast.Node, error) {
	spaceScope := g.scope.GetSpace(scope.FullTrace(), sp.Name)
	if spaceScope == nil {
		e := g.err(UnexpectedNode)
		e.Span = sp.Span()
		e.Found = "SpaceDefinition"
		return nil, e
	}
	container := g.scope
	g.scope = spaceScope
	defer func() { g.scope = container }()

	var newBody []ast.Node
	for i, member := range sp.Body {
		g.trace = scope.Child(i, scope.Root())
		gen, err := g.genSpaceBodyMember(member)
		if err != nil {
			return nil, err
		}
		newBody = append(newBody, gen...)
	}

	out := ast.NewSpaceDefinition(sp.Span(), sp.Name, newBody)
	out.Access = sp.Access
	return []ast.Node{out}, nil
}

func (g *Generator) genSpaceBodyMember(member ast.Node) ([]ast.Node, error) {
	switch v := member.(type) {
	case *ast.FunctionDefinition:
		if v.Constructor {
			return nil, g.unexpected(member, "")
		}
		return g.genFunctionDefinition(v, nil, false)
	case *ast.ClassDefinition:
		return g.genClassDefinition(v)
	case *ast.SpaceDefinition:
		return g.genSpaceDefinition(v)
	case *ast.InterfaceDefinition:
		return g.genInterfaceDefinition(v)
	case *ast.Unchecked, *ast.Generated:
		return []ast.Node{member}, nil
	default:
		return nil, g.unexpected(member, "")
	}
}

func (g *Generator) genInterfaceDefinition(i *ast.InterfaceDefinition) ([]ast.Node, error) {
	intfScope := g.scope.GetInterface(scope.FullTrace(), i.Name)
	if intfScope == nil {
		e := g.err(UnexpectedNode)
		e.Span = i.Span()
		e.Found = "InterfaceDefinition"
		return nil, e
	}
	container := g.scope
	g.scope = intfScope
	defer func() { g.scope = container }()

	var newBody []ast.Node
	for i2, member := range i.Body {
		g.trace = scope.Child(i2, scope.Root())
		switch v := member.(type) {
		case *ast.FunctionDefinition:
			if v.Constructor {
				return nil, g.unexpected(member, "")
			}
			gen, err := g.genFunctionDefinition(v, nil, false)
			if err != nil {
				return nil, err
			}
			newBody = append(newBody, gen...)
		case *ast.Unchecked, *ast.Generated:
			newBody = append(newBody, member)
		default:
			return nil, g.unexpected(member, "")
		}
	}

	out := ast.NewInterfaceDefinition(i.Span(), i.Name, newBody)
	out.Access = i.Access
	return []ast.Node{out}, nil
}
