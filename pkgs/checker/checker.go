// Package checker drives the second traversal over the desugared IR-AST:
// name resolution, access control, type checking, and local type
// inference against the scope tree the symbolizer/IR generator built and
// mutated. Inferred types are written straight onto the already-allocated
// *ast.VariableDefinition nodes as they're discovered, rather than queued
// into a deferred (trace, type) list and re-applied in a second sweep —
// the original's sweep exists because its AST is immutable; Go's
// pointer-shaped ast.Node values make that second pass unnecessary (see
// DESIGN.md).
package checker

import (
	"strings"

	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/scope"
)

// unchecked is the sentinel type an _Unchecked expression reports; it
// compares equal to every other type so a skipped subtree never produces
// a spurious type mismatch in the expression around it.
var unchecked = ast.Custom("_unchecked_")

// Checker walks a module's desugared body once, resolving names against
// the scope tree and type-checking every expression.
type Checker struct {
	input string

	root  *scope.Node
	scope *scope.Node
	trace scope.Trace

	// selected is true while resolving the RHS of `.` access: bare
	// identifiers there are looked up only in the receiver's own scope.
	selected    bool
	blockParent bool
	baseScope   *scope.Node

	loopStack []*scope.Node
	branchIdx map[*scope.Node]int
}

// New creates a Checker over the scope tree the symbolizer and IR
// generator built for input's module.
func New(input string, root *scope.Node) *Checker {
	return &Checker{input: input, root: root, scope: root, branchIdx: map[*scope.Node]int{}}
}

func (c *Checker) err(kind ErrorKind) *Error { return &Error{Kind: kind, Input: c.input} }

func (c *Checker) unexpected(n ast.Node) error {
	e := c.err(SymbolNotFound)
	e.Span = n.Span()
	e.Name = "node"
	return e
}

// Check type-checks and resolves a module's desugared top-level body,
// returning the rebuilt body (FunctionDefinitions wrapped in _Renamed)
// and running the finalization sweep over the scope tree afterward.
func (c *Checker) Check(nodes []ast.Node) ([]ast.Node, error) {
	out, err := c.checkList(nodes, scope.Root(), c.checkTopLevelMember)
	if err != nil {
		return nil, err
	}
	if err := c.checkInference(c.root); err != nil {
		return nil, err
	}
	return out, nil
}

// checkList walks a statement list, advancing the positional trace once
// per statement except for _Generated ones, which keep the same slot as
// the user-visible neighbor they implement (mirrors the Symbolizer's own
// rule so lookups stay consistent across both passes).
func (c *Checker) checkList(nodes []ast.Node, base scope.Trace, step func(ast.Node, scope.Trace) (ast.Node, error)) ([]ast.Node, error) {
	var out []ast.Node
	idx := 0
	for _, n := range nodes {
		trace := scope.Child(idx, base)
		_, m := ast.Unwrap(n)
		res, err := step(n, trace)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
		if !m.Generated {
			idx++
		}
	}
	return out, nil
}

func rewrapGenerated(orig ast.Node, m ast.Markers, inner ast.Node) ast.Node {
	if m.Generated {
		return ast.NewGenerated(orig.Span(), inner)
	}
	return inner
}

// ---- top-level / class / space / interface members -----------------------

func (c *Checker) checkTopLevelMember(n ast.Node, trace scope.Trace) (ast.Node, error) {
	inner, m := ast.Unwrap(n)
	if m.Unchecked {
		return n, nil
	}
	c.trace = trace
	switch v := inner.(type) {
	case *ast.FunctionDefinition:
		res, err := c.checkFunctionDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.ClassDefinition:
		res, err := c.checkClassDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.SpaceDefinition:
		res, err := c.checkSpaceDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.InterfaceDefinition:
		res, err := c.checkInterfaceDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.Use:
		return n, nil
	default:
		return nil, c.unexpected(inner)
	}
}

func (c *Checker) checkClassBodyMember(n ast.Node, trace scope.Trace) (ast.Node, error) {
	inner, m := ast.Unwrap(n)
	if m.Unchecked {
		return n, nil
	}
	c.trace = trace
	switch v := inner.(type) {
	case *ast.FunctionDefinition:
		res, err := c.checkFunctionDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.VariableDefinition:
		res, err := c.checkVariableDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	default:
		return nil, c.unexpected(inner)
	}
}

func (c *Checker) checkSpaceBodyMember(n ast.Node, trace scope.Trace) (ast.Node, error) {
	inner, m := ast.Unwrap(n)
	if m.Unchecked {
		return n, nil
	}
	c.trace = trace
	switch v := inner.(type) {
	case *ast.FunctionDefinition:
		res, err := c.checkFunctionDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.ClassDefinition:
		res, err := c.checkClassDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.SpaceDefinition:
		res, err := c.checkSpaceDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.InterfaceDefinition:
		res, err := c.checkInterfaceDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	default:
		return nil, c.unexpected(inner)
	}
}

func (c *Checker) checkInterfaceBodyMember(n ast.Node, trace scope.Trace) (ast.Node, error) {
	inner, m := ast.Unwrap(n)
	if m.Unchecked {
		return n, nil
	}
	c.trace = trace
	fn, ok := inner.(*ast.FunctionDefinition)
	if !ok {
		return nil, c.unexpected(inner)
	}
	res, err := c.checkFunctionDefinition(fn)
	if err != nil {
		return nil, err
	}
	return rewrapGenerated(n, m, res), nil
}

// mangledName builds the dotted-to-underscore path from the module root
// down to scope n, the name the emitter uses for C symbols.
func (c *Checker) mangledName(n *scope.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Kind != scope.KindRoot; cur = cur.Parent {
		if cur.Kind == scope.KindBranch {
			continue
		}
		parts = append([]string{cur.Name}, parts...)
	}
	return strings.Join(parts, "_")
}

func (c *Checker) checkFunctionDefinition(fn *ast.FunctionDefinition) (ast.Node, error) {
	container := c.scope
	fnScope := container.FunctionIn(fn.Name)
	if fnScope == nil {
		e := c.err(SymbolNotFound)
		e.Name = fn.Name
		e.Span = fn.Span()
		e.Candidates = container.AllNames()
		return nil, e
	}

	savedScope, savedTrace := c.scope, c.trace
	c.scope = fnScope
	body, err := c.checkList(fn.Body, fnScope.Trace, c.checkFunctionBodyStatement)
	c.scope, c.trace = savedScope, savedTrace
	if err != nil {
		return nil, err
	}

	out := ast.NewFunctionDefinitionFull(fn.Span(), fn.Name, fn.External, fn.Constructor, fn.Params, fn.ReturnType, body, fn.Access)
	return ast.NewRenamed(c.mangledName(fnScope), out), nil
}

func (c *Checker) checkVariableDefinition(v *ast.VariableDefinition) (ast.Node, error) {
	sym := c.scope.VariableIn(v.Name)
	if sym == nil {
		e := c.err(SymbolNotFound)
		e.Name = v.Name
		e.Span = v.Span()
		return nil, e
	}

	declType := v.Type
	var valType *ast.DataType
	if v.Value != nil {
		t, err := c.checkExpr(v.Value)
		if err != nil {
			return nil, err
		}
		valType = &t
	}

	if declType != nil && valType != nil && !equivLoose(*valType, *declType) {
		e := c.err(UnexpectedType)
		e.Span = v.Value.Span()
		e.Found = valType.String()
		e.Expected = declType.String()
		return nil, e
	}
	if declType == nil && valType != nil {
		declType = valType
		v.Type = declType
	}

	sym.Initialized = v.Value != nil
	if declType != nil {
		sym.DataType = declType
	}
	return v, nil
}

// ---- classes / spaces / interfaces -----------------------------------------

func (c *Checker) checkClassDefinition(cd *ast.ClassDefinition) (ast.Node, error) {
	classScope := c.scope.GetClass(scope.FullTrace(), cd.Name)
	if classScope == nil {
		e := c.err(SymbolNotFound)
		e.Name = cd.Name
		e.Span = cd.Span()
		return nil, e
	}
	savedScope, savedTrace := c.scope, c.trace
	c.scope = classScope

	body, err := c.checkList(cd.Body, classScope.Trace, c.checkClassBodyMember)
	if err != nil {
		c.scope, c.trace = savedScope, savedTrace
		return nil, err
	}

	for _, ext := range classScope.Extensions {
		for _, m := range ext.Children {
			if m.Kind != scope.KindFunction {
				continue
			}
			impl := classScope.FunctionIn(m.Name)
			if impl == nil {
				c.scope, c.trace = savedScope, savedTrace
				e := c.err(FunctionNotImplemented)
				e.Name = m.Name
				e.Expected = ext.Name
				e.Span = cd.Span()
				return nil, e
			}
			if !signaturesMatch(impl, m) {
				c.scope, c.trace = savedScope, savedTrace
				e := c.err(FunctionNotMatching)
				e.Name = m.Name
				e.Span = impl.Pos
				return nil, e
			}
			impl.Implementation = true
		}
	}

	c.scope, c.trace = savedScope, savedTrace
	out := ast.NewClassDefinition(cd.Span(), cd.Name, body, cd.Extensions)
	out.Access = cd.Access
	return out, nil
}

func signaturesMatch(impl, iface *scope.Node) bool {
	if impl.Constructor || impl.Access != iface.Access {
		return false
	}
	if !dataTypeEq(impl.ReturnType, iface.ReturnType) {
		return false
	}
	implParams := impl.Params
	if len(implParams) > 0 && implParams[0].Name == "self" {
		implParams = implParams[1:]
	}
	if len(implParams) != len(iface.Params) {
		return false
	}
	for i := range implParams {
		if !ast.EquivalentTypes(implParams[i].Type, iface.Params[i].Type) {
			return false
		}
	}
	return true
}

func dataTypeEq(a, b *ast.DataType) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return ast.EquivalentTypes(*a, *b)
}

func (c *Checker) checkSpaceDefinition(sp *ast.SpaceDefinition) (ast.Node, error) {
	spaceScope := c.scope.GetSpace(scope.FullTrace(), sp.Name)
	if spaceScope == nil {
		e := c.err(SymbolNotFound)
		e.Name = sp.Name
		e.Span = sp.Span()
		return nil, e
	}
	savedScope, savedTrace := c.scope, c.trace
	c.scope = spaceScope
	body, err := c.checkList(sp.Body, spaceScope.Trace, c.checkSpaceBodyMember)
	c.scope, c.trace = savedScope, savedTrace
	if err != nil {
		return nil, err
	}
	out := ast.NewSpaceDefinition(sp.Span(), sp.Name, body)
	out.Access = sp.Access
	return out, nil
}

func (c *Checker) checkInterfaceDefinition(i *ast.InterfaceDefinition) (ast.Node, error) {
	intfScope := c.scope.GetInterface(scope.FullTrace(), i.Name)
	if intfScope == nil {
		e := c.err(SymbolNotFound)
		e.Name = i.Name
		e.Span = i.Span()
		return nil, e
	}
	savedScope, savedTrace := c.scope, c.trace
	c.scope = intfScope
	body, err := c.checkList(i.Body, intfScope.Trace, c.checkInterfaceBodyMember)
	c.scope, c.trace = savedScope, savedTrace
	if err != nil {
		return nil, err
	}
	out := ast.NewInterfaceDefinition(i.Span(), i.Name, body)
	out.Access = i.Access
	return out, nil
}

// ---- statements --------------------------------------------------------------

func (c *Checker) checkFunctionBodyStatement(n ast.Node, trace scope.Trace) (ast.Node, error) {
	inner, m := ast.Unwrap(n)
	if m.Unchecked {
		return n, nil
	}
	c.trace = trace
	switch v := inner.(type) {
	case *ast.VariableDefinition:
		res, err := c.checkVariableDefinition(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.Return:
		res, err := c.checkReturn(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.IfStatement:
		res, err := c.checkIfStatement(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.WhileLoop:
		res, err := c.checkWhileLoop(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.Label:
		res, err := c.checkLabel(v)
		if err != nil {
			return nil, err
		}
		return rewrapGenerated(n, m, res), nil
	case *ast.Break:
		if err := c.checkBreak(v); err != nil {
			return nil, err
		}
		return n, nil
	case *ast.Continue:
		if err := c.checkContinue(v); err != nil {
			return nil, err
		}
		return n, nil
	case *ast.FunctionCall, *ast.BinaryOperation, *ast.UnaryOperation, *ast.Value, *ast.VariableCall:
		if _, err := c.checkExpr(inner); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, c.unexpected(inner)
	}
}

func (c *Checker) enclosingFunction() *scope.Node {
	for n := c.scope; n != nil; n = n.Parent {
		if n.Kind == scope.KindFunction {
			return n
		}
	}
	return nil
}

func (c *Checker) checkReturn(r *ast.Return) (ast.Node, error) {
	fn := c.enclosingFunction()
	if fn != nil && fn.ReturnType != nil {
		if r.Expr == nil {
			e := c.err(UnexpectedType)
			e.Span = r.Span()
			e.Found = "nothing"
			e.Expected = fn.ReturnType.String()
			return nil, e
		}
		t, err := c.checkExpr(r.Expr)
		if err != nil {
			return nil, err
		}
		if !equivLoose(t, *fn.ReturnType) {
			e := c.err(UnexpectedType)
			e.Span = r.Expr.Span()
			e.Found = t.String()
			e.Expected = fn.ReturnType.String()
			return nil, e
		}
	} else if r.Expr != nil {
		t, err := c.checkExpr(r.Expr)
		if err != nil {
			return nil, err
		}
		e := c.err(UnexpectedType)
		e.Span = r.Expr.Span()
		e.Found = t.String()
		e.Expected = "nothing"
		return nil, e
	}
	return r, nil
}

func isConditionType(t ast.DataType) bool {
	if t.Kind != ast.TypeCustom {
		return false
	}
	switch t.Custom {
	case "c_int", "I32", "Bool", "_unchecked_":
		return true
	default:
		return false
	}
}

// nextBranch consumes the next not-yet-visited Branch child of the
// current scope in source order, matching the Symbolizer's one-branch-
// per-if/elif/else/while rule.
func (c *Checker) nextBranch() *scope.Node {
	idx := c.branchIdx[c.scope]
	count := 0
	for _, ch := range c.scope.Children {
		if ch.Kind != scope.KindBranch {
			continue
		}
		if count == idx {
			c.branchIdx[c.scope] = idx + 1
			return ch
		}
		count++
	}
	c.branchIdx[c.scope] = idx + 1
	return nil
}

func (c *Checker) checkBranchBody(body []ast.Node, branch *scope.Node) ([]ast.Node, error) {
	if branch == nil {
		branch = c.scope
	}
	savedScope, savedTrace := c.scope, c.trace
	c.scope = branch
	out, err := c.checkList(body, branch.Trace, c.checkFunctionBodyStatement)
	c.scope, c.trace = savedScope, savedTrace
	return out, err
}

func (c *Checker) checkIfStatement(stmt *ast.IfStatement) (ast.Node, error) {
	t, err := c.checkExpr(stmt.Cond)
	if err != nil {
		return nil, err
	}
	if !isConditionType(t) {
		e := c.err(UnexpectedType)
		e.Span = stmt.Cond.Span()
		e.Found = t.String()
		e.Expected = "c_int"
		return nil, e
	}

	body, err := c.checkBranchBody(stmt.Body, c.nextBranch())
	if err != nil {
		return nil, err
	}

	var elifs []ast.ElifBranch
	for _, elif := range stmt.Elif {
		et, err := c.checkExpr(elif.Cond)
		if err != nil {
			return nil, err
		}
		if !isConditionType(et) {
			e := c.err(UnexpectedType)
			e.Span = elif.Cond.Span()
			e.Found = et.String()
			e.Expected = "c_int"
			return nil, e
		}
		b, err := c.checkBranchBody(elif.Body, c.nextBranch())
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ast.ElifBranch{Cond: elif.Cond, Body: b})
	}

	var elseBody []ast.Node
	if len(stmt.Else) > 0 {
		elseBody, err = c.checkBranchBody(stmt.Else, c.nextBranch())
		if err != nil {
			return nil, err
		}
	}

	return ast.NewIfStatement(stmt.Span(), stmt.Cond, body, elifs, elseBody), nil
}

func (c *Checker) checkWhileLoop(w *ast.WhileLoop) (ast.Node, error) {
	t, err := c.checkExpr(w.Cond)
	if err != nil {
		return nil, err
	}
	if !isConditionType(t) {
		e := c.err(UnexpectedType)
		e.Span = w.Cond.Span()
		e.Found = t.String()
		e.Expected = "c_int"
		return nil, e
	}
	branch := c.nextBranch()
	c.loopStack = append(c.loopStack, branch)
	body, err := c.checkBranchBody(w.Body, branch)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(w.Span(), w.Cond, body), nil
}

// checkLabel checks the labeled while loop; the branch's Label field was
// already set by the symbolizer's symbolizeLabel, so loopHasLabel can
// match break/continue targets against it without any work here.
func (c *Checker) checkLabel(l *ast.Label) (ast.Node, error) {
	w, ok := l.Inner.(*ast.WhileLoop)
	if !ok {
		return nil, c.unexpected(l.Inner)
	}
	inner, err := c.checkWhileLoop(w)
	if err != nil {
		return nil, err
	}
	return ast.NewLabel(l.Span(), l.Name, inner), nil
}

func (c *Checker) checkBreak(b *ast.Break) error {
	if len(c.loopStack) == 0 {
		e := c.err(BreakStatementShouldOnlyBeFoundInLoops)
		e.Span = b.Span()
		return e
	}
	if b.Label != nil && !c.loopHasLabel(*b.Label) {
		e := c.err(BreakStatementShouldOnlyBeFoundInLoops)
		e.Span = b.Span()
		e.Name = *b.Label
		return e
	}
	return nil
}

func (c *Checker) checkContinue(cn *ast.Continue) error {
	if len(c.loopStack) == 0 {
		e := c.err(ContinueStatementShouldOnlyBeFoundInLoops)
		e.Span = cn.Span()
		return e
	}
	if cn.Label != nil && !c.loopHasLabel(*cn.Label) {
		e := c.err(ContinueStatementShouldOnlyBeFoundInLoops)
		e.Span = cn.Span()
		e.Name = *cn.Label
		return e
	}
	return nil
}

func (c *Checker) loopHasLabel(label string) bool {
	for _, l := range c.loopStack {
		if l != nil && l.Label == label {
			return true
		}
	}
	return false
}

// ---- expressions --------------------------------------------------------------

func literalType(lit ast.Literal) ast.DataType {
	switch lit.Kind {
	case ast.LitString:
		return ast.Custom("String")
	case ast.LitInteger:
		return ast.Custom("I32")
	case ast.LitDecimal:
		return ast.Custom("F32")
	case ast.LitBoolean:
		return ast.Custom("Bool")
	case ast.LitType:
		return ast.Custom(lit.Raw)
	default:
		return ast.Custom("?")
	}
}

func equivLoose(a, b ast.DataType) bool {
	if a.Kind == ast.TypeCustom && a.Custom == unchecked.Custom {
		return true
	}
	if b.Kind == ast.TypeCustom && b.Custom == unchecked.Custom {
		return true
	}
	return ast.EquivalentTypes(a, b)
}

func (c *Checker) checkExpr(n ast.Node) (ast.DataType, error) {
	inner, m := ast.Unwrap(n)
	if m.Unchecked {
		return unchecked, nil
	}
	switch v := inner.(type) {
	case *ast.Value:
		return literalType(v.Literal), nil
	case *ast.FunctionCall:
		return c.checkFunctionCall(v)
	case *ast.VariableCall:
		return c.checkVariableCall(v)
	case *ast.BinaryOperation:
		return c.checkBinaryOperation(v)
	case *ast.UnaryOperation:
		t, err := c.checkExpr(v.Value)
		return t, err
	default:
		return ast.DataType{}, c.unexpected(inner)
	}
}

func (c *Checker) checkVariableCall(vc *ast.VariableCall) (ast.DataType, error) {
	var sym *scope.Node
	if c.blockParent {
		sym = c.scope.VariableIn(vc.Name)
	} else {
		sym = c.scope.GetVariable(c.trace, vc.Name)
	}
	if sym == nil {
		if cls := c.scope.GetClass(scope.FullTrace(), vc.Name); cls != nil {
			return ast.Custom(vc.Name), nil
		}
		if sp := c.scope.GetSpace(scope.FullTrace(), vc.Name); sp != nil {
			return ast.Custom(vc.Name), nil
		}
		e := c.err(SymbolNotFound)
		e.Name = vc.Name
		e.Span = vc.Span()
		e.Candidates = c.scope.AllNames()
		return ast.DataType{}, e
	}
	if sym.VarKind == ast.KindConst && !sym.Initialized {
		e := c.err(VariableNotInitialized)
		e.Name = vc.Name
		e.Span = vc.Span()
		return ast.DataType{}, e
	}
	if sym.DataType == nil {
		e := c.err(CannotInferType)
		e.Name = vc.Name
		e.Span = vc.Span()
		return ast.DataType{}, e
	}
	return *sym.DataType, nil
}

// checkFunctionCall resolves fc against the scope tree. A callee that
// cannot be resolved is treated as an external C function (declared via a
// header the module `use`s rather than an `extern fn`): its arguments are
// still type-checked recursively, but arity/parameter types are not
// verified, since this compiler never parses C headers. See DESIGN.md.
func (c *Checker) checkFunctionCall(fc *ast.FunctionCall) (ast.DataType, error) {
	var fnScope *scope.Node
	if c.selected {
		fnScope = c.scope.FunctionIn(fc.Name)
	} else {
		fnScope = c.scope.GetFunction(c.trace, fc.Name)
	}

	if fnScope == nil {
		for _, p := range fc.Params {
			if _, err := c.checkExpr(p); err != nil {
				return ast.DataType{}, err
			}
		}
		return ast.Custom("c_int"), nil
	}

	params := fc.Params
	if len(params) > 0 {
		if opt, isOpt := params[0].(*ast.Optional); isOpt {
			if len(params)-1 == len(fnScope.Params) {
				params = params[1:]
			} else {
				inner, _ := ast.Unwrap(opt)
				params = append([]ast.Node{inner}, params[1:]...)
			}
		}
		fc.Params = params
	}

	if len(params) > len(fnScope.Params) {
		e := c.err(TooManyParameters)
		e.Span = fc.Span()
		e.Name = fc.Name
		return ast.DataType{}, e
	}
	if len(params) < len(fnScope.Params) {
		e := c.err(NotEnoughParameters)
		e.Span = fc.Span()
		e.Name = fc.Name
		return ast.DataType{}, e
	}

	for i, p := range params {
		t, err := c.checkExpr(p)
		if err != nil {
			return ast.DataType{}, err
		}
		want := fnScope.Params[i].Type
		if !equivLoose(t, want) {
			e := c.err(UnexpectedType)
			e.Span = p.Span()
			e.Found = t.String()
			e.Expected = want.String()
			return ast.DataType{}, e
		}
	}

	if fnScope.ReturnType != nil {
		return *fnScope.ReturnType, nil
	}
	return ast.DataType{}, nil
}

func (c *Checker) checkBinaryOperation(bo *ast.BinaryOperation) (ast.DataType, error) {
	switch bo.Op {
	case ast.Assign:
		return c.checkAssign(bo)
	case ast.PtrAccess, ast.DotAccess:
		t, _, err := c.evalAccessChain(bo)
		return t, err
	default:
		lt, err := c.checkExpr(bo.Lhs)
		if err != nil {
			return ast.DataType{}, err
		}
		rt, err := c.checkExpr(bo.Rhs)
		if err != nil {
			return ast.DataType{}, err
		}
		if !equivLoose(lt, rt) {
			e := c.err(UnexpectedType)
			e.Span = bo.Rhs.Span()
			e.Found = rt.String()
			e.Expected = lt.String()
			return ast.DataType{}, e
		}
		if bo.Op.IsComparison() {
			return ast.Custom("c_int"), nil
		}
		return lt, nil
	}
}

func (c *Checker) checkAssign(bo *ast.BinaryOperation) (ast.DataType, error) {
	sym, err := c.resolveAssignTarget(bo.Lhs)
	if err != nil {
		return ast.DataType{}, err
	}
	rt, err := c.checkExpr(bo.Rhs)
	if err != nil {
		return ast.DataType{}, err
	}
	if sym.VarKind == ast.KindConst && sym.Initialized {
		e := c.err(CannotAssignToConstant)
		e.Name = sym.Name
		e.Span = bo.Span()
		return ast.DataType{}, e
	}
	if sym.DataType != nil && !equivLoose(rt, *sym.DataType) {
		e := c.err(UnexpectedType)
		e.Span = bo.Rhs.Span()
		e.Found = rt.String()
		e.Expected = sym.DataType.String()
		return ast.DataType{}, e
	}
	sym.Initialized = true
	if sym.DataType == nil {
		sym.DataType = &rt
	}
	return rt, nil
}

func (c *Checker) resolveAssignTarget(n ast.Node) (*scope.Node, error) {
	switch v := n.(type) {
	case *ast.VariableCall:
		var sym *scope.Node
		if c.blockParent {
			sym = c.scope.VariableIn(v.Name)
		} else {
			sym = c.scope.GetVariable(c.trace, v.Name)
		}
		if sym == nil {
			e := c.err(SymbolNotFound)
			e.Name = v.Name
			e.Span = v.Span()
			e.Candidates = c.scope.AllNames()
			return nil, e
		}
		return sym, nil
	case *ast.BinaryOperation:
		if v.Op != ast.PtrAccess && v.Op != ast.DotAccess {
			e := c.err(CannotAssignToConstantExpression)
			e.Span = n.Span()
			return nil, e
		}
		_, sym, err := c.evalAccessChain(v)
		if err != nil {
			return nil, err
		}
		if sym == nil {
			e := c.err(CannotAssignToConstantExpression)
			e.Span = n.Span()
			return nil, e
		}
		return sym, nil
	default:
		e := c.err(CannotAssignToConstantExpression)
		e.Span = n.Span()
		return nil, e
	}
}

// evalAccessChain evaluates `lhs.rhs`, switching scope into the class or
// space the LHS's type names, resolving the RHS only in that receiver
// scope, and applying the access-modifier check before restoring state.
// It returns the RHS's type, and (when the RHS is a plain field) the
// field's scope node, used by assignment.
func (c *Checker) evalAccessChain(bo *ast.BinaryOperation) (ast.DataType, *scope.Node, error) {
	lhsType, err := c.checkExpr(bo.Lhs)
	if err != nil {
		return ast.DataType{}, nil, err
	}

	target := c.scope.GetClass(scope.FullTrace(), lhsType.Custom)
	if target == nil {
		target = c.scope.GetSpace(scope.FullTrace(), lhsType.Custom)
	}
	if target == nil {
		e := c.err(SymbolNotFound)
		e.Name = lhsType.Custom
		e.Span = bo.Lhs.Span()
		return ast.DataType{}, nil, e
	}

	savedScope, savedSelected, savedBlockParent, savedBase := c.scope, c.selected, c.blockParent, c.baseScope
	c.baseScope = savedScope
	c.scope = target
	c.selected = true
	c.blockParent = true
	restore := func() {
		c.scope, c.selected, c.blockParent, c.baseScope = savedScope, savedSelected, savedBlockParent, savedBase
	}

	var rhsType ast.DataType
	var rhsVarNode *scope.Node
	var accessed ast.Access
	var accessedTrace scope.Trace

	switch rv := bo.Rhs.(type) {
	case *ast.VariableCall:
		sym := target.VariableIn(rv.Name)
		if sym == nil {
			restore()
			e := c.err(SymbolNotFound)
			e.Name = rv.Name
			e.Span = rv.Span()
			e.Candidates = target.AllNames()
			return ast.DataType{}, nil, e
		}
		if sym.VarKind == ast.KindConst && !sym.Initialized {
			restore()
			e := c.err(VariableNotInitialized)
			e.Name = rv.Name
			e.Span = rv.Span()
			return ast.DataType{}, nil, e
		}
		if sym.DataType != nil {
			rhsType = *sym.DataType
		}
		rhsVarNode = sym
		accessed, accessedTrace = sym.Access, sym.Trace
	case *ast.FunctionCall:
		fnSym := target.FunctionIn(rv.Name)
		t, err := c.checkExpr(rv)
		if err != nil {
			restore()
			return ast.DataType{}, nil, err
		}
		rhsType = t
		if fnSym != nil {
			accessed, accessedTrace = fnSym.Access, fnSym.Trace
			// rewrite to the mangled C symbol now that resolution by the
			// original short name has succeeded; the post-processor
			// flattens this whole access chain down to just the call.
			rv.Name = c.mangledName(fnSym)
		}
	default:
		restore()
		return ast.DataType{}, nil, c.unexpected(bo.Rhs)
	}
	restore()

	if !accessed.IsPublic() && !c.trace.FollowsPath(accessedTrace) {
		kind := CannotAccessPrivateMember
		if accessed == ast.AccessProtected {
			kind = CannotAccessProtectedMember
		}
		e := c.err(kind)
		e.Span = bo.Rhs.Span()
		switch rv := bo.Rhs.(type) {
		case *ast.VariableCall:
			e.Name = rv.Name
		case *ast.FunctionCall:
			e.Name = rv.Name
		}
		return ast.DataType{}, nil, e
	}

	return rhsType, rhsVarNode, nil
}

// ---- finalization -------------------------------------------------------------

// checkInference descends the scope tree after the statement walk: a
// constant left uninitialized is always an error; any variable the walk
// never managed to assign a type to cannot be emitted. An ordinary `var`
// field left uninitialized is not itself an error here — C happily
// leaves a struct field's initial value to the constructor, and the
// "constant discipline" testable property in the spec is explicitly
// const-scoped (see DESIGN.md).
func (c *Checker) checkInference(n *scope.Node) error {
	for _, ch := range n.Children {
		if ch.Kind == scope.KindVariable {
			if ch.VarKind == ast.KindConst && !ch.Initialized {
				e := c.err(VariableNotInitialized)
				e.Name = ch.Name
				e.Span = ch.Pos
				return e
			}
			if ch.DataType == nil {
				e := c.err(CannotInferType)
				e.Name = ch.Name
				e.Span = ch.Pos
				return e
			}
		}
		if err := c.checkInference(ch); err != nil {
			return err
		}
	}
	return nil
}
