package scope

import (
	"github.com/Taly-projects/taly-lang/pkgs/ast"
)

// Symbolizer walks a freshly parsed AST once and builds the scope tree
// later passes resolve names against. It never rejects a program on type
// grounds — only on structural symbol conflicts (duplicate declarations,
// a class `extend`ing an interface that doesn't exist).
type Symbolizer struct {
	input string
	trace Trace
}

// New creates a Symbolizer over source text input, used only to render
// diagnostics.
func New(input string) *Symbolizer {
	return &Symbolizer{input: input}
}

func access(a *ast.Access) ast.Access {
	if a == nil {
		return ast.AccessPrivate
	}
	return *a
}

// Symbolize builds the scope tree for a top-level program body and
// returns its root.
func (s *Symbolizer) Symbolize(nodes []ast.Node) (*Node, error) {
	root := NewRoot()
	s.trace = Root()
	index := 0
	for _, n := range nodes {
		if err := s.symbolizeNode(n, root); err != nil {
			return nil, err
		}
		if _, isUse := n.(*ast.Use); !isUse {
			index++
			s.trace = Trace{Index: index}
		}
	}
	return root, nil
}

func (s *Symbolizer) err(kind ErrorKind) *Error {
	return &Error{Kind: kind, Input: s.input}
}

func (s *Symbolizer) symbolizeNode(n ast.Node, parent *Node) error {
	switch v := n.(type) {
	case *ast.FunctionDefinition:
		return s.symbolizeFunction(v, parent)
	case *ast.Use:
		return nil // moved out by the IR generator
	case *ast.VariableDefinition:
		return s.symbolizeVariable(v, parent)
	case *ast.ClassDefinition:
		return s.symbolizeClass(v, parent)
	case *ast.SpaceDefinition:
		return s.symbolizeSpace(v, parent)
	case *ast.InterfaceDefinition:
		return s.symbolizeInterface(v, parent)
	case *ast.IfStatement:
		return s.symbolizeIf(v, parent)
	case *ast.WhileLoop:
		return s.symbolizeWhile(v, parent)
	case *ast.Label:
		return s.symbolizeLabel(v, parent)
	default:
		return nil
	}
}

func (s *Symbolizer) symbolizeFunction(fn *ast.FunctionDefinition, parent *Node) error {
	var returnType *ast.DataType
	if fn.ReturnType != nil {
		returnType = fn.ReturnType
	}

	if prev := parent.enterFunction(FullTrace(), fn.Name, false); prev != nil {
		e := s.err(SymbolAlreadyDefined)
		e.Name = fn.Name
		e.Span = fn.Span()
		e.Previous = prev.Pos
		return e
	}

	node := &Node{
		Pos:         fn.Span(),
		Kind:        KindFunction,
		Trace:       s.trace,
		Access:      access(fn.Access),
		Name:        fn.Name,
		Params:      fn.Params,
		ReturnType:  returnType,
		External:    fn.External,
		Constructor: fn.Constructor,
	}
	parent.AddChild(node)

	for _, p := range fn.Params {
		if prev := node.enterVariable(FullTrace(), p.Name, false); prev != nil {
			e := s.err(SymbolAlreadyDefined)
			e.Name = p.Name
			e.Span = p.Span
			e.Previous = prev.Pos
			return e
		}
		pt := p.Type
		node.AddChild(&Node{
			Pos:         p.Span,
			Kind:        KindVariable,
			VarKind:     ast.KindConst,
			Name:        p.Name,
			DataType:    &pt,
			Initialized: true,
		})
	}

	return s.symbolizeBody(fn.Body, node)
}

func (s *Symbolizer) symbolizeVariable(v *ast.VariableDefinition, parent *Node) error {
	if prev := parent.enterVariable(FullTrace(), v.Name, false); prev != nil {
		e := s.err(SymbolAlreadyDefined)
		e.Name = v.Name
		e.Span = v.Span()
		e.Previous = prev.Pos
		return e
	}

	parent.AddChild(&Node{
		Pos:         v.Span(),
		Kind:        KindVariable,
		Trace:       s.trace,
		Access:      access(v.Access),
		VarKind:     v.Kind,
		Name:        v.Name,
		DataType:    v.Type,
		Initialized: v.Value != nil,
	})
	return nil
}

func (s *Symbolizer) symbolizeClass(c *ast.ClassDefinition, parent *Node) error {
	linkedSpace := false
	if sp := parent.enterSpace(FullTrace(), c.Name); sp != nil {
		sp.LinkedClass = true
		linkedSpace = true
	}

	var extensions []*Node
	for _, ext := range c.Extensions {
		intf := parent.GetInterface(FullTrace(), ext)
		if intf == nil {
			e := s.err(SymbolNotFound)
			e.Name = ext
			e.Span = c.Span()
			e.Candidates = parent.AllNames()
			return e
		}
		extensions = append(extensions, intf)
	}

	if prev := parent.enterClass(FullTrace(), c.Name); prev != nil {
		e := s.err(SymbolAlreadyDefined)
		e.Name = c.Name
		e.Span = c.Span()
		e.Previous = prev.Pos
		return e
	}

	node := &Node{
		Pos:         c.Span(),
		Kind:        KindClass,
		Trace:       s.trace,
		Access:      access(c.Access),
		Name:        c.Name,
		LinkedSpace: linkedSpace,
		Extensions:  extensions,
	}
	parent.AddChild(node)

	return s.symbolizeBody(c.Body, node)
}

func (s *Symbolizer) symbolizeSpace(sp *ast.SpaceDefinition, parent *Node) error {
	linkedClass := false
	if cl := parent.enterClass(FullTrace(), sp.Name); cl != nil {
		cl.LinkedSpace = true
		linkedClass = true
	}

	if prev := parent.enterSpace(FullTrace(), sp.Name); prev != nil {
		e := s.err(SymbolAlreadyDefined)
		e.Name = sp.Name
		e.Span = sp.Span()
		e.Previous = prev.Pos
		return e
	}

	node := &Node{
		Pos:         sp.Span(),
		Kind:        KindSpace,
		Trace:       s.trace,
		Access:      access(sp.Access),
		Name:        sp.Name,
		LinkedClass: linkedClass,
	}
	parent.AddChild(node)

	return s.symbolizeBody(sp.Body, node)
}

func (s *Symbolizer) symbolizeInterface(i *ast.InterfaceDefinition, parent *Node) error {
	if prev := parent.enterInterface(FullTrace(), i.Name); prev != nil {
		e := s.err(SymbolAlreadyDefined)
		e.Name = i.Name
		e.Span = i.Span()
		e.Previous = prev.Pos
		return e
	}

	node := &Node{
		Pos:    i.Span(),
		Kind:   KindInterface,
		Trace:  s.trace,
		Access: access(i.Access),
		Name:   i.Name,
	}
	parent.AddChild(node)

	return s.symbolizeBody(i.Body, node)
}

func (s *Symbolizer) symbolizeIf(stmt *ast.IfStatement, parent *Node) error {
	ifNode := &Node{Pos: stmt.Span(), Kind: KindBranch, Trace: s.trace, Access: ast.AccessPublic, DebugName: "If"}
	parent.AddChild(ifNode)
	if err := s.symbolizeBody(stmt.Body, ifNode); err != nil {
		return err
	}
	s.trace = Child(s.trace.Index+1, parentOf(s.trace))

	for _, elif := range stmt.Elif {
		elifNode := &Node{Pos: elif.Cond.Span(), Kind: KindBranch, Trace: s.trace, Access: ast.AccessPublic, DebugName: "Elif"}
		parent.AddChild(elifNode)
		if err := s.symbolizeBody(elif.Body, elifNode); err != nil {
			return err
		}
		s.trace = Child(s.trace.Index+1, parentOf(s.trace))
	}

	if len(stmt.Else) > 0 {
		elseNode := &Node{Pos: stmt.Span(), Kind: KindBranch, Trace: s.trace, Access: ast.AccessPublic, DebugName: "Else"}
		parent.AddChild(elseNode)
		if err := s.symbolizeBody(stmt.Else, elseNode); err != nil {
			return err
		}
	}

	return nil
}

func (s *Symbolizer) symbolizeWhile(w *ast.WhileLoop, parent *Node) error {
	node := &Node{Pos: w.Span(), Kind: KindBranch, Trace: s.trace, Access: ast.AccessPublic, DebugName: "While"}
	parent.AddChild(node)
	return s.symbolizeBody(w.Body, node)
}

func (s *Symbolizer) symbolizeLabel(l *ast.Label, parent *Node) error {
	if err := s.symbolizeNode(l.Inner, parent); err != nil {
		return err
	}
	last := parent.GetLast()
	if last != nil && last.Kind == KindBranch {
		last.Label = l.Name
	}
	return nil
}

// symbolizeBody recurses into a nested statement list, descending one
// trace level and restoring the parent trace on return.
func (s *Symbolizer) symbolizeBody(body []ast.Node, parent *Node) error {
	saved := s.trace
	s.trace = Child(0, saved)
	for i, n := range body {
		s.trace = Child(i, saved)
		if err := s.symbolizeNode(n, parent); err != nil {
			return err
		}
	}
	s.trace = saved
	return nil
}

func parentOf(t Trace) Trace {
	if t.Parent == nil {
		return Root()
	}
	return *t.Parent
}
