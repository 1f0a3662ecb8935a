package scope

import (
	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// Kind discriminates the different things a Node in the scope tree can
// represent. Go has no tagged-union enum, so Node is one flat struct with
// kind-specific fields left zero for the kinds that don't use them, the
// same flattening the emitter's own template data structs use.
type Kind int

const (
	KindRoot Kind = iota
	KindFunction
	KindVariable
	KindClass
	KindSpace
	KindInterface
	KindBranch
)

// Node is one entry in the scope tree: a declaration (function, variable,
// class, space, interface) or a lexical branch (if/elif/else/while body).
type Node struct {
	Pos    source.Span
	Kind   Kind
	Parent *Node
	Trace  Trace
	Access ast.Access

	Children []*Node

	// Function / Variable / Class / Space / Interface
	Name string

	// Function
	Params         []ast.Param
	ReturnType     *ast.DataType
	External       bool
	Constructor    bool
	Implementation bool

	// Variable
	VarKind     ast.VarKind
	DataType    *ast.DataType
	Initialized bool

	// Class / Space
	LinkedSpace bool
	LinkedClass bool
	Extensions  []*Node // resolved interface Nodes a class declares `extend`

	// Branch
	Label     string
	DebugName string
}

// NewRoot creates the scope tree root, one per compiled file.
func NewRoot() *Node {
	return &Node{Kind: KindRoot}
}

// AddChild appends child to n's children and sets its Parent. Root,
// Function, Class, Space, Interface and Branch nodes hold children;
// Variable nodes never do.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// GetLast returns the most recently added child.
func (n *Node) GetLast() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func matches(c *Node, kind Kind, name string, trace Trace, requireOrder bool) bool {
	if c.Kind != kind || c.Name != name {
		return false
	}
	if requireOrder && !trace.FollowsPath(c.Trace) {
		return false
	}
	return true
}

// enterFunction looks for a function declared directly under n (not
// through n's parent). When orderSensitive is true, only declarations at
// or before trace count — forward references to ordinary functions are
// rejected, matching the language's declare-before-use rule.
func (n *Node) enterFunction(trace Trace, name string, orderSensitive bool) *Node {
	for _, c := range n.Children {
		if matches(c, KindFunction, name, trace, orderSensitive) {
			return c
		}
	}
	return nil
}

// GetFunction recurses up through parents looking for name, the lookup a
// call expression performs.
func (n *Node) GetFunction(trace Trace, name string) *Node {
	if f := n.enterFunction(trace, name, n.Kind != KindRoot); f != nil {
		return f
	}
	if n.Parent != nil {
		return n.Parent.GetFunction(trace, name)
	}
	return nil
}

func (n *Node) enterVariable(trace Trace, name string, orderSensitive bool) *Node {
	for _, c := range n.Children {
		if matches(c, KindVariable, name, trace, orderSensitive) {
			return c
		}
	}
	return nil
}

// GetVariable recurses up through parents looking for a variable/constant
// or parameter named name, honoring declaration order at each level.
func (n *Node) GetVariable(trace Trace, name string) *Node {
	if v := n.enterVariable(trace, name, true); v != nil {
		return v
	}
	if n.Parent != nil {
		return n.Parent.GetVariable(trace, name)
	}
	return nil
}

func (n *Node) enterClass(trace Trace, name string) *Node {
	for _, c := range n.Children {
		if matches(c, KindClass, name, trace, false) {
			return c
		}
	}
	return nil
}

// GetClass resolves a class name; types are always looked up with a full
// trace by callers, since a type may be used before its textual
// declaration point.
func (n *Node) GetClass(trace Trace, name string) *Node {
	if c := n.enterClass(trace, name); c != nil {
		return c
	}
	if n.Parent != nil {
		return n.Parent.GetClass(trace, name)
	}
	return nil
}

func (n *Node) enterSpace(trace Trace, name string) *Node {
	for _, c := range n.Children {
		if matches(c, KindSpace, name, trace, false) {
			return c
		}
	}
	return nil
}

// GetSpace resolves a space name.
func (n *Node) GetSpace(trace Trace, name string) *Node {
	if s := n.enterSpace(trace, name); s != nil {
		return s
	}
	if n.Parent != nil {
		return n.Parent.GetSpace(trace, name)
	}
	return nil
}

func (n *Node) enterInterface(trace Trace, name string) *Node {
	for _, c := range n.Children {
		if matches(c, KindInterface, name, trace, false) {
			return c
		}
	}
	return nil
}

// GetInterface resolves an interface name.
func (n *Node) GetInterface(trace Trace, name string) *Node {
	if i := n.enterInterface(trace, name); i != nil {
		return i
	}
	if n.Parent != nil {
		return n.Parent.GetInterface(trace, name)
	}
	return nil
}

// VariableIn returns the variable or field declared directly under n named
// name, ignoring declaration order. The checker uses this (rather than
// GetVariable) to resolve the right side of `.` access, where only the
// receiver's own scope is searched, never its enclosing scopes.
func (n *Node) VariableIn(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindVariable && c.Name == name {
			return c
		}
	}
	return nil
}

// FunctionIn returns the function-or-constructor child named name declared
// directly in n's body (no parent recursion), used when attaching a
// `self` parameter or verifying a destructor/constructor by simple name.
func (n *Node) FunctionIn(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindFunction && c.Name == name {
			return c
		}
	}
	return nil
}

// AllNames collects the declared names of every function and variable
// visible from n outward, used to build "did you mean" suggestions.
func (n *Node) AllNames() []string {
	var names []string
	cur := n
	for cur != nil {
		for _, c := range cur.Children {
			if c.Kind == KindFunction || c.Kind == KindVariable || c.Kind == KindClass {
				names = append(names, c.Name)
			}
		}
		cur = cur.Parent
	}
	return names
}
