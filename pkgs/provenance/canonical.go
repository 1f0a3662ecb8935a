// Package provenance fingerprints a compiled module's checked IR for the
// informational `// talyc:build <hash>` comment the emitter stamps atop
// generated `.h`/`.c` files. It is never read back to decide whether to
// recompile — purely a provenance trail, not a build cache.
//
// Grounded in the teacher's "canonicalize, then hash" pattern
// (core/planfmt/canonical.go): the tree is first walked into a
// placeholder-free, slice-only CanonicalNode form (so Go's undefined map
// iteration order and the source positions carried on every ast.Node —
// irrelevant to a module's semantic content — can't perturb the digest),
// then CBOR-encoded with canonical (deterministic) options, then hashed.
package provenance

import (
	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
)

// CanonicalModule is the canonical, hash-stable form of an ir.Output.
type CanonicalModule struct {
	Version  uint8
	Includes []CanonicalInclude
	Body     []CanonicalNode
}

// CanonicalInclude is one resolved #include, in canonical form.
type CanonicalInclude struct {
	Type uint8
	Path string
}

// CanonicalNode is a union type standing in for every ast.Node kind that
// can appear in a module's checked IR, mirroring the teacher's
// CanonicalNode union over execution-tree nodes.
type CanonicalNode struct {
	Kind string

	// marker fields (Renamed/Generated/Implementation/Unchecked/Optional)
	Inner   *CanonicalNode
	NewName string

	// FunctionDefinition / FunctionCall
	Name        string
	External    bool
	Constructor bool
	Params      []CanonicalParam
	ReturnType  *CanonicalType
	Body        []CanonicalNode
	Args        []CanonicalNode

	// Use
	Path string

	// VariableDefinition / VariableCall
	VarKind int
	Type    *CanonicalType
	Value   *CanonicalNode

	// BinaryOperation / UnaryOperation
	Lhs *CanonicalNode
	Op  string
	Rhs *CanonicalNode

	// Return
	Expr *CanonicalNode

	// ClassDefinition / SpaceDefinition / InterfaceDefinition
	Extensions []string

	// IfStatement
	Cond  *CanonicalNode
	Elif  []CanonicalElif
	Else  []CanonicalNode
	While *CanonicalNode

	// Break / Continue / Label
	Label string

	// Value
	Literal *CanonicalLiteral

	Access string
}

// CanonicalElif is one elif branch in canonical form.
type CanonicalElif struct {
	Cond *CanonicalNode
	Body []CanonicalNode
}

// CanonicalParam is a function parameter in canonical form.
type CanonicalParam struct {
	Name string
	Type CanonicalType
}

// CanonicalType is a resolved data type in canonical form, mirroring
// ast.DataType's Kind/Custom/Return/Params shape.
type CanonicalType struct {
	Kind   int
	Custom string
	Return *CanonicalType
	Params []CanonicalType
}

// CanonicalLiteral is a literal value in canonical form.
type CanonicalLiteral struct {
	Kind int
	Raw  string
	Bool bool
}

// Canonicalize converts a desugared module's IR output into canonical
// form for hashing.
func Canonicalize(out ir.Output) CanonicalModule {
	cm := CanonicalModule{
		Version:  1,
		Includes: make([]CanonicalInclude, len(out.Includes)),
		Body:     canonicalizeList(out.Body),
	}
	for i, inc := range out.Includes {
		cm.Includes[i] = CanonicalInclude{Type: uint8(inc.Type), Path: inc.Path}
	}
	return cm
}

func canonicalizeList(nodes []ast.Node) []CanonicalNode {
	out := make([]CanonicalNode, len(nodes))
	for i, n := range nodes {
		out[i] = canonicalizeNode(n)
	}
	return out
}

func canonicalizeType(t *ast.DataType) *CanonicalType {
	if t == nil {
		return nil
	}
	ct := &CanonicalType{Kind: int(t.Kind), Custom: t.Custom, Return: canonicalizeType(t.Return)}
	if t.Params != nil {
		ct.Params = make([]CanonicalType, len(t.Params))
		for i, p := range t.Params {
			ct.Params[i] = *canonicalizeType(&p)
		}
	}
	return ct
}

func canonicalizeNode(n ast.Node) CanonicalNode {
	if n == nil {
		return CanonicalNode{Kind: "nil"}
	}

	switch v := n.(type) {
	case *ast.Unchecked:
		inner := canonicalizeNode(v.Inner)
		return CanonicalNode{Kind: "unchecked", Inner: &inner}
	case *ast.Optional:
		inner := canonicalizeNode(v.Inner)
		return CanonicalNode{Kind: "optional", Inner: &inner}
	case *ast.Generated:
		inner := canonicalizeNode(v.Inner)
		return CanonicalNode{Kind: "generated", Inner: &inner}
	case *ast.Implementation:
		inner := canonicalizeNode(v.Inner)
		return CanonicalNode{Kind: "implementation", Inner: &inner}
	case *ast.Renamed:
		inner := canonicalizeNode(v.Inner)
		return CanonicalNode{Kind: "renamed", Inner: &inner, NewName: v.NewName}

	case *ast.FunctionDefinition:
		return CanonicalNode{
			Kind:        "func_def",
			Name:        v.Name,
			External:    v.External,
			Constructor: v.Constructor,
			Params:      canonicalizeParams(v.Params),
			ReturnType:  canonicalizeType(v.ReturnType),
			Body:        canonicalizeList(v.Body),
			Access:      accessString(v.Access),
		}
	case *ast.FunctionCall:
		return CanonicalNode{Kind: "func_call", Name: v.Name, Args: canonicalizeList(v.Params)}
	case *ast.Use:
		return CanonicalNode{Kind: "use", Path: v.Path}
	case *ast.VariableDefinition:
		var value *CanonicalNode
		if v.Value != nil {
			cv := canonicalizeNode(v.Value)
			value = &cv
		}
		var typ *CanonicalType
		if v.Type != nil {
			typ = canonicalizeType(v.Type)
		}
		return CanonicalNode{
			Kind:    "var_def",
			Name:    v.Name,
			VarKind: int(v.Kind),
			Type:    typ,
			Value:   value,
			Access:  accessString(v.Access),
		}
	case *ast.VariableCall:
		return CanonicalNode{Kind: "var_call", Name: v.Name}
	case *ast.BinaryOperation:
		lhs := canonicalizeNode(v.Lhs)
		rhs := canonicalizeNode(v.Rhs)
		return CanonicalNode{Kind: "binop", Lhs: &lhs, Op: v.Op.String(), Rhs: &rhs}
	case *ast.UnaryOperation:
		val := canonicalizeNode(v.Value)
		return CanonicalNode{Kind: "unop", Op: v.Op.String(), Rhs: &val}
	case *ast.Return:
		var expr *CanonicalNode
		if v.Expr != nil {
			e := canonicalizeNode(v.Expr)
			expr = &e
		}
		return CanonicalNode{Kind: "return", Expr: expr}
	case *ast.ClassDefinition:
		return CanonicalNode{
			Kind:       "class_def",
			Name:       v.Name,
			Body:       canonicalizeList(v.Body),
			Extensions: v.Extensions,
			Access:     accessString(v.Access),
		}
	case *ast.SpaceDefinition:
		return CanonicalNode{Kind: "space_def", Name: v.Name, Body: canonicalizeList(v.Body), Access: accessString(v.Access)}
	case *ast.InterfaceDefinition:
		return CanonicalNode{Kind: "interface_def", Name: v.Name, Body: canonicalizeList(v.Body), Access: accessString(v.Access)}
	case *ast.IfStatement:
		cond := canonicalizeNode(v.Cond)
		elifs := make([]CanonicalElif, len(v.Elif))
		for i, e := range v.Elif {
			ec := canonicalizeNode(e.Cond)
			elifs[i] = CanonicalElif{Cond: &ec, Body: canonicalizeList(e.Body)}
		}
		return CanonicalNode{
			Kind: "if",
			Cond: &cond,
			Body: canonicalizeList(v.Body),
			Elif: elifs,
			Else: canonicalizeList(v.Else),
		}
	case *ast.WhileLoop:
		cond := canonicalizeNode(v.Cond)
		return CanonicalNode{Kind: "while", Cond: &cond, Body: canonicalizeList(v.Body)}
	case *ast.Break:
		l := ""
		if v.Label != nil {
			l = *v.Label
		}
		return CanonicalNode{Kind: "break", Label: l}
	case *ast.Continue:
		l := ""
		if v.Label != nil {
			l = *v.Label
		}
		return CanonicalNode{Kind: "continue", Label: l}
	case *ast.Label:
		inner := canonicalizeNode(v.Inner)
		return CanonicalNode{Kind: "label", Label: v.Name, Inner: &inner}
	case *ast.Value:
		return CanonicalNode{Kind: "value", Literal: &CanonicalLiteral{Kind: int(v.Literal.Kind), Raw: v.Literal.Raw, Bool: v.Literal.Bool}}

	default:
		// MatchStatement is desugared away by the IR generator before
		// codegen/provenance ever see a module; any other unrecognized node
		// still gets a stable (if coarse) fingerprint contribution instead
		// of silently vanishing from the hash.
		return CanonicalNode{Kind: "unknown"}
	}
}

func canonicalizeParams(params []ast.Param) []CanonicalParam {
	out := make([]CanonicalParam, len(params))
	for i, p := range params {
		out[i] = CanonicalParam{Name: p.Name, Type: *canonicalizeType(&p.Type)}
	}
	return out
}

func accessString(a *ast.Access) string {
	if a == nil {
		return ""
	}
	return a.String()
}
