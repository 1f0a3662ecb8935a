// Package ir desugars a symbolized AST into a form the checker and
// emitter can consume without special-casing surface sugar: constructors
// become ordinary functions with an allocation prologue, methods gain an
// explicit `self` parameter, match statements become if/elif chains, and
// so on.
package ir

import "github.com/Taly-projects/taly-lang/pkgs/ast"

// IncludeType is the origin of a `use` path.
type IncludeType int

const (
	IncludeExternal    IncludeType = iota // use "c-X" -> "X.h"
	IncludeStdExternal                    // use "std-X" -> <X.h>, tracked as std
	IncludeInternal                       // use "X" -> "X.h"
)

// Include is one resolved #include directive.
type Include struct {
	Type IncludeType
	Path string
}

// FullPath is the canonical key used to detect duplicate includes; it
// round-trips through the same prefix the surface syntax used so a
// `use "c-stdio"` and a later `use "c-stdio"` collide, but a `use "c-stdio"`
// and a generator-internal std include of the same header do not.
func (i Include) FullPath() string {
	switch i.Type {
	case IncludeExternal:
		return "c-" + i.Path
	case IncludeStdExternal:
		return "std-" + i.Path
	default:
		return i.Path
	}
}

// Output is what the IR generator produces: the flattened list of
// includes a module needs, and its desugared body.
type Output struct {
	Includes []Include
	Body     []ast.Node
}
