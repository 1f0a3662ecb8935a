package ast

import "github.com/Taly-projects/taly-lang/pkgs/source"

// Marker wrappers carry meta-information about a node rather than syntax of
// their own. They are modeled as small outer records rather than as extra
// variants of every node kind, so any Node can be wrapped regardless of
// which concrete type it is.

// Unchecked marks a node the Checker must skip entirely.
type Unchecked struct {
	base
	Inner Node
}

func NewUnchecked(inner Node) *Unchecked { return &Unchecked{base: newBase(inner.Span()), Inner: inner} }

// Optional marks a call argument the Checker may silently drop if the
// callee's declared arity has no slot for it (used for the synthesized
// receiver argument of `a.f(x)` call fusion).
type Optional struct {
	base
	Inner Node
}

func NewOptional(inner Node) *Optional { return &Optional{base: newBase(inner.Span()), Inner: inner} }

// Renamed propagates a mangled name through to emission without altering
// the wrapped node's own Name field.
type Renamed struct {
	base
	NewName string
	Inner   Node
}

func NewRenamed(newName string, inner Node) *Renamed {
	return &Renamed{base: newBase(inner.Span()), NewName: newName, Inner: inner}
}

// Generated marks a node synthesized by a later pass. Generated nodes do
// not advance the Symbolizer's positional trace, so synthetic symbols slot
// in at the same index as the user-visible neighbor they implement.
type Generated struct {
	base
	Inner Node
}

func NewGenerated(span source.Span, inner Node) *Generated {
	return &Generated{base: newBase(span), Inner: inner}
}

// Implementation marks a class method as satisfying an interface method of
// the same name, tagged by the Checker once signature matching succeeds.
type Implementation struct {
	base
	Inner Node
}

func NewImplementation(inner Node) *Implementation {
	return &Implementation{base: newBase(inner.Span()), Inner: inner}
}

// Unwrap strips every marker wrapper from n and returns the underlying
// node together with the set of markers that were present.
func Unwrap(n Node) (Node, Markers) {
	var m Markers
	for {
		switch w := n.(type) {
		case *Unchecked:
			m.Unchecked = true
			n = w.Inner
		case *Optional:
			m.Optional = true
			n = w.Inner
		case *Renamed:
			m.Renamed = true
			m.RenamedTo = w.NewName
			n = w.Inner
		case *Generated:
			m.Generated = true
			n = w.Inner
		case *Implementation:
			m.Implementation = true
			n = w.Inner
		default:
			return n, m
		}
	}
}

// Markers is the accumulated set of marker wrappers Unwrap found around a
// node.
type Markers struct {
	Unchecked      bool
	Optional       bool
	Renamed        bool
	RenamedTo      string
	Generated      bool
	Implementation bool
}
