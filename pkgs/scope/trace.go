// Package scope builds and queries the order-aware scope tree the checker
// uses to resolve names. A Trace records the positional path from the
// program root down to a point in the tree (one index per nesting level);
// comparing two traces tells the resolver whether a candidate symbol was
// declared at or before the point being resolved, without a separate
// forward-declaration pass.
package scope

// Trace is a reversed positional path: Index is this level's child
// position, Parent points one level up. A Full trace matches any path
// it's compared against (used when looking up types, which may be used
// before their textual declaration point in the file).
type Trace struct {
	Full   bool
	Index  int
	Parent *Trace
}

// Root returns the trace for the top of the program.
func Root() Trace { return Trace{} }

// FullTrace returns a trace that FollowsPath always accepts.
func FullTrace() Trace { return Trace{Full: true} }

// Child returns the trace for the index-th child of parent.
func Child(index int, parent Trace) Trace {
	p := parent
	return Trace{Index: index, Parent: &p}
}

func (t Trace) asPath() []int {
	var path []int
	if t.Parent != nil {
		path = t.Parent.asPath()
	}
	return append(path, t.Index)
}

// FollowsPath reports whether t is at or after other in declaration order,
// i.e. whether a symbol recorded at trace `other` is visible to code at
// trace `t`. A Full trace on either side always matches.
func (t Trace) FollowsPath(other Trace) bool {
	if t.Full || other.Full {
		return true
	}

	self := t.asPath()
	target := other.asPath()

	if len(self) < len(target) {
		return false
	}

	for i := 0; i < len(target)-1; i++ {
		if self[i] != target[i] {
			return false
		}
	}

	return true
}
