package scope

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/source"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrorKind identifies a symbolizer failure.
type ErrorKind int

const (
	SymbolAlreadyDefined ErrorKind = iota
	SymbolNotFound
)

// Error is the envelope the symbolizer returns for a failed pass.
type Error struct {
	Kind ErrorKind

	Name     string
	Span     source.Span
	Previous source.Span // set for SymbolAlreadyDefined

	Input       string
	Candidates  []string // known names, for suggestion ranking
}

func (e *Error) Error() string {
	switch e.Kind {
	case SymbolAlreadyDefined:
		return source.RenderRelated(e.Input,
			fmt.Sprintf("symbol '%s' already defined", e.Name), e.Span,
			"previously defined here", e.Previous)
	case SymbolNotFound:
		msg := fmt.Sprintf("symbol '%s' not found", e.Name)
		if suggestion := e.suggest(); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", suggestion)
		}
		return source.RenderMessage(e.Input, msg, e.Span)
	default:
		return "symbolizer error"
	}
}

// suggest ranks Candidates by edit distance to Name and returns the
// closest one, mirroring fuzzy.RankFind's behavior for misspelling
// recovery ("fnction" -> "function").
func (e *Error) suggest() string {
	matches := fuzzy.RankFindFold(e.Name, e.Candidates)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Distance < best.Distance {
			best = m
		}
	}
	return best.Target
}
