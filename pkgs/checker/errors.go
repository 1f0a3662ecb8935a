package checker

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/source"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrorKind identifies a checker failure, per the taxonomy the Checker
// section of the spec assigns to name resolution, type checking, and
// access control.
type ErrorKind int

const (
	SymbolNotFound ErrorKind = iota
	UnexpectedType
	TooManyParameters
	NotEnoughParameters
	VariableNotInitialized
	CannotAssignToConstantExpression
	CannotAssignToConstant
	CannotInferType
	CannotAccessAnythingMember
	CannotAccessPrivateMember
	CannotAccessProtectedMember
	BreakStatementShouldOnlyBeFoundInLoops
	ContinueStatementShouldOnlyBeFoundInLoops
	FunctionNotImplemented
	FunctionNotMatching
)

// Error is the envelope the checker returns for a failed pass.
type Error struct {
	Kind ErrorKind

	Name     string
	Span     source.Span
	Found    string
	Expected string

	Input      string
	Candidates []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case SymbolNotFound:
		msg := fmt.Sprintf("symbol '%s' not found", e.Name)
		if s := e.suggest(); s != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", s)
		}
		return source.RenderMessage(e.Input, msg, e.Span)
	case UnexpectedType:
		return source.RenderMessage(e.Input,
			fmt.Sprintf("expected type '%s', found '%s'", e.Expected, e.Found), e.Span)
	case TooManyParameters:
		return source.RenderMessage(e.Input, "too many parameters", e.Span)
	case NotEnoughParameters:
		return source.RenderMessage(e.Input, "not enough parameters", e.Span)
	case VariableNotInitialized:
		return source.RenderMessage(e.Input, fmt.Sprintf("'%s' is not initialized", e.Name), e.Span)
	case CannotAssignToConstantExpression:
		return source.RenderMessage(e.Input, "cannot assign to this expression", e.Span)
	case CannotAssignToConstant:
		return source.RenderMessage(e.Input, fmt.Sprintf("cannot assign to constant '%s'", e.Name), e.Span)
	case CannotInferType:
		return source.RenderMessage(e.Input, fmt.Sprintf("cannot infer type of '%s'", e.Name), e.Span)
	case CannotAccessAnythingMember:
		return source.RenderMessage(e.Input, fmt.Sprintf("cannot access member '%s'", e.Name), e.Span)
	case CannotAccessPrivateMember:
		return source.RenderMessage(e.Input, fmt.Sprintf("'%s' is private", e.Name), e.Span)
	case CannotAccessProtectedMember:
		return source.RenderMessage(e.Input, fmt.Sprintf("'%s' is protected", e.Name), e.Span)
	case BreakStatementShouldOnlyBeFoundInLoops:
		return source.RenderMessage(e.Input, "break outside of a loop", e.Span)
	case ContinueStatementShouldOnlyBeFoundInLoops:
		return source.RenderMessage(e.Input, "continue outside of a loop", e.Span)
	case FunctionNotImplemented:
		return source.RenderMessage(e.Input, fmt.Sprintf("'%s' does not implement '%s'", e.Expected, e.Name), e.Span)
	case FunctionNotMatching:
		return source.RenderMessage(e.Input, fmt.Sprintf("'%s' does not match the interface signature", e.Name), e.Span)
	default:
		return "checker error"
	}
}

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
