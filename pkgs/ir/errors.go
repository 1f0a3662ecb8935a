package ir

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// ErrorKind identifies a failure during desugaring.
type ErrorKind int

const (
	UnexpectedNode ErrorKind = iota
	FileAlreadyIncluded
	MainFunctionShouldReturnCInt
	CannotSpecifyAccessHere
	DestructorAlreadyDefined
	DestructorShouldNotReturnAnything
	DestructorShouldNotHaveParameters
	DestructorShouldNotBeConstructor
	CannotHaveEmptyMatchExpression
)

// Error is the envelope the IR generator returns for a failed pass.
type Error struct {
	Kind ErrorKind

	Span     source.Span
	Previous source.Span
	Found    string // node's short name, for UnexpectedNode
	Expected string // optional, for UnexpectedNode

	Input string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedNode:
		msg := fmt.Sprintf("unexpected node '%s'", e.Found)
		if e.Expected != "" {
			msg += fmt.Sprintf(", should be '%s'", e.Expected)
		}
		return source.RenderMessage(e.Input, msg, e.Span)
	case FileAlreadyIncluded:
		return source.RenderRelated(e.Input,
			"file already included", e.Span,
			"previously included here", e.Previous)
	case MainFunctionShouldReturnCInt:
		return source.RenderMessage(e.Input, "`main` should return I32 or c_int", e.Span)
	case CannotSpecifyAccessHere:
		return source.RenderMessage(e.Input, "cannot specify an access modifier here", e.Span)
	case DestructorAlreadyDefined:
		return source.RenderRelated(e.Input,
			"a `destroy` method is already defined for this class", e.Span,
			"previously defined here", e.Previous)
	case DestructorShouldNotReturnAnything:
		return source.RenderMessage(e.Input, "`destroy` should not return anything", e.Span)
	case DestructorShouldNotHaveParameters:
		return source.RenderMessage(e.Input, "`destroy` should not take parameters", e.Span)
	case DestructorShouldNotBeConstructor:
		return source.RenderMessage(e.Input, "`destroy` cannot also be a constructor", e.Span)
	case CannotHaveEmptyMatchExpression:
		return source.RenderMessage(e.Input, "match statement needs at least one branch", e.Span)
	default:
		return "ir generator error"
	}
}
