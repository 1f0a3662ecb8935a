package parser

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// ErrorKind identifies a parse failure.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	UnexpectedEOF
	UnexpectedNode
	UninitializedConstant
)

// Error is the envelope the parser returns for a failed pass.
type Error struct {
	Kind ErrorKind

	Span     source.Span
	Found    string
	Expected string

	Input string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		msg := fmt.Sprintf("unexpected token '%s'", e.Found)
		if e.Expected != "" {
			msg += fmt.Sprintf(", expected '%s'", e.Expected)
		}
		return source.RenderMessage(e.Input, msg, e.Span)
	case UnexpectedEOF:
		msg := "unexpected end of file"
		if e.Expected != "" {
			msg += fmt.Sprintf(", expected '%s'", e.Expected)
		}
		return source.RenderMessage(e.Input, msg, e.Span)
	case UnexpectedNode:
		msg := fmt.Sprintf("'%s' is not allowed here", e.Found)
		if e.Expected != "" {
			msg += fmt.Sprintf(", expected '%s'", e.Expected)
		}
		return source.RenderMessage(e.Input, msg, e.Span)
	case UninitializedConstant:
		return source.RenderMessage(e.Input, fmt.Sprintf("const '%s' needs an initializer", e.Found), e.Span)
	default:
		return "parse error"
	}
}

func unexpectedToken(input string, tok lexer.Token, expected string) *Error {
	return &Error{Kind: UnexpectedToken, Span: tok.Span, Found: tok.String(), Expected: expected, Input: input}
}

func unexpectedEOF(input string, span source.Span, expected string) *Error {
	return &Error{Kind: UnexpectedEOF, Span: span, Expected: expected, Input: input}
}

func unexpectedNode(input string, span source.Span, found, expected string) *Error {
	return &Error{Kind: UnexpectedNode, Span: span, Found: found, Expected: expected, Input: input}
}
