package lexer

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// ErrorKind categorizes lexical failures per spec section 7.
type ErrorKind int

const (
	UnexpectedChar ErrorKind = iota
	UnexpectedEOF
)

// Error is the lexer's single error type: an UnexpectedChar or
// UnexpectedEOF, each carrying the span it happened at and, when known,
// what the lexer expected instead.
type Error struct {
	Kind     ErrorKind
	Span     source.Span
	Found    string
	Expected string
	Input    string
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case UnexpectedChar:
		msg = fmt.Sprintf("unexpected character %q", e.Found)
	case UnexpectedEOF:
		msg = "unexpected end of file"
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(", expected %s", e.Expected)
	}
	return source.RenderMessage(e.Input, msg, e.Span)
}
