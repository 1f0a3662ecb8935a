// Package lexer turns talyc source text into a stream of spanned tokens.
// Indentation is significant and is emitted as data: a run of four spaces
// or a physical tab becomes a Tab token, and every line break becomes a
// NewLine token, so the parser never has to re-derive columns from raw
// text.
package lexer

import (
	"fmt"

	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// TokenType identifies the lexical category of a Token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Indentation, emitted as data rather than consumed as whitespace.
	TAB
	NEWLINE

	// Keywords.
	USE
	FN
	EXTERN
	VAR
	CONST
	RETURN
	CLASS
	SPACE
	INTF
	NEW
	PUB
	PROT
	LOCK
	GUARD
	AND
	OR
	XOR
	NOT
	IF
	ELIF
	ELSE
	THEN
	END
	WHILE
	DO
	MATCH
	BREAK
	CONTINUE

	// Literals.
	IDENTIFIER
	STRING
	INTEGER
	DECIMAL
	BOOLEAN
	LABEL // $name

	// Punctuation.
	LPAREN
	RPAREN
	COLON
	COMMA
	DOT
	EQUAL      // =
	EQUAL_EQUAL // ==
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	PLUS
	MINUS
	STAR
	SLASH
	ARROW // =>
)

var keywords = map[string]TokenType{
	"use": USE, "fn": FN, "extern": EXTERN, "var": VAR, "const": CONST,
	"return": RETURN, "class": CLASS, "space": SPACE, "intf": INTF, "new": NEW,
	"pub": PUB, "prot": PROT, "lock": LOCK, "guard": GUARD,
	"and": AND, "or": OR, "xor": XOR, "not": NOT,
	"if": IF, "elif": ELIF, "else": ELSE, "then": THEN, "end": END,
	"while": WHILE, "do": DO, "match": MATCH, "break": BREAK, "continue": CONTINUE,
}

var tokenNames = map[TokenType]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", TAB: "Tab", NEWLINE: "NewLine",
	USE: "use", FN: "fn", EXTERN: "extern", VAR: "var", CONST: "const",
	RETURN: "return", CLASS: "class", SPACE: "space", INTF: "intf", NEW: "new",
	PUB: "pub", PROT: "prot", LOCK: "lock", GUARD: "guard",
	AND: "and", OR: "or", XOR: "xor", NOT: "not",
	IF: "if", ELIF: "elif", ELSE: "else", THEN: "then", END: "end",
	WHILE: "while", DO: "do", MATCH: "match", BREAK: "break", CONTINUE: "continue",
	IDENTIFIER: "identifier", STRING: "string", INTEGER: "integer", DECIMAL: "decimal",
	BOOLEAN: "boolean", LABEL: "label",
	LPAREN: "(", RPAREN: ")", COLON: ":", COMMA: ",", DOT: ".",
	EQUAL: "=", EQUAL_EQUAL: "==", NOT_EQUAL: "!=",
	LESS: "<", LESS_EQUAL: "<=", GREATER: ">", GREATER_EQUAL: ">=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", ARROW: "=>",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexeme together with its source span. Value holds the
// literal text for identifiers and literals; it is empty for punctuation
// and indentation tokens, whose identity is carried entirely by Type.
type Token struct {
	Type  TokenType
	Value string
	Span  source.Span
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	}
	return t.Type.String()
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) (TokenType, bool) {
	tt, ok := keywords[name]
	return tt, ok
}
