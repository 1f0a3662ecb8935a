package lexer

import (
	"strings"
	"unicode"

	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// Lexer scans a talyc source buffer into a flat token stream. It never
// looks ahead more than a couple of runes and never backtracks; all
// structural decisions (where a block starts or ends) are left entirely to
// the parser, which consumes the Tab/NewLine tokens this lexer emits as
// ordinary data.
type Lexer struct {
	input []rune
	raw   string
	pos   int
	cur   source.Position
}

// New creates a Lexer over input, positioned at the start of the buffer.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input), raw: input, cur: source.Start()}
}

// Tokenize scans the entire buffer and returns its tokens (terminated by a
// trailing EOF token), or the first lexical error encountered.
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

// Tokenize runs l to completion.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() rune {
	if l.atEOF() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() rune {
	r := l.input[l.pos]
	l.pos++
	l.cur = l.cur.Advance(r)
	return r
}

func (l *Lexer) next() (Token, error) {
	if l.atEOF() {
		return Token{Type: EOF, Span: source.Span{Start: l.cur, End: l.cur}}, nil
	}

	switch r := l.peek(); {
	case r == '\n':
		start := l.cur
		l.advance()
		return Token{Type: NEWLINE, Span: source.Span{Start: start, End: l.cur}}, nil

	case r == '\t':
		start := l.cur
		l.advance()
		return Token{Type: TAB, Span: source.Span{Start: start, End: l.cur}}, nil

	case r == ' ':
		if l.peekAt(1) == ' ' && l.peekAt(2) == ' ' && l.peekAt(3) == ' ' {
			start := l.cur
			for i := 0; i < 4; i++ {
				l.advance()
			}
			return Token{Type: TAB, Span: source.Span{Start: start, End: l.cur}}, nil
		}
		l.advance()
		return l.next()

	case r == '#':
		for !l.atEOF() && l.peek() != '\n' {
			l.advance()
		}
		return l.next()

	case r == '"':
		return l.scanString()

	case r == '$':
		return l.scanLabel()

	case unicode.IsDigit(r):
		return l.scanNumber()

	case isIdentStart(r):
		return l.scanIdentifier()

	default:
		return l.scanPunctuation()
	}
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '_'
}

func (l *Lexer) scanIdentifier() (Token, error) {
	start := l.cur
	var b strings.Builder
	for !l.atEOF() && isIdentCont(l.peek()) {
		b.WriteRune(l.advance())
	}
	name := b.String()
	if name == "true" || name == "false" {
		return Token{Type: BOOLEAN, Value: name, Span: source.Span{Start: start, End: l.cur}}, nil
	}
	if tt, ok := IsKeyword(name); ok {
		return Token{Type: tt, Value: name, Span: source.Span{Start: start, End: l.cur}}, nil
	}
	return Token{Type: IDENTIFIER, Value: name, Span: source.Span{Start: start, End: l.cur}}, nil
}

func (l *Lexer) scanLabel() (Token, error) {
	start := l.cur
	l.advance() // consume '$'
	if l.atEOF() || !isIdentStart(l.peek()) {
		return Token{}, &Error{Kind: UnexpectedChar, Span: source.Span{Start: l.cur, End: l.cur}, Found: string(l.peek()), Expected: "label name", Input: l.raw}
	}
	var b strings.Builder
	for !l.atEOF() && isIdentCont(l.peek()) {
		b.WriteRune(l.advance())
	}
	return Token{Type: LABEL, Value: b.String(), Span: source.Span{Start: start, End: l.cur}}, nil
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.cur
	var b strings.Builder
	isDecimal := false
	for !l.atEOF() {
		r := l.peek()
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(l.advance())
		case r == '_':
			l.advance()
		case r == '.' && !isDecimal && unicode.IsDigit(l.peekAt(1)):
			isDecimal = true
			b.WriteRune(l.advance())
		default:
			goto done
		}
	}
done:
	tt := INTEGER
	if isDecimal {
		tt = DECIMAL
	}
	return Token{Type: tt, Value: b.String(), Span: source.Span{Start: start, End: l.cur}}, nil
}

func (l *Lexer) scanString() (Token, error) {
	start := l.cur
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.atEOF() {
			return Token{}, &Error{Kind: UnexpectedEOF, Span: source.Span{Start: l.cur, End: l.cur}, Expected: "closing '\"'", Input: l.raw}
		}
		if l.peek() == '"' {
			l.advance()
			break
		}
		b.WriteRune(l.advance())
	}
	return Token{Type: STRING, Value: b.String(), Span: source.Span{Start: start, End: l.cur}}, nil
}

// two-rune punctuation forms, checked before their single-rune prefix.
var compoundPunct = map[string]TokenType{
	"=>": ARROW,
	"==": EQUAL_EQUAL,
	"!=": NOT_EQUAL,
	"<=": LESS_EQUAL,
	">=": GREATER_EQUAL,
}

var singlePunct = map[rune]TokenType{
	'(': LPAREN, ')': RPAREN, ':': COLON, ',': COMMA, '.': DOT,
	'=': EQUAL, '<': LESS, '>': GREATER,
	'+': PLUS, '-': MINUS, '*': STAR, '/': SLASH,
}

func (l *Lexer) scanPunctuation() (Token, error) {
	start := l.cur
	two := string(l.peek()) + string(l.peekAt(1))
	if tt, ok := compoundPunct[two]; ok {
		l.advance()
		l.advance()
		return Token{Type: tt, Span: source.Span{Start: start, End: l.cur}}, nil
	}
	r := l.peek()
	if tt, ok := singlePunct[r]; ok {
		l.advance()
		return Token{Type: tt, Span: source.Span{Start: start, End: l.cur}}, nil
	}
	l.advance()
	return Token{}, &Error{Kind: UnexpectedChar, Span: source.Span{Start: start, End: l.cur}, Found: string(r), Input: l.raw}
}
