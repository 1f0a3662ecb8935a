// Package parser turns a token stream into the talyc AST defined in
// pkgs/ast. It is a hand-written recursive-descent parser with a
// precedence-climbing expression parser, grounded in the teacher's
// cli/internal/parser/parser.go advance/current/match/consume shape.
package parser

import (
	"github.com/Taly-projects/taly-lang/pkgs/ast"
	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/Taly-projects/taly-lang/pkgs/source"
)

// context restricts which statement forms are legal inside a given block,
// matching spec.md §4.2's per-body grammar restrictions (a class body
// admits only fields/methods, an interface body only signatures, ...).
type context int

const (
	ctxTopLevel context = iota
	ctxFunctionBody
	ctxClassBody
	ctxSpaceBody
	ctxInterfaceBody
)

// Parser walks a flat token slice, tracking the expected indentation depth
// of the block currently being parsed.
type Parser struct {
	input string
	toks  []lexer.Token
	pos   int

	depth int // number of Tab tokens a statement in the current block must be preceded by
}

// Parse turns tokens (as produced by lexer.Tokenize) into a top-level program
// body.
func Parse(input string, toks []lexer.Token) ([]ast.Node, error) {
	p := &Parser{input: input, toks: toks}
	return p.parseBlock(ctxTopLevel)
}

// ---- token cursor helpers -------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) isAtEnd() bool { return p.current().Type == lexer.EOF }

func (p *Parser) check(t lexer.TokenType) bool { return p.current().Type == t }

func (p *Parser) checkAny(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	if p.checkAny(types...) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, expected string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	if p.isAtEnd() {
		return lexer.Token{}, unexpectedEOF(p.input, p.current().Span, expected)
	}
	return lexer.Token{}, unexpectedToken(p.input, p.current(), expected)
}

func (p *Parser) lastSpan() source.Span {
	if p.pos == 0 {
		return p.current().Span
	}
	return p.toks[p.pos-1].Span
}

// ---- indentation / blank-line handling ------------------------------------

// skipBlankLines consumes any run of lines that contain only Tab tokens
// followed by a NewLine (or nothing but a NewLine), leaving the cursor at
// the first token of the next non-blank line.
func (p *Parser) skipBlankLines() {
	for {
		mark := p.pos
		for p.check(lexer.TAB) {
			p.advance()
		}
		if p.check(lexer.NEWLINE) {
			p.advance()
			continue
		}
		p.pos = mark
		return
	}
}

// consumeTabs counts and consumes the run of Tab tokens at the cursor,
// returning how many were found.
func (p *Parser) consumeTabs() int {
	n := 0
	for p.check(lexer.TAB) {
		p.advance()
		n++
	}
	return n
}

// endOfStatement consumes a single trailing NewLine if present; it is not
// an error for one to be absent (end-of-file, or a statement that already
// consumed through its own terminator keyword).
func (p *Parser) endOfStatement() {
	if p.check(lexer.NEWLINE) {
		p.advance()
	}
}

// blockTerminators are the keywords that end an enclosing block; a line
// that starts with one of these (at any indentation) is never itself the
// start of a new statement inside the block being parsed.
func (p *Parser) atTerminator() bool {
	return p.checkAny(lexer.END, lexer.ELSE, lexer.ELIF)
}

// parseBlock parses a sequence of statements legal in ctx until the block's
// indentation drops below the block's own depth, or a terminator keyword or
// EOF is reached. The Tab tokens leading each statement line are consumed
// here; parseStatement never sees them. The Tab tokens leading a terminator
// line are consumed too, so the caller finds the end/elif/else keyword next.
// parseBlock parses the statements of the block at the caller's current
// p.depth. Callers that introduce a new nesting level (if/while/class/...)
// must increment p.depth before calling and restore it after; parseBlock
// itself never changes p.depth so that sibling calls at the same level
// (an if body, its elif bodies, its else body) all require the same
// indentation.
func (p *Parser) parseBlock(ctx context) ([]ast.Node, error) {
	var stmts []ast.Node
	first := true
	for {
		p.skipBlankLines()
		if p.isAtEnd() {
			break
		}

		mark := p.pos
		tabs := p.consumeTabs()
		if p.atTerminator() {
			break
		}
		if !first && tabs < p.depth {
			p.pos = mark
			break
		}

		stmt, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		first = false
		p.endOfStatement()
	}
	return stmts, nil
}

// parseArrowBody parses the body following `=>`: either a single inline
// statement terminated by NewLine/EOF, or (if the arrow is immediately
// followed by a NewLine) an indented block.
func (p *Parser) parseArrowBody(ctx context) ([]ast.Node, error) {
	if p.check(lexer.NEWLINE) {
		p.advance()
		p.depth++
		body, err := p.parseBlock(ctx)
		p.depth--
		return body, err
	}
	stmt, err := p.parseStatement(ctx)
	if err != nil {
		return nil, err
	}
	return []ast.Node{stmt}, nil
}

// ---- access modifiers -------------------------------------------------------

func (p *Parser) parseAccessPrefix() *ast.Access {
	var a ast.Access
	switch p.current().Type {
	case lexer.PUB:
		a = ast.AccessPublic
	case lexer.PROT:
		a = ast.AccessProtected
	case lexer.LOCK, lexer.GUARD:
		a = ast.AccessPrivate
	default:
		return nil
	}
	p.advance()
	return &a
}

// ---- statement dispatch -----------------------------------------------------

func (p *Parser) parseStatement(ctx context) (ast.Node, error) {
	access := p.parseAccessPrefix()

	switch p.current().Type {
	case lexer.USE:
		if access != nil {
			return nil, unexpectedToken(p.input, p.current(), "statement")
		}
		return p.parseUse()
	case lexer.FN, lexer.EXTERN, lexer.NEW:
		return p.parseFunctionDefinition(access)
	case lexer.VAR, lexer.CONST:
		return p.parseVariableDefinition(access)
	case lexer.CLASS:
		return p.parseClassDefinition(access)
	case lexer.SPACE:
		return p.parseSpaceDefinition(access)
	case lexer.INTF:
		return p.parseInterfaceDefinition(access)
	}

	if access != nil {
		return nil, unexpectedToken(p.input, p.current(), "definition")
	}

	switch ctx {
	case ctxInterfaceBody:
		return nil, unexpectedToken(p.input, p.current(), "function signature")
	case ctxClassBody, ctxSpaceBody:
		return nil, unexpectedToken(p.input, p.current(), "definition")
	}

	switch p.current().Type {
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileLoop()
	case lexer.MATCH:
		return p.parseMatchStatement()
	case lexer.BREAK:
		return p.parseBreak()
	case lexer.CONTINUE:
		return p.parseContinue()
	case lexer.LABEL:
		return p.parseLabel()
	default:
		return p.parseExpression()
	}
}

// ---- declarations -----------------------------------------------------------

func (p *Parser) parseUse() (ast.Node, error) {
	start := p.current().Span
	p.advance() // use
	str, err := p.consume(lexer.STRING, "string literal")
	if err != nil {
		return nil, err
	}
	return ast.NewUse(source.Join(start, str.Span), str.Value), nil
}

func (p *Parser) parseDataType() (*ast.DataType, error) {
	tok, err := p.consume(lexer.IDENTIFIER, "type name")
	if err != nil {
		return nil, err
	}
	dt := ast.Custom(tok.Value)
	return &dt, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	var params []ast.Param
	if p.check(lexer.RPAREN) {
		return params, nil
	}
	for {
		name, err := p.consume(lexer.IDENTIFIER, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.COLON, ":"); err != nil {
			return nil, err
		}
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: name.Value, Type: *dt, Span: source.Join(name.Span, p.lastSpan())})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseFunctionDefinition(access *ast.Access) (ast.Node, error) {
	start := p.current().Span

	external := false
	if p.match(lexer.EXTERN) {
		external = true
	}

	constructor := false
	if p.match(lexer.NEW) {
		constructor = true
	} else if _, err := p.consume(lexer.FN, "fn"); err != nil {
		return nil, err
	}

	name, err := p.consume(lexer.IDENTIFIER, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}

	var ret *ast.DataType
	if p.match(lexer.COLON) {
		ret, err = p.parseDataType()
		if err != nil {
			return nil, err
		}
	}

	var body []ast.Node
	if p.match(lexer.ARROW) {
		body, err = p.parseArrowBody(ctxFunctionBody)
		if err != nil {
			return nil, err
		}
	}

	span := source.Join(start, p.lastSpan())
	return ast.NewFunctionDefinitionFull(span, name.Value, external, constructor, params, ret, body, access), nil
}

func (p *Parser) parseVariableDefinition(access *ast.Access) (ast.Node, error) {
	start := p.current().Span
	kind := ast.KindVar
	if p.check(lexer.CONST) {
		kind = ast.KindConst
	}
	p.advance() // var | const

	name, err := p.consume(lexer.IDENTIFIER, "variable name")
	if err != nil {
		return nil, err
	}

	var typ *ast.DataType
	if p.match(lexer.COLON) {
		typ, err = p.parseDataType()
		if err != nil {
			return nil, err
		}
	}

	var value ast.Node
	if p.match(lexer.EQUAL) {
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if kind == ast.KindConst && value == nil {
		return nil, &Error{Kind: UninitializedConstant, Span: source.Join(start, p.lastSpan()), Found: name.Value, Input: p.input}
	}

	span := source.Join(start, p.lastSpan())
	def := ast.NewVariableDefinition(span, kind, name.Value, typ, value)
	def.Access = access
	return def, nil
}

func (p *Parser) parseClassDefinition(access *ast.Access) (ast.Node, error) {
	start := p.current().Span
	p.advance() // class
	name, err := p.consume(lexer.IDENTIFIER, "class name")
	if err != nil {
		return nil, err
	}

	var extensions []string
	if p.match(lexer.COLON) {
		for {
			ext, err := p.consume(lexer.IDENTIFIER, "interface name")
			if err != nil {
				return nil, err
			}
			extensions = append(extensions, ext.Value)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	p.endOfStatement()
	p.depth++
	body, err := p.parseBlock(ctxClassBody)
	p.depth--
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.END, "end"); err != nil {
		return nil, err
	}

	span := source.Join(start, p.lastSpan())
	def := ast.NewClassDefinition(span, name.Value, body, extensions)
	def.Access = access
	return def, nil
}

func (p *Parser) parseSpaceDefinition(access *ast.Access) (ast.Node, error) {
	start := p.current().Span
	p.advance() // space
	name, err := p.consume(lexer.IDENTIFIER, "space name")
	if err != nil {
		return nil, err
	}
	p.endOfStatement()
	p.depth++
	body, err := p.parseBlock(ctxSpaceBody)
	p.depth--
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.END, "end"); err != nil {
		return nil, err
	}
	span := source.Join(start, p.lastSpan())
	def := ast.NewSpaceDefinition(span, name.Value, body)
	def.Access = access
	return def, nil
}

func (p *Parser) parseInterfaceDefinition(access *ast.Access) (ast.Node, error) {
	start := p.current().Span
	p.advance() // intf
	name, err := p.consume(lexer.IDENTIFIER, "interface name")
	if err != nil {
		return nil, err
	}
	p.endOfStatement()
	p.depth++
	body, err := p.parseBlock(ctxInterfaceBody)
	p.depth--
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.END, "end"); err != nil {
		return nil, err
	}
	span := source.Join(start, p.lastSpan())
	def := ast.NewInterfaceDefinition(span, name.Value, body)
	def.Access = access
	return def, nil
}

// ---- control flow ------------------------------------------------------------

func (p *Parser) parseIfStatement() (ast.Node, error) {
	start := p.current().Span
	p.advance() // if
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.THEN, "then"); err != nil {
		return nil, err
	}
	p.endOfStatement()
	p.depth++
	body, err := p.parseBlock(ctxFunctionBody)
	p.depth--
	if err != nil {
		return nil, err
	}

	var elifs []ast.ElifBranch
	for p.check(lexer.ELIF) {
		p.advance()
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.THEN, "then"); err != nil {
			return nil, err
		}
		p.endOfStatement()
		p.depth++
		b, err := p.parseBlock(ctxFunctionBody)
		p.depth--
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ast.ElifBranch{Cond: c, Body: b})
	}

	var elseBody []ast.Node
	if p.check(lexer.ELSE) {
		p.advance()
		p.endOfStatement()
		p.depth++
		elseBody, err = p.parseBlock(ctxFunctionBody)
		p.depth--
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.END, "end"); err != nil {
		return nil, err
	}
	span := source.Join(start, p.lastSpan())
	return ast.NewIfStatement(span, cond, body, elifs, elseBody), nil
}

func (p *Parser) parseWhileLoop() (ast.Node, error) {
	start := p.current().Span
	p.advance() // while
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.DO, "do"); err != nil {
		return nil, err
	}
	p.endOfStatement()
	p.depth++
	body, err := p.parseBlock(ctxFunctionBody)
	p.depth--
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.END, "end"); err != nil {
		return nil, err
	}
	span := source.Join(start, p.lastSpan())
	return ast.NewWhileLoop(span, cond, body), nil
}

func (p *Parser) parseMatchStatement() (ast.Node, error) {
	start := p.current().Span
	p.advance() // match
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.endOfStatement()

	p.depth++
	var branches []ast.MatchBranch
	var elseBody []ast.Node
	for {
		p.skipBlankLines()
		if p.isAtEnd() {
			break
		}
		mark := p.pos
		tabs := p.consumeTabs()
		if p.check(lexer.END) {
			break
		}
		if tabs < p.depth {
			p.pos = mark
			break
		}
		if p.check(lexer.ELSE) {
			p.advance()
			if _, err := p.consume(lexer.ARROW, "=>"); err != nil {
				p.depth--
				return nil, err
			}
			elseBody, err = p.parseArrowBody(ctxFunctionBody)
			if err != nil {
				p.depth--
				return nil, err
			}
			p.endOfStatement()
			continue
		}

		var conds []ast.Node
		for {
			c, err := p.parseExpression()
			if err != nil {
				p.depth--
				return nil, err
			}
			conds = append(conds, c)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if _, err := p.consume(lexer.ARROW, "=>"); err != nil {
			p.depth--
			return nil, err
		}
		body, err := p.parseArrowBody(ctxFunctionBody)
		if err != nil {
			p.depth--
			return nil, err
		}
		branches = append(branches, ast.MatchBranch{Conditions: conds, Body: body})
		p.endOfStatement()
	}
	p.depth--

	if _, err := p.consume(lexer.END, "end"); err != nil {
		return nil, err
	}
	span := source.Join(start, p.lastSpan())
	return ast.NewMatchStatement(span, expr, branches, elseBody), nil
}

func (p *Parser) parseBreak() (ast.Node, error) {
	start := p.current().Span
	p.advance() // break
	var label *string
	if p.check(lexer.LABEL) {
		tok := p.advance()
		name := tok.Value
		label = &name
	}
	return ast.NewBreak(source.Join(start, p.lastSpan()), label), nil
}

func (p *Parser) parseContinue() (ast.Node, error) {
	start := p.current().Span
	p.advance() // continue
	var label *string
	if p.check(lexer.LABEL) {
		tok := p.advance()
		name := tok.Value
		label = &name
	}
	return ast.NewContinue(source.Join(start, p.lastSpan()), label), nil
}

func (p *Parser) parseLabel() (ast.Node, error) {
	start := p.current().Span
	name := p.advance().Value // $name
	if _, err := p.consume(lexer.COLON, ":"); err != nil {
		return nil, err
	}
	inner, err := p.parseStatement(ctxFunctionBody)
	if err != nil {
		return nil, err
	}
	return ast.NewLabel(source.Join(start, p.lastSpan()), name, inner), nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	start := p.current().Span
	p.advance() // return
	if p.check(lexer.NEWLINE) || p.isAtEnd() || p.atTerminator() {
		return ast.NewReturn(source.Join(start, start), nil), nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(source.Join(start, p.lastSpan()), expr), nil
}

// ---- expressions: assignment > boolean > comparison > additive >
// multiplicative > access > atom, per spec.md §4.2. --------------------------

func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Node, error) {
	lhs, err := p.parseBoolean()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.EQUAL) {
		rhs, err := p.parseAssignment() // right-associative
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryOperation(source.Join(lhs.Span(), rhs.Span()), lhs, ast.Assign, rhs), nil
	}
	return lhs, nil
}

func (p *Parser) parseBoolean() (ast.Node, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.current().Type {
		case lexer.AND:
			op = ast.BoolAnd
		case lexer.OR:
			op = ast.BoolOr
		case lexer.XOR:
			op = ast.BoolXor
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOperation(source.Join(lhs.Span(), rhs.Span()), lhs, op, rhs)
	}
}

func (p *Parser) parseComparison() (ast.Node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.current().Type {
		case lexer.EQUAL_EQUAL:
			op = ast.Equal
		case lexer.NOT_EQUAL:
			op = ast.NotEqual
		case lexer.LESS:
			op = ast.Less
		case lexer.LESS_EQUAL:
			op = ast.LessEqual
		case lexer.GREATER:
			op = ast.Greater
		case lexer.GREATER_EQUAL:
			op = ast.GreaterEqual
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOperation(source.Join(lhs.Span(), rhs.Span()), lhs, op, rhs)
	}
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.current().Type {
		case lexer.PLUS:
			op = ast.Add
		case lexer.MINUS:
			op = ast.Sub
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOperation(source.Join(lhs.Span(), rhs.Span()), lhs, op, rhs)
	}
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	lhs, err := p.parseAccess()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.current().Type {
		case lexer.STAR:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseAccess()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOperation(source.Join(lhs.Span(), rhs.Span()), lhs, op, rhs)
	}
}

// parseAccess handles `.`-chained member access. Every surface-level `.`
// lowers to PtrAccess: class instances are always heap pointers, so a
// source-level member access is always a pointer dereference in emission.
// DotAccess is introduced only by the IR generator when it synthesizes
// flat-struct field access for vtable wiring (see pkgs/ir).
func (p *Parser) parseAccess() (ast.Node, error) {
	lhs, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.DOT) {
		p.advance()
		rhs, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOperation(source.Join(lhs.Span(), rhs.Span()), lhs, ast.PtrAccess, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseArgList() ([]ast.Node, error) {
	var args []ast.Node
	if p.check(lexer.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return args, nil
}

func (p *Parser) parseAtom() (ast.Node, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.STRING:
		p.advance()
		return ast.NewValue(tok.Span, ast.StringLiteral(tok.Value)), nil
	case lexer.INTEGER:
		p.advance()
		return ast.NewValue(tok.Span, ast.IntegerLiteral(tok.Value)), nil
	case lexer.DECIMAL:
		p.advance()
		return ast.NewValue(tok.Span, ast.DecimalLiteral(tok.Value)), nil
	case lexer.BOOLEAN:
		p.advance()
		return ast.NewValue(tok.Span, ast.BooleanLiteral(tok.Value == "true")), nil
	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RPAREN, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.PLUS:
		p.advance()
		v, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOperation(source.Join(tok.Span, v.Span()), ast.Pos, v), nil
	case lexer.MINUS:
		p.advance()
		v, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOperation(source.Join(tok.Span, v.Span()), ast.Neg, v), nil
	case lexer.NOT:
		p.advance()
		v, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOperation(source.Join(tok.Span, v.Span()), ast.BoolNot, v), nil
	case lexer.IDENTIFIER:
		p.advance()
		if p.match(lexer.LPAREN) {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			rparen, err := p.consume(lexer.RPAREN, ")")
			if err != nil {
				return nil, err
			}
			return ast.NewFunctionCall(source.Join(tok.Span, rparen.Span), tok.Value, args), nil
		}
		return ast.NewVariableCall(tok.Span, tok.Value), nil
	}

	if p.isAtEnd() {
		return nil, unexpectedEOF(p.input, tok.Span, "expression")
	}
	return nil, unexpectedToken(p.input, tok, "expression")
}
