package lang

import (
	"context"
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Keywords recognized only when immediately followed by '(' (or "#(" for
// poly). Anywhere else they are ordinary feature names.
const (
	keywordTuple = "tuple"
	keywordSeq   = "seq"
	keywordPoly  = "poly"
)

// ParseString parses a feature template and returns its AST.
//
// Parsing performs no semantic validation: feature names and arities are
// checked by [AST.Rewrite]. Results are shared through the parse cache unless
// disabled with [WithCache]; callers must treat the returned AST as read-only.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(s)))

	if cfg.cache {
		if ast, ok := loadCached(s, cfg); ok {
			cfg.logger.TraceContext(ctx, "parse cache hit",
				slog.Int("item_count", len(ast.Items)))

			return ast, nil
		}
	}

	p := newParser(s, cfg.maxDepth)

	ast, err := p.parseTemplate()
	if err != nil {
		return nil, err
	}

	if cfg.cache {
		storeCached(s, cfg, ast)
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("item_count", len(ast.Items)))

	return ast, nil
}

// parser holds the parser state.
type parser struct {
	input    []byte
	pos      int
	line     int
	col      int
	depth    int
	maxDepth int
}

func newParser(s string, maxDepth int) *parser {
	return &parser{
		input:    []byte(s),
		line:     1,
		col:      1,
		maxDepth: maxDepth,
	}
}

// parseTemplate parses: Expr* EOF.
func (p *parser) parseTemplate() (*AST, error) {
	ast := &AST{Items: make([]*Node, 0)}

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			break
		}

		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		ast.Items = append(ast.Items, n)
	}

	return ast, nil
}

// parseExpr parses: Primary (',' Primary)*.
// A single primary is returned as-is; two or more form a tuple.
func (p *parser) parseExpr() (*Node, error) {
	pos := p.position()

	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	members := []*Node{first}

	for {
		saved := p.position()

		p.skipWhitespaceAndComments()

		if p.peek() != ',' {
			p.reset(saved)

			break
		}

		p.advance()
		p.skipWhitespaceAndComments()

		next, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		members = append(members, next)
	}

	if len(members) == 1 {
		return first, nil
	}

	return &Node{Kind: KindTuple, Pos: pos, Children: members}, nil
}

// parsePrimary parses: Atom Scope*.
// Whitespace may separate an atom from the '{' of its scope.
func (p *parser) parsePrimary() (*Node, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		saved := p.position()

		p.skipWhitespaceAndComments()

		if p.peek() != '{' {
			p.reset(saved)

			return n, nil
		}

		n, err = p.parseScope(n)
		if err != nil {
			return nil, err
		}
	}
}

// parseScope parses: '{' Expr* '}'.
func (p *parser) parseScope(base *Node) (*Node, error) {
	p.advance() // skip '{'

	children := make([]*Node, 0)

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			return nil, p.errorf("}")
		}

		if p.peek() == '}' {
			p.advance()

			break
		}

		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return &Node{
		Kind:     KindScope,
		Pos:      base.Pos,
		Base:     base,
		Children: children,
	}, nil
}

// parseAtom parses: '<' Expr '>' | tuple(...) | seq(...) | poly(...) |
// poly#(...) | Call.
func (p *parser) parseAtom() (*Node, error) {
	pos := p.position()

	switch ch := p.peek(); {
	case ch == '<':
		p.advance()
		p.skipWhitespaceAndComments()

		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.skipWhitespaceAndComments()

		if !p.expect('>') {
			return nil, p.errorf(">")
		}

		if n.Kind != KindTuple {
			n = &Node{Kind: KindTuple, Pos: pos, Children: []*Node{n}}
		}

		n.Pos = pos

		return n, nil

	case isIdentifierStart(ch):
		name := p.parseIdentifier()

		switch {
		case name == keywordTuple && p.peek() == '(':
			children, err := p.parseList()
			if err != nil {
				return nil, err
			}

			return &Node{Kind: KindTuple, Pos: pos, Children: children}, nil

		case name == keywordSeq && p.peek() == '(':
			children, err := p.parseList()
			if err != nil {
				return nil, err
			}

			return &Node{Kind: KindSeq, Pos: pos, Children: children}, nil

		case name == keywordPoly && (p.peek() == '(' || p.peekN(2) == "#("):
			return p.parsePoly(pos)
		}

		n := &Node{Kind: KindCall, Pos: pos, Name: name}

		if p.peek() == '(' {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			n.Args = args
		}

		return n, nil

	default:
		return nil, p.errorf("expression")
	}
}

// parseList parses: '(' Primary (',' Primary)* ')'.
func (p *parser) parseList() ([]*Node, error) {
	p.advance() // skip '('

	nodes := make([]*Node, 0)

	for {
		p.skipWhitespaceAndComments()

		n, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)

		p.skipWhitespaceAndComments()

		switch {
		case p.expect(','):
			continue

		case p.expect(')'):
			return nodes, nil

		default:
			return nil, p.errorf(", or )")
		}
	}
}

// parseArgs parses: '(' (Literal (',' Literal)*)? ')'.
func (p *parser) parseArgs() ([]Literal, error) {
	p.advance() // skip '('
	p.skipWhitespaceAndComments()

	args := make([]Literal, 0)

	if p.expect(')') {
		return args, nil
	}

	for {
		p.skipWhitespaceAndComments()

		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		args = append(args, lit)

		p.skipWhitespaceAndComments()

		switch {
		case p.expect(','):
			continue

		case p.expect(')'):
			return args, nil

		default:
			return nil, p.errorf(", or )")
		}
	}
}

// parsePoly parses: '#'? '(' Integer (',' Identifier)* ')'.
// The keyword itself has already been consumed.
func (p *parser) parsePoly(pos Position) (*Node, error) {
	n := &Node{Kind: KindPoly, Pos: pos, Names: make([]string, 0)}

	if p.expect('#') {
		n.Cumulative = true
	}

	p.advance() // skip '('
	p.skipWhitespaceAndComments()

	arityPos := p.position()
	start := p.pos

	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}

	if p.pos == start || isIdentifierContinue(p.peek()) {
		return nil, p.errorf("unsigned integer arity")
	}

	k, err := strconv.Atoi(string(p.input[start:p.pos]))
	if err != nil {
		return nil, ErrParse.WithPosition(arityPos).Wrap(err).
			With(slog.String("expected", "unsigned integer arity"))
	}

	n.K = k

	for {
		p.skipWhitespaceAndComments()

		if p.expect(')') {
			return n, nil
		}

		if !p.expect(',') {
			return nil, p.errorf(", or )")
		}

		p.skipWhitespaceAndComments()

		if !isIdentifierStart(p.peek()) {
			return nil, p.errorf("feature name")
		}

		n.Names = append(n.Names, p.parseIdentifier())
	}
}

// parseLiteral parses a number, string, or bare identifier.
func (p *parser) parseLiteral() (Literal, error) {
	start := p.pos

	switch ch := p.peek(); {
	case ch == '"' || ch == '\'' || ch == '`':
		pos := p.position()

		err := p.skipString(ch)
		if err != nil {
			return Literal{}, err
		}

		text := string(p.input[start:p.pos])

		if _, err := unquote(text); err != nil {
			return Literal{}, ErrParse.WithPosition(pos).Wrap(err).
				With(slog.String("literal", text))
		}

		return Literal{Kind: LiteralString, Text: text}, nil

	case ch == '-' || ch == '+' || ch == '.' || isDigit(ch):
		return p.parseNumber()

	case isIdentifierStart(ch):
		return Literal{Kind: LiteralIdentifier, Text: p.parseIdentifier()}, nil

	default:
		return Literal{}, p.errorf("literal")
	}
}

// parseNumber parses: [+-]? digits ('.' digits)? ([eE] [+-]? digits)?
// A leading '+' is dropped from the literal text.
func (p *parser) parseNumber() (Literal, error) {
	pos := p.position()
	kind := LiteralInteger

	if p.peek() == '+' {
		p.advance()
	}

	start := p.pos

	if p.peek() == '-' {
		p.advance()
	}

	digits := p.skipDigits()

	if p.peek() == '.' {
		kind = LiteralFloat

		p.advance()

		digits += p.skipDigits()
	}

	if digits > 0 && (p.peek() == 'e' || p.peek() == 'E') {
		kind = LiteralFloat

		p.advance()

		if p.peek() == '+' || p.peek() == '-' {
			p.advance()
		}

		if p.skipDigits() == 0 {
			return Literal{}, p.errorf("exponent digits")
		}
	}

	if digits == 0 || isIdentifierContinue(p.peek()) {
		return Literal{}, ErrParse.WithPosition(pos).
			With(
				slog.String("expected", "number"),
				slog.String("found", string(p.input[start:p.pos])+p.found()),
			)
	}

	return Literal{Kind: kind, Text: string(p.input[start:p.pos])}, nil
}

func (p *parser) skipDigits() int {
	n := 0

	for !p.eof() && isDigit(p.peek()) {
		p.advance()

		n++
	}

	return n
}

// parseIdentifier parses an identifier token. The caller must ensure the
// current rune is an identifier start.
func (p *parser) parseIdentifier() string {
	start := p.pos

	p.advance()

	for !p.eof() && isIdentifierContinue(p.peek()) {
		p.advance()
	}

	// Interior separators (-, .)
	for !p.eof() {
		ch := p.peek()
		if ch != '-' && ch != '.' {
			break
		}

		// Look ahead - must be followed by identifier char
		next, _ := utf8.DecodeRune(p.input[p.pos+1:])
		if p.pos+1 >= len(p.input) || !isIdentifierContinue(next) {
			break
		}

		p.advance() // skip separator

		for !p.eof() && isIdentifierContinue(p.peek()) {
			p.advance()
		}
	}

	return string(p.input[start:p.pos])
}

// enter tracks nesting depth on the way into a primary expression.
func (p *parser) enter() error {
	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return ErrMaxDepthExceeded.WithPosition(p.position()).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// errorf returns a parse error at the current position describing what was
// expected and what was found instead.
func (p *parser) errorf(expected string) *Error {
	return ErrParse.WithPosition(p.position()).
		With(
			slog.String("expected", expected),
			slog.String("found", p.found()),
		)
}

// found describes the rune at the current position.
func (p *parser) found() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(p.peek())
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) reset(pos Position) {
	p.pos = pos.Offset
	p.line = pos.Line
	p.col = pos.Column
}

func (p *parser) skipWhitespaceAndComments() {
	for !p.eof() {
		switch {
		case unicode.IsSpace(p.peek()):
			p.advance()

		case p.peek() == '#' || p.peekN(2) == "//":
			p.skipLineComment()

		case p.peekN(2) == "/*":
			p.skipBlockComment()

		default:
			return
		}
	}
}

func (p *parser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}
}

func (p *parser) skipBlockComment() {
	p.advance() // skip '/'
	p.advance() // skip '*'

	for !p.eof() {
		if p.peekN(2) == "*/" {
			p.advance() // skip '*'
			p.advance() // skip '/'

			return
		}

		p.advance()
	}
}

func (p *parser) skipString(quote rune) error {
	pos := p.position()

	p.advance() // skip opening quote

	for !p.eof() {
		ch := p.peek()
		if ch == '\\' && quote != '`' {
			p.advance() // skip backslash
			p.advance() // skip escaped char

			continue
		}

		if ch == '\n' && quote != '`' {
			break
		}

		p.advance()

		if ch == quote {
			return nil
		}
	}

	return ErrParse.WithPosition(pos).
		With(slog.String("error", "unterminated string"))
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

// IsIdentifier reports whether s is a single identifier token, i.e. a name
// usable as a feature in a template.
func IsIdentifier(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if s == "" || !isIdentifierStart(r) {
		return false
	}

	p := newParser(s, 0)

	return p.parseIdentifier() == s
}
