package tiny

import "maps"

// ParseOptions adjusts a single parse.
type ParseOptions struct {
	// Locals pre-seeds the locals table, so that names declared by earlier
	// input (an interactive session, say) still resolve as locals.
	Locals map[string]Position
}

// exprMode restricts what parseExpr may consume after the primary.
type exprMode struct {
	noBinary  bool // stop at binary operators
	noSuffix  bool // stop at `.`, `(` and `[`
	statement bool // the expression starts a statement, so `=` is allowed
}

type parser struct {
	src    *Source
	tokens []Token
	cursor int

	script *Script
}

// Parse lexes src if needed and builds its script. Parsing stops at the
// first error.
func Parse(src *Source, opts ParseOptions) (*Script, error) {
	if err := src.Lex(); err != nil {
		return nil, err
	}

	script := &Script{
		Name:   src.Name,
		Root:   &Block{position: src.Start},
		Locals: make(map[string]Position, len(opts.Locals)),
	}
	maps.Copy(script.Locals, opts.Locals)

	p := &parser{src: src, tokens: src.Tokens(), script: script}
	for p.cur().Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		script.Root.Statements = append(script.Root.Statements, stmt)
	}
	return script, nil
}

// ParseString is a convenience wrapper around Parse for an anonymous unit.
func ParseString(code string) (*Script, error) {
	return Parse(NewSource("", code), ParseOptions{})
}

// ParseExpression parses code holding exactly one expression.
func ParseExpression(code string) (Node, error) {
	src := NewSource("", code)
	if err := src.Lex(); err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: src.Tokens(), script: &Script{Locals: map[string]Position{}}}
	expr, err := p.parseExpr(exprMode{})
	if err != nil {
		return nil, err
	}
	if !p.at(TokenEOF) {
		return nil, p.errorExpected(ErrUnexpectedToken, "end of expression", p.cur())
	}
	return expr, nil
}

func (p *parser) cur() Token {
	return p.tokens[p.cursor]
}

// advance returns the current token and moves past it. The trailing EOF
// token is never passed.
func (p *parser) advance() Token {
	tok := p.tokens[p.cursor]
	if tok.Type != TokenEOF {
		p.cursor++
	}
	return tok
}

func (p *parser) at(tt TokenType) bool {
	return p.cur().Type == tt
}

func (p *parser) atKeyword(word string) bool {
	return p.cur().IsKeyword(word)
}

// expect consumes a token of type tt or fails with kind.
func (p *parser) expect(tt TokenType, kind error, expected string) (Token, error) {
	if !p.at(tt) {
		return Token{}, p.errorExpected(kind, expected, p.cur())
	}
	return p.advance(), nil
}

func (p *parser) errorExpected(kind error, expected string, got Token) error {
	return newError(PhaseParse, kind, got.Pos, "expected %s, got %s", expected, got)
}

func (p *parser) errorAt(kind error, pos Position, format string, args ...any) error {
	return newError(PhaseParse, kind, pos, format, args...)
}
