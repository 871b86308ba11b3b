package tiny

// parseStatement parses one statement and swallows any semicolons after it.
func (p *parser) parseStatement() (Node, error) {
	stmt, err := p.parseStatementBody()
	if err != nil {
		return nil, err
	}
	for p.at(TokenSemicolon) {
		p.advance()
	}
	return stmt, nil
}

func (p *parser) parseStatementBody() (Node, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenLBrace:
		return p.parseBlock()
	case TokenKeyword:
		switch tok.Literal {
		case "if":
			return p.parseIfStatement()
		case "exit":
			p.advance()
			return &ReturnStmt{position: tok.Pos}, nil
		case "return":
			return p.parseReturnStatement()
		case "var":
			return p.parseVarStatement()
		case "for":
			return p.parseForStatement()
		case "while":
			return p.parseWhileStatement()
		case "do":
			return p.parseDoWhileStatement()
		case "break":
			p.advance()
			return &BreakStmt{position: tok.Pos}, nil
		case "continue":
			p.advance()
			return &ContinueStmt{position: tok.Pos}, nil
		}
		return nil, p.errorExpected(ErrUnexpectedToken, "a statement", tok)
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseBlock() (Node, error) {
	open := p.advance()
	block := &Block{position: open.Pos}
	for {
		switch p.cur().Type {
		case TokenRBrace:
			p.advance()
			return block, nil
		case TokenEOF:
			return nil, p.errorAt(ErrUnclosedBlock, open.Pos, "unclosed {} starting at %s", open.Pos)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
}

func (p *parser) parseIfStatement() (Node, error) {
	tok := p.advance()
	cond, err := p.parseExpr(exprMode{})
	if err != nil {
		return nil, err
	}
	if p.atKeyword("then") {
		p.advance()
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: cond, Then: then, position: tok.Pos}
	if p.atKeyword("else") {
		p.advance()
		if stmt.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseReturnStatement() (Node, error) {
	tok := p.advance()
	stmt := &ReturnStmt{position: tok.Pos}
	switch p.cur().Type {
	case TokenKeyword, TokenSemicolon, TokenRBrace, TokenEOF:
		return stmt, nil
	}
	value, err := p.parseExpr(exprMode{})
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	return stmt, nil
}

// parseVarStatement reads `var a [= x], b [= y]...`. A single declaration is
// returned bare; several come back as a Block of VarStmt.
func (p *parser) parseVarStatement() (Node, error) {
	tok := p.advance()
	var decls []Node
	for {
		name, err := p.expect(TokenIdent, ErrUnexpectedToken, "a variable name")
		if err != nil {
			return nil, err
		}
		decl := &VarStmt{Name: name.Literal, position: name.Pos}
		p.script.Locals[name.Literal] = name.Pos

		if p.at(TokenAssign) && p.cur().Op == OpSet {
			p.advance()
			if decl.Value, err = p.parseExpr(exprMode{}); err != nil {
				return nil, err
			}
		}
		decls = append(decls, decl)

		if !p.at(TokenComma) {
			break
		}
		p.advance()
	}

	if len(decls) == 1 {
		return decls[0], nil
	}
	return &Block{Statements: decls, position: tok.Pos}, nil
}

// parseForStatement reads `for (init; cond [;] post) body`. Empty init and
// post clauses become empty blocks.
func (p *parser) parseForStatement() (Node, error) {
	tok := p.advance()
	if _, err := p.expect(TokenLParen, ErrUnexpectedToken, "`(` after `for`"); err != nil {
		return nil, err
	}

	stmt := &ForStmt{position: tok.Pos}
	var err error
	if p.at(TokenSemicolon) {
		stmt.Init = &Block{position: p.cur().Pos}
		for p.at(TokenSemicolon) {
			p.advance()
		}
	} else if stmt.Init, err = p.parseStatement(); err != nil {
		return nil, err
	}

	if stmt.Condition, err = p.parseExpr(exprMode{}); err != nil {
		return nil, err
	}
	if p.at(TokenSemicolon) {
		p.advance()
	}

	if p.at(TokenRParen) {
		stmt.Post = &Block{position: p.cur().Pos}
	} else if stmt.Post, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen, ErrUnclosedParen, "`)` to close the `for` header"); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseWhileStatement() (Node, error) {
	tok := p.advance()
	cond, err := p.parseExpr(exprMode{})
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body, position: tok.Pos}, nil
}

func (p *parser) parseDoWhileStatement() (Node, error) {
	tok := p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("while") {
		return nil, p.errorExpected(ErrExpectedWhile, "`while` after `do` body", p.cur())
	}
	p.advance()
	cond, err := p.parseExpr(exprMode{})
	if err != nil {
		return nil, err
	}
	return &DoWhileStmt{Body: body, Condition: cond, position: tok.Pos}, nil
}

func (p *parser) parseExpressionStatement() (Node, error) {
	expr, err := p.parseExpr(exprMode{statement: true})
	if err != nil {
		return nil, err
	}
	if !expr.IsStatement() {
		return nil, p.errorAt(ErrNotAStatement, expr.Pos(), "%s is not a statement", describeNode(expr))
	}
	return expr, nil
}
