package tiny

import "slices"

// parseExpr reads a primary expression and then extends it with field
// access, calls, indexing, an assignment or a binary operator chain for as
// long as mode allows.
func (p *parser) parseExpr(mode exprMode) (Node, error) {
	left, err := p.parsePrimary(mode)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()
		switch {
		case tok.Type == TokenPeriod && !mode.noSuffix:
			p.advance()
			name := p.cur()
			if name.Type != TokenIdent {
				return nil, p.errorExpected(ErrExpectedFieldName, "a field name after `.`", name)
			}
			p.advance()
			left = &MemberExpr{Object: left, Property: name.Literal, position: tok.Pos}

		case tok.Type == TokenLParen && !mode.noSuffix:
			args, err := p.parseArgs(TokenRParen)
			if err != nil {
				return nil, err
			}
			left = &CallExpr{Callee: left, Args: args, position: tok.Pos}

		case tok.Type == TokenLBracket && !mode.noSuffix:
			p.advance()
			index, err := p.parseExpr(exprMode{})
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRBracket, ErrUnclosedBracket, "`]`"); err != nil {
				return nil, err
			}
			left = &IndexExpr{Object: left, Index: index, position: tok.Pos}

		case tok.Type == TokenAssign && mode.statement:
			if !left.IsSettable() {
				return nil, p.errorAt(ErrNotSettable, left.Pos(), "cannot assign to %s", describeNode(left))
			}
			p.advance()
			value, err := p.parseExpr(exprMode{})
			if err != nil {
				return nil, err
			}
			left = &AssignStmt{Operator: tok.Op, Target: left, Value: value, position: tok.Pos}
			mode = exprMode{noBinary: true, noSuffix: true}

		case tok.Type == TokenBinary && !mode.noBinary:
			if left, err = p.parseBinaryChain(left); err != nil {
				return nil, err
			}
			mode.noBinary = true

		default:
			return left, nil
		}
	}
}

func (p *parser) parsePrimary(mode exprMode) (Node, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &NumberLiteral{Text: tok.Literal, position: tok.Pos}, nil
	case TokenString:
		p.advance()
		return &StringLiteral{Value: tok.Literal, position: tok.Pos}, nil
	case TokenIdent:
		p.advance()
		return &Identifier{Name: tok.Literal, position: tok.Pos}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseExpr(exprMode{})
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, ErrUnclosedParen, "`)`"); err != nil {
			return nil, err
		}
		return inner, nil
	case TokenLBracket:
		elems, err := p.parseArgs(TokenRBracket)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elements: elems, position: tok.Pos}, nil
	case TokenBinary:
		if tok.Op == OpSubtract {
			return p.parseUnary(tok, UnaryNegate)
		}
	case TokenUnary:
		return p.parseUnary(tok, tok.Unary)
	}

	if mode.statement {
		return nil, p.errorExpected(ErrUnexpectedToken, "a statement", tok)
	}
	return nil, p.errorExpected(ErrUnexpectedToken, "an expression", tok)
}

// parseUnary reads the operand of a prefix operator. The operand may take
// suffixes but no binary operators, so `-a.b + c` is `(-(a.b)) + c`.
func (p *parser) parseUnary(tok Token, op UnaryOp) (Node, error) {
	p.advance()
	operand, err := p.parseExpr(exprMode{noBinary: true})
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Operator: op, Right: operand, position: tok.Pos}, nil
}

// parseArgs reads a comma separated list between the current opening token
// and closing. It serves call arguments and array literals.
func (p *parser) parseArgs(closing TokenType) ([]Node, error) {
	open := p.advance()
	items := []Node{}
	wantComma := false
	afterComma := false

	for {
		tok := p.cur()
		switch {
		case tok.Type == TokenEOF:
			return nil, p.unclosedGroup(open, closing)
		case tok.Type == closing:
			if afterComma {
				return nil, p.errorExpected(ErrExpectedArgumentOrClose, "an item after `,`", tok)
			}
			p.advance()
			return items, nil
		case wantComma:
			if tok.Type != TokenComma {
				return nil, p.errorExpected(ErrExpectedCommaOrClose, "`,` or `"+string(closing)+"`", tok)
			}
			p.advance()
			wantComma, afterComma = false, true
		case tok.Type == TokenComma:
			return nil, p.errorExpected(ErrExpectedArgumentOrClose, "an item or `"+string(closing)+"`", tok)
		default:
			item, err := p.parseExpr(exprMode{})
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			wantComma, afterComma = true, false
		}
	}
}

func (p *parser) unclosedGroup(open Token, closing TokenType) error {
	if closing == TokenRBracket {
		return p.errorAt(ErrUnclosedArray, open.Pos, "unclosed [] starting at %s", open.Pos)
	}
	return p.errorAt(ErrUnclosedCall, open.Pos, "unclosed () starting at %s", open.Pos)
}

// parseBinaryChain collects `first op operand op operand ...` and folds it
// by priority band.
func (p *parser) parseBinaryChain(first Node) (Node, error) {
	operands := []Node{first}
	var ops []Token
	for p.at(TokenBinary) {
		ops = append(ops, p.advance())
		operand, err := p.parseExpr(exprMode{noBinary: true})
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return foldBinary(operands, ops), nil
}

// foldBinary merges operands pairwise, band 0 first. Within a band the
// leftmost operator is merged first, which makes every band left
// associative.
func foldBinary(operands []Node, ops []Token) Node {
	for band := 0; band <= maxBand && len(ops) > 0; band++ {
		for i := 0; i < len(ops); {
			if ops[i].Op.Band() != band {
				i++
				continue
			}
			operands[i] = &BinaryExpr{
				Left:     operands[i],
				Operator: ops[i].Op,
				Right:    operands[i+1],
				position: ops[i].Pos,
			}
			operands = slices.Delete(operands, i+1, i+2)
			ops = slices.Delete(ops, i, i+1)
		}
	}
	return operands[0]
}
