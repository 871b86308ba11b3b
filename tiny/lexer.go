package tiny

import (
	"strings"
	"unicode/utf8"
)

const eof = -1

type lexer struct {
	src   *Source
	input string

	offset int // byte offset of ch
	next   int // byte offset after ch

	line   int
	column int

	ch rune

	tokens []Token
}

// Lex converts the source text into tokens terminated by an EOF token.
func Lex(src *Source) ([]Token, error) {
	l := newLexer(src)
	for l.ch != eof {
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
	l.emit(Token{Type: TokenEOF, Pos: src.End})
	return l.tokens, nil
}

func newLexer(src *Source) *lexer {
	l := &lexer{src: src, input: src.Code, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.offset = l.next
	if l.next >= len(l.input) {
		l.ch = eof
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += w
}

func (l *lexer) peekRune() rune {
	if l.next >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *lexer) pos() Position {
	return Position{Source: l.src.Name, Offset: l.offset, Line: l.line, Column: l.column}
}

func (l *lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *lexer) errorAt(pos Position, kind error, format string, args ...any) error {
	return newError(PhaseLex, kind, pos, format, args...)
}

func (l *lexer) scan() error {
	pos := l.pos()
	ch := l.ch
	l.readRune()

	switch ch {
	case ' ', '\t', '\r', '\n':
	case ';':
		l.emit(Token{Type: TokenSemicolon, Pos: pos})
	case ',':
		l.emit(Token{Type: TokenComma, Pos: pos})
	case '(':
		l.emit(Token{Type: TokenLParen, Pos: pos})
	case ')':
		l.emit(Token{Type: TokenRParen, Pos: pos})
	case '[':
		l.emit(Token{Type: TokenLBracket, Pos: pos})
	case ']':
		l.emit(Token{Type: TokenRBracket, Pos: pos})
	case '{':
		l.emit(Token{Type: TokenLBrace, Pos: pos})
	case '}':
		l.emit(Token{Type: TokenRBrace, Pos: pos})
	case '+':
		l.binaryOrAssign(pos, OpAdd)
	case '-':
		l.binaryOrAssign(pos, OpSubtract)
	case '%':
		l.binaryOrAssign(pos, OpModulo)
	case '~':
		l.emit(Token{Type: TokenUnary, Unary: UnaryBitNot, Pos: pos})
	case '*':
		if l.ch == '*' {
			l.readRune()
			l.binaryOrAssign(pos, OpPower)
		} else {
			l.binaryOrAssign(pos, OpMultiply)
		}
	case '/':
		switch l.ch {
		case '*':
			l.readRune()
			l.skipBlockComment()
		case '/':
			l.skipLineComment()
		default:
			l.binaryOrAssign(pos, OpDivide)
		}
	case '<':
		if l.ch == '<' {
			l.readRune()
			l.binaryOrAssign(pos, OpShiftLeft)
		} else {
			l.comparison(pos, OpLessEqual, OpLess)
		}
	case '>':
		if l.ch == '>' {
			l.readRune()
			l.binaryOrAssign(pos, OpShiftRight)
		} else {
			l.comparison(pos, OpGreaterEqual, OpGreater)
		}
	case '=':
		if l.ch == '=' {
			l.readRune()
			l.emit(Token{Type: TokenBinary, Op: OpEqual, Pos: pos})
		} else {
			l.emit(Token{Type: TokenAssign, Op: OpSet, Pos: pos})
		}
	case '!':
		if l.ch == '=' {
			l.readRune()
			l.emit(Token{Type: TokenBinary, Op: OpNotEqual, Pos: pos})
		} else {
			l.emit(Token{Type: TokenUnary, Unary: UnaryNot, Pos: pos})
		}
	case '"':
		return l.scanString(pos)
	case '.':
		if isDigit(l.ch) {
			l.scanNumber(pos, true)
		} else {
			l.emit(Token{Type: TokenPeriod, Pos: pos})
		}
	default:
		switch {
		case ch == '0' && l.ch == 'x':
			l.readRune()
			for isHexDigit(l.ch) {
				l.readRune()
			}
			l.emit(Token{Type: TokenNumber, Literal: l.input[pos.Offset:l.offset], Pos: pos})
		case isDigit(ch):
			l.scanNumber(pos, false)
		case isWordStart(ch):
			for isWordRune(l.ch) {
				l.readRune()
			}
			l.emit(lookupWord(pos, l.input[pos.Offset:l.offset]))
		default:
			return l.errorAt(pos, ErrUnknownCharacter, "unknown character %q", ch)
		}
	}
	return nil
}

// binaryOrAssign emits op, or its compound assignment when `=` follows.
func (l *lexer) binaryOrAssign(pos Position, op BinaryOp) {
	if l.ch == '=' {
		l.readRune()
		l.emit(Token{Type: TokenAssign, Op: op, Pos: pos})
		return
	}
	l.emit(Token{Type: TokenBinary, Op: op, Pos: pos})
}

// comparison emits orEqual when `=` follows, plain otherwise.
func (l *lexer) comparison(pos Position, orEqual, plain BinaryOp) {
	if l.ch == '=' {
		l.readRune()
		l.emit(Token{Type: TokenBinary, Op: orEqual, Pos: pos})
		return
	}
	l.emit(Token{Type: TokenBinary, Op: plain, Pos: pos})
}

func (l *lexer) scanNumber(pos Position, seenDot bool) {
	for {
		switch {
		case isDigit(l.ch):
			l.readRune()
			continue
		case l.ch == '.' && !seenDot:
			seenDot = true
			l.readRune()
			continue
		}
		break
	}
	l.emit(Token{Type: TokenNumber, Literal: l.input[pos.Offset:l.offset], Pos: pos})
}

func (l *lexer) scanString(pos Position) error {
	var sb strings.Builder
	for {
		switch l.ch {
		case eof:
			return l.errorAt(pos, ErrUnterminatedString, "unterminated string starting at %s", pos)
		case '"':
			l.readRune()
			l.emit(Token{Type: TokenString, Literal: sb.String(), Pos: pos})
			return nil
		case '\\':
			escPos := l.pos()
			l.readRune()
			switch l.ch {
			case eof:
				return l.errorAt(pos, ErrUnterminatedString, "unterminated string starting at %s", pos)
			case 'r':
				sb.WriteByte('\r')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'x':
				l.readRune()
				var value byte
				for i := 0; i < 2; i++ {
					if l.ch == eof {
						return l.errorAt(pos, ErrUnterminatedString, "unterminated string starting at %s", pos)
					}
					if !isHexDigit(l.ch) {
						return l.errorAt(escPos, ErrInvalidEscape, "expected two hex digits after \\x, got %q", l.ch)
					}
					value = value<<4 | hexValue(l.ch)
					l.readRune()
				}
				sb.WriteByte(value)
				continue
			default:
				sb.WriteString(l.input[l.offset:l.next])
			}
			l.readRune()
		default:
			sb.WriteString(l.input[l.offset:l.next])
			l.readRune()
		}
	}
}

// skipBlockComment runs to the closing `*/`, or quietly to end of input.
func (l *lexer) skipBlockComment() {
	for l.ch != eof {
		if l.ch == '*' && l.peekRune() == '/' {
			l.readRune()
			l.readRune()
			return
		}
		l.readRune()
	}
}

func (l *lexer) skipLineComment() {
	for l.ch != eof && l.ch != '\n' {
		l.readRune()
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func hexValue(r rune) byte {
	switch {
	case isDigit(r):
		return byte(r - '0')
	case 'a' <= r && r <= 'f':
		return byte(r-'a') + 10
	default:
		return byte(r-'A') + 10
	}
}

func isWordStart(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isWordRune(r rune) bool {
	return isWordStart(r) || isDigit(r)
}
