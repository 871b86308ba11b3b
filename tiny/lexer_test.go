package tiny

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func lexString(t *testing.T, code string) []Token {
	t.Helper()
	tokens, err := Lex(NewSource("test.tiny", code))
	assert.NoError(t, err)
	return tokens
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexPunctuationAndLiterals(t *testing.T) {
	tokens := lexString(t, `f(a, "s")[0].b; {}`)
	assert.Equal(t, []TokenType{
		TokenIdent, TokenLParen, TokenIdent, TokenComma, TokenString, TokenRParen,
		TokenLBracket, TokenNumber, TokenRBracket, TokenPeriod, TokenIdent,
		TokenSemicolon, TokenLBrace, TokenRBrace, TokenEOF,
	}, tokenTypes(tokens))
	assert.Equal(t, "s", tokens[4].Literal)
	assert.Equal(t, "0", tokens[7].Literal)
}

func TestLexOperators(t *testing.T) {
	tests := []struct {
		code string
		typ  TokenType
		op   BinaryOp
	}{
		{"+", TokenBinary, OpAdd},
		{"+=", TokenAssign, OpAdd},
		{"-=", TokenAssign, OpSubtract},
		{"*", TokenBinary, OpMultiply},
		{"**", TokenBinary, OpPower},
		{"**=", TokenAssign, OpPower},
		{"/", TokenBinary, OpDivide},
		{"/=", TokenAssign, OpDivide},
		{"%=", TokenAssign, OpModulo},
		{"<", TokenBinary, OpLess},
		{"<=", TokenBinary, OpLessEqual},
		{"<<", TokenBinary, OpShiftLeft},
		{"<<=", TokenAssign, OpShiftLeft},
		{">", TokenBinary, OpGreater},
		{">=", TokenBinary, OpGreaterEqual},
		{">>", TokenBinary, OpShiftRight},
		{"==", TokenBinary, OpEqual},
		{"!=", TokenBinary, OpNotEqual},
		{"=", TokenAssign, OpSet},
		{"div", TokenBinary, OpIntDiv},
		{"mod", TokenBinary, OpModulo},
		{"and", TokenBinary, OpAnd},
		{"or", TokenBinary, OpOr},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tokens := lexString(t, tt.code)
			assert.Equal(t, 2, len(tokens))
			assert.Equal(t, tt.typ, tokens[0].Type)
			assert.Equal(t, tt.op, tokens[0].Op)
		})
	}
}

func TestLexUnaryOperators(t *testing.T) {
	tokens := lexString(t, "! ~ not")
	assert.Equal(t, []TokenType{TokenUnary, TokenUnary, TokenUnary, TokenEOF}, tokenTypes(tokens))
	assert.Equal(t, UnaryNot, tokens[0].Unary)
	assert.Equal(t, UnaryBitNot, tokens[1].Unary)
	assert.Equal(t, UnaryNot, tokens[2].Unary)
}

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	tokens := lexString(t, "if then else return exit for do while continue break var iffy _x9")
	for _, tok := range tokens[:11] {
		assert.Equal(t, TokenKeyword, tok.Type)
	}
	assert.True(t, tokens[0].IsKeyword("if"))
	assert.Equal(t, TokenIdent, tokens[11].Type)
	assert.Equal(t, "iffy", tokens[11].Literal)
	assert.Equal(t, "_x9", tokens[12].Literal)
}

func TestLexNumbers(t *testing.T) {
	tokens := lexString(t, "12 3.25 .5 0x1Fz 1.2.3")
	var literals []string
	for _, tok := range tokens {
		if tok.Type == TokenNumber {
			literals = append(literals, tok.Literal)
		}
	}
	assert.Equal(t, []string{"12", "3.25", ".5", "0x1F", "1.2", ".3"}, literals)
	assert.Equal(t, TokenIdent, tokens[4].Type)
}

func TestLexStringEscapes(t *testing.T) {
	tokens := lexString(t, `"a\tb\n\r\b\"\\\x41\x7e\q é"`)
	assert.Equal(t, "a\tb\n\r\b\"\\A~q é", tokens[0].Literal)
}

func TestLexStringErrors(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{`"abc`, ErrUnterminatedString},
		{`"abc\`, ErrUnterminatedString},
		{`"\x4`, ErrUnterminatedString},
		{`"\x4g"`, ErrInvalidEscape},
		{`"\xZZ"`, ErrInvalidEscape},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, err := Lex(NewSource("", tt.code))
			assert.IsError(t, err, tt.want)
		})
	}
}

func TestLexUnknownCharacter(t *testing.T) {
	_, err := Lex(NewSource("", "a @"))
	assert.IsError(t, err, ErrUnknownCharacter)
	assert.Equal(t, "lex error at [L1,c3]: unknown character '@'", err.Error())

	_, err = Lex(NewSource("", "x = a & b"))
	assert.IsError(t, err, ErrUnknownCharacter)
	assert.Equal(t, "lex error at [L1,c7]: unknown character '&'", err.Error())

	for _, code := range []string{"a | b", "a ^ b", "a &= b", "a |= b", "a ^= b", "a && b", "a || b", "$", "#"} {
		t.Run(code, func(t *testing.T) {
			_, err := Lex(NewSource("", code))
			assert.IsError(t, err, ErrUnknownCharacter)
		})
	}
}

func TestLexDoublePeriod(t *testing.T) {
	tokens := lexString(t, "a..b ..5")
	assert.Equal(t, []TokenType{
		TokenIdent, TokenPeriod, TokenPeriod, TokenIdent, TokenPeriod, TokenNumber, TokenEOF,
	}, tokenTypes(tokens))
	assert.Equal(t, ".5", tokens[5].Literal)
}

func TestLexComments(t *testing.T) {
	tokens := lexString(t, "a // line\nb /* block\n */ c")
	assert.Equal(t, []TokenType{TokenIdent, TokenIdent, TokenIdent, TokenEOF}, tokenTypes(tokens))

	tokens = lexString(t, "a /* unterminated")
	assert.Equal(t, []TokenType{TokenIdent, TokenEOF}, tokenTypes(tokens))

	tokens = lexString(t, "/* unterminated *")
	assert.Equal(t, []TokenType{TokenEOF}, tokenTypes(tokens))
}

func TestLexPositions(t *testing.T) {
	tokens := lexString(t, "x\n  y = 1")
	assert.Equal(t, Position{Source: "test.tiny", Offset: 0, Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{Source: "test.tiny", Offset: 4, Line: 2, Column: 3}, tokens[1].Pos)
	assert.Equal(t, Position{Source: "test.tiny", Offset: 6, Line: 2, Column: 5}, tokens[2].Pos)

	eof := tokens[len(tokens)-1]
	assert.Equal(t, TokenEOF, eof.Type)
	assert.Equal(t, Position{Source: "test.tiny", Offset: 9, Line: 2, Column: 8}, eof.Pos)
	assert.Equal(t, "[L2,c3]", tokens[1].Pos.String())
}

func TestSourceLexCachesTokens(t *testing.T) {
	src := NewSource("unit", "a = 1")
	assert.Equal(t, 0, len(src.Tokens()))
	assert.NoError(t, src.Lex())
	first := src.Tokens()
	assert.Equal(t, 4, len(first))
	assert.NoError(t, src.Lex())
	assert.True(t, &first[0] == &src.Tokens()[0])
}

func TestTokenString(t *testing.T) {
	tokens := lexString(t, `a "b" 1 if + += = ! )`)
	var got []string
	for _, tok := range tokens {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{
		"identifier `a`",
		`string "b"`,
		"number `1`",
		"keyword `if`",
		"operator `+`",
		"assignment `+=`",
		"assignment `=`",
		"operator `!`",
		"`)`",
		"end of file",
	}, got)
}
