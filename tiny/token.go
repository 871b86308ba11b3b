package tiny

import (
	"fmt"
	"slices"
)

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenEOF TokenType = "EOF"

	TokenSemicolon TokenType = ";"
	TokenComma     TokenType = ","
	TokenPeriod    TokenType = "."
	TokenLParen    TokenType = "("
	TokenRParen    TokenType = ")"
	TokenLBracket  TokenType = "["
	TokenRBracket  TokenType = "]"
	TokenLBrace    TokenType = "{"
	TokenRBrace    TokenType = "}"

	TokenNumber TokenType = "NUMBER"
	TokenString TokenType = "STRING"
	TokenIdent  TokenType = "IDENT"

	TokenKeyword TokenType = "KEYWORD"

	// TokenBinary carries Op. TokenAssign carries Op too, read as a compound
	// assignment (OpSet for plain `=`). TokenUnary carries Unary.
	TokenBinary TokenType = "BINOP"
	TokenAssign TokenType = "SETOP"
	TokenUnary  TokenType = "UNOP"
)

// Token captures lexical information for the parser.
type Token struct {
	Type TokenType
	// Literal is the number text, decoded string value, identifier name or
	// keyword word, depending on Type.
	Literal string
	Op      BinaryOp
	Unary   UnaryOp
	Pos     Position
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(word string) bool {
	return t.Type == TokenKeyword && t.Literal == word
}

// String describes the token for "expected X, got Y" messages.
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of file"
	case TokenNumber:
		return fmt.Sprintf("number `%s`", t.Literal)
	case TokenString:
		return fmt.Sprintf("string %s", quoteString(t.Literal))
	case TokenIdent:
		return fmt.Sprintf("identifier `%s`", t.Literal)
	case TokenKeyword:
		return fmt.Sprintf("keyword `%s`", t.Literal)
	case TokenBinary:
		return fmt.Sprintf("operator `%s`", t.Op.Symbol())
	case TokenAssign:
		if t.Op == OpSet {
			return "assignment `=`"
		}
		return fmt.Sprintf("assignment `%s=`", t.Op.Symbol())
	case TokenUnary:
		return fmt.Sprintf("operator `%s`", t.Unary.Symbol())
	default:
		return fmt.Sprintf("`%s`", string(t.Type))
	}
}

// keywords maps reserved words to token constructors. Most produce keyword
// tokens; the word operators produce operator tokens.
var keywords = map[string]func(pos Position, word string) Token{
	"if":       keywordToken,
	"then":     keywordToken,
	"else":     keywordToken,
	"return":   keywordToken,
	"exit":     keywordToken,
	"for":      keywordToken,
	"do":       keywordToken,
	"while":    keywordToken,
	"continue": keywordToken,
	"break":    keywordToken,
	"var":      keywordToken,
	"div":      binaryWord(OpIntDiv),
	"mod":      binaryWord(OpModulo),
	"and":      binaryWord(OpAnd),
	"or":       binaryWord(OpOr),
	"not": func(pos Position, word string) Token {
		return Token{Type: TokenUnary, Literal: word, Unary: UnaryNot, Pos: pos}
	},
}

func keywordToken(pos Position, word string) Token {
	return Token{Type: TokenKeyword, Literal: word, Pos: pos}
}

func binaryWord(op BinaryOp) func(Position, string) Token {
	return func(pos Position, word string) Token {
		return Token{Type: TokenBinary, Literal: word, Op: op, Pos: pos}
	}
}

// lookupWord turns a scanned word into a keyword, operator or identifier token.
func lookupWord(pos Position, word string) Token {
	if build, ok := keywords[word]; ok {
		return build(pos, word)
	}
	return Token{Type: TokenIdent, Literal: word, Pos: pos}
}

// Keywords lists the reserved words, for completion and highlighting.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	slices.Sort(words)
	return words
}
