package tiny

import "strings"

// Source is one named unit of program text.
type Source struct {
	Name string
	Code string

	// Start and End bracket the text; the EOF token is placed at End.
	Start Position
	End   Position

	tokens []Token
}

// NewSource wraps code under the given name and computes its bounds.
func NewSource(name, code string) *Source {
	src := &Source{
		Name:  name,
		Code:  code,
		Start: Position{Source: name, Offset: 0, Line: 1, Column: 1},
	}
	line := 1 + strings.Count(code, "\n")
	lastRowStart := strings.LastIndexByte(code, '\n') + 1
	src.End = Position{
		Source: name,
		Offset: len(code),
		Line:   line,
		Column: len(code) - lastRowStart + 1,
	}
	return src
}

// Lex scans the source once and caches the token sequence.
func (s *Source) Lex() error {
	if s.tokens != nil {
		return nil
	}
	tokens, err := Lex(s)
	if err != nil {
		return err
	}
	s.tokens = tokens
	return nil
}

// Tokens returns the cached token sequence, or nil before Lex succeeds.
func (s *Source) Tokens() []Token {
	return s.tokens
}
