package tiny

import (
	"errors"
	"fmt"
)

// Phase names the stage that rejected a unit.
type Phase string

const (
	PhaseLex   Phase = "lex"
	PhaseParse Phase = "parse"
	PhaseCheck Phase = "semantic"
)

// Lexical errors.
var (
	ErrUnknownCharacter   = errors.New("unknown character")
	ErrUnterminatedString = errors.New("unterminated string")

	// ErrInvalidEscape is only raised for a `\x` escape that is not followed
	// by two hex digits. Any other unknown escape keeps its character.
	ErrInvalidEscape = errors.New("invalid escape sequence")
)

// Structural errors raised by the parser. The "expected X" family wraps
// ErrUnexpectedToken and the unclosed-group family wraps ErrUnclosedGroup.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnclosedGroup   = errors.New("unclosed group")
	ErrNotSettable     = errors.New("expression is not settable")
	ErrNotAStatement   = errors.New("expression is not a statement")

	ErrExpectedFieldName       = fmt.Errorf("%w: expected a field name", ErrUnexpectedToken)
	ErrExpectedWhile           = fmt.Errorf("%w: expected `while`", ErrUnexpectedToken)
	ErrExpectedArgumentOrClose = fmt.Errorf("%w: expected an argument or a closing token", ErrUnexpectedToken)
	ErrExpectedCommaOrClose    = fmt.Errorf("%w: expected a comma or a closing token", ErrUnexpectedToken)
	ErrUnclosedParen           = fmt.Errorf("%w: expected `)`", ErrUnexpectedToken)
	ErrUnclosedBracket         = fmt.Errorf("%w: expected `]`", ErrUnexpectedToken)

	ErrUnclosedBlock = fmt.Errorf("%w: {}", ErrUnclosedGroup)
	ErrUnclosedCall  = fmt.Errorf("%w: ()", ErrUnclosedGroup)
	ErrUnclosedArray = fmt.Errorf("%w: []", ErrUnclosedGroup)
)

// Semantic errors.
var (
	ErrIllegalBreak    = errors.New("break outside of a loop")
	ErrIllegalContinue = errors.New("continue outside of a loop")
)

// Error is a fatal diagnostic for one unit. Kind is one of the sentinel
// errors above and is matched by errors.Is.
type Error struct {
	Phase Phase
	Kind  error
	Pos   Position
	Msg   string
}

func (e *Error) Error() string {
	if e.Pos.Source != "" {
		return fmt.Sprintf("%s error in %s at %s: %s", e.Phase, e.Pos.Source, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s error at %s: %s", e.Phase, e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(phase Phase, kind error, pos Position, format string, args ...any) *Error {
	return &Error{Phase: phase, Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
