package tiny

import "fmt"

// Position identifies a location inside a named source unit.
// Line and Column are 1-based; Offset is the byte offset into the text.
type Position struct {
	Source string
	Offset int
	Line   int
	Column int
}

// String renders the position the way diagnostics embed it, e.g. [L3,c7].
func (p Position) String() string {
	return fmt.Sprintf("[L%d,c%d]", p.Line, p.Column)
}

// IsValid reports whether the position points into a source.
func (p Position) IsValid() bool {
	return p.Line > 0
}
