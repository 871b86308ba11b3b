package tiny

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FormatCodeFrame renders the source line at pos with a caret under the
// offending column. It returns "" when pos falls outside code.
func FormatCodeFrame(code string, pos Position) string {
	if code == "" || !pos.IsValid() {
		return ""
	}

	lines := strings.Split(code, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}

// Describe renders err followed by a code frame when err carries a position
// inside code.
func Describe(err error, code string) string {
	var diag *Error
	if !errors.As(err, &diag) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(err.Error())
	if frame := FormatCodeFrame(code, diag.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}
