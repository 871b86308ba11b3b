package tiny

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFormatCodeFrame(t *testing.T) {
	frame := FormatCodeFrame("a = 1\nb = ]\n", Position{Line: 2, Column: 5})
	assert.Equal(t, "  --> line 2, column 5\n 2 | b = ]\n   |     ^", frame)

	assert.Equal(t, "", FormatCodeFrame("", Position{Line: 1, Column: 1}))
	assert.Equal(t, "", FormatCodeFrame("a", Position{Line: 3, Column: 1}))
	assert.Equal(t, "", FormatCodeFrame("a", Position{}))
	assert.Equal(t, "  --> line 1, column 2\n 1 | a\n   |  ^", FormatCodeFrame("a", Position{Line: 1, Column: 9}))
}

func TestDescribe(t *testing.T) {
	code := "x = (1 +"
	_, err := ParseString(code)
	assert.Error(t, err)
	assert.Equal(t,
		"parse error at [L1,c9]: expected an expression, got end of file\n  --> line 1, column 9\n 1 | x = (1 +\n   |         ^",
		Describe(err, code))

	plain := errors.New("boom")
	assert.Equal(t, "boom", Describe(plain, code))
}
