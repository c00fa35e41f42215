package textcursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_MatchChar(t *testing.T) {
	c := New("ab")

	assert.False(t, c.MatchChar('b'))
	assert.Equal(t, 0, c.Index())

	require.True(t, c.MatchChar('a'))
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, "a", c.Result())

	require.True(t, c.MatchChar('b'))
	assert.True(t, c.AtEnd())
	assert.False(t, c.MatchChar('b'))
	assert.Equal(t, 2, c.Index())
}

func TestCursor_MatchDecimal(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		match  bool
		result string
		index  int
	}{
		{name: "digits", input: "123abc", match: true, result: "123", index: 3},
		{name: "single digit", input: "7", match: true, result: "7", index: 1},
		{name: "letter first", input: "a1", match: false, index: 0},
		{name: "empty", input: "", match: false, index: 0},
		{name: "leading space", input: " 1", match: false, index: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.input)
			assert.Equal(t, tt.match, c.MatchDecimal())
			assert.Equal(t, tt.index, c.Index())
			if tt.match {
				assert.Equal(t, tt.result, c.Result())
			}
		})
	}
}

func TestCursor_ResultInt(t *testing.T) {
	c := New("42,")
	require.True(t, c.MatchDecimal())
	n, err := c.ResultInt()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	c = New("99999999999999999999")
	require.True(t, c.MatchDecimal())
	_, err = c.ResultInt()
	assert.Error(t, err)
}

func TestCursor_MatchName(t *testing.T) {
	tests := []struct {
		input  string
		match  bool
		result string
	}{
		{input: "abc def", match: true, result: "abc"},
		{input: "_x1.y", match: true, result: "_x1"},
		{input: "A_B_9", match: true, result: "A_B_9"},
		{input: "1abc", match: false},
		{input: "'abc'", match: false},
		{input: "", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := New(tt.input)
			ok := c.MatchName(IsNameStart, IsNameContinuation)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.result, c.Result())
				assert.Equal(t, len(tt.result), c.Index())
			} else {
				assert.Equal(t, 0, c.Index())
			}
		})
	}
}

func TestCursor_MatchFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   string
		boundary func(byte) bool
		match    bool
	}{
		{name: "exact", input: "select 1", target: "select", boundary: IsNameContinuation, match: true},
		{name: "upper", input: "SELECT", target: "select", boundary: IsNameContinuation, match: true},
		{name: "mixed", input: "SeLeCt", target: "select", boundary: IsNameContinuation, match: true},
		{name: "longer name", input: "selector", target: "select", boundary: IsNameContinuation, match: false},
		{name: "digit after", input: "select1", target: "select", boundary: IsNameContinuation, match: false},
		{name: "underscore after", input: "select_", target: "select", boundary: IsNameContinuation, match: false},
		{name: "punctuation after", input: "select,", target: "select", boundary: IsNameContinuation, match: true},
		{name: "no boundary check", input: "selector", target: "select", match: true},
		{name: "too short", input: "sel", target: "select", boundary: IsNameContinuation, match: false},
		{name: "different", input: "delete", target: "select", boundary: IsNameContinuation, match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.input)
			assert.Equal(t, tt.match, c.MatchFold(tt.target, tt.boundary))
			if tt.match {
				assert.Equal(t, len(tt.target), c.Index())
			} else {
				assert.Equal(t, 0, c.Index())
			}
		})
	}
}

func TestCursor_SkipSpacesAndSetText(t *testing.T) {
	c := New(" \t x")
	c.SkipSpaces()
	assert.Equal(t, byte('x'), c.Current())
	assert.Equal(t, "x", c.Remaining())

	c.SetText("next")
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "next", c.Text())
	assert.Equal(t, "ex", c.Substring(1, 3))
	assert.Equal(t, "", c.Substring(3, 1))
	assert.Equal(t, "next", c.Substring(-5, 99))

	c.Advance(10)
	assert.True(t, c.AtEnd())
	assert.Equal(t, byte(0), c.Current())
}

func TestCursor_MatchString(t *testing.T) {
	c := New("--comment")
	assert.False(t, c.MatchString("-x"))
	assert.True(t, c.MatchString("--"))
	assert.Equal(t, "comment", c.Remaining())
	assert.False(t, c.MatchString(""))
}
