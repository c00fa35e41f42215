// Package textcursor provides a small character cursor over a single line of
// text. It knows nothing about SQL: tokenizers layer their own keyword,
// comment and continuation rules on top of it.
//
// All Match methods share the same contract: on success the cursor advances
// past the matched span and the span is available through Result; on failure
// the cursor is left exactly where it was.
package textcursor

import (
	"strconv"
	"strings"
)

// Cursor tracks a scan position within a line of text.
type Cursor struct {
	text  string
	index int
	start int // start of the last successful match
}

// New creates a cursor positioned at the start of text.
func New(text string) *Cursor {
	return &Cursor{text: text}
}

// SetText replaces the text being scanned and rewinds to its start.
func (c *Cursor) SetText(text string) {
	c.text = text
	c.index = 0
	c.start = 0
}

// Text returns the full text being scanned.
func (c *Cursor) Text() string { return c.text }

// Index returns the current scan position.
func (c *Cursor) Index() int { return c.index }

// Len returns the length of the text in bytes.
func (c *Cursor) Len() int { return len(c.text) }

// AtEnd reports whether the scan position has reached the end of the text.
func (c *Cursor) AtEnd() bool { return c.index >= len(c.text) }

// Current returns the byte at the scan position, or 0 at the end.
func (c *Cursor) Current() byte {
	return c.CharAt(c.index)
}

// CharAt returns the byte at i, or 0 when i is out of range.
func (c *Cursor) CharAt(i int) byte {
	if i < 0 || i >= len(c.text) {
		return 0
	}
	return c.text[i]
}

// Remaining returns the unscanned part of the text.
func (c *Cursor) Remaining() string { return c.text[c.index:] }

// Substring returns text[from:to], clamped to the text bounds.
func (c *Cursor) Substring(from, to int) string {
	from = max(from, 0)
	to = min(to, len(c.text))
	if from >= to {
		return ""
	}
	return c.text[from:to]
}

// Advance moves the scan position forward by n bytes, stopping at the end.
func (c *Cursor) Advance(n int) {
	c.index = min(c.index+n, len(c.text))
}

// SkipToEnd moves the scan position to the end of the text.
func (c *Cursor) SkipToEnd() {
	c.index = len(c.text)
}

// SkipSpaces advances past any run of whitespace.
func (c *Cursor) SkipSpaces() {
	for c.index < len(c.text) && IsSpace(c.text[c.index]) {
		c.index++
	}
}

// Result returns the text captured by the last successful match.
func (c *Cursor) Result() string {
	return c.text[c.start:c.index]
}

// ResultStart returns the position at which the last successful match began.
func (c *Cursor) ResultStart() int { return c.start }

// ResultInt interprets the last match as a decimal int64.
func (c *Cursor) ResultInt() (int64, error) {
	return strconv.ParseInt(c.Result(), 10, 64)
}

func (c *Cursor) success(end int) bool {
	c.start = c.index
	c.index = end
	return true
}

// MatchChar matches a single byte.
func (c *Cursor) MatchChar(ch byte) bool {
	if c.index < len(c.text) && c.text[c.index] == ch {
		return c.success(c.index + 1)
	}
	return false
}

// MatchString matches s exactly.
func (c *Cursor) MatchString(s string) bool {
	if s != "" && strings.HasPrefix(c.text[c.index:], s) {
		return c.success(c.index + len(s))
	}
	return false
}

// MatchDecimal matches a run of one or more decimal digits.
func (c *Cursor) MatchDecimal() bool {
	i := c.index
	for i < len(c.text) && IsDigit(c.text[i]) {
		i++
	}
	if i == c.index {
		return false
	}
	return c.success(i)
}

// MatchName matches a name made of one start byte followed by any number of
// continuation bytes.
func (c *Cursor) MatchName(start, cont func(byte) bool) bool {
	if c.index >= len(c.text) || !start(c.text[c.index]) {
		return false
	}
	i := c.index + 1
	for i < len(c.text) && cont(c.text[i]) {
		i++
	}
	return c.success(i)
}

// MatchFold matches s ignoring ASCII case. When boundary is not nil the byte
// following the match, if any, must not satisfy it; this stops a keyword from
// matching the prefix of a longer name.
func (c *Cursor) MatchFold(s string, boundary func(byte) bool) bool {
	end := c.index + len(s)
	if s == "" || end > len(c.text) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !equalFold(c.text[c.index+i], s[i]) {
			return false
		}
	}
	if boundary != nil && end < len(c.text) && boundary(c.text[end]) {
		return false
	}
	return c.success(end)
}

func equalFold(a, b byte) bool {
	return a == b || toLower(a) == toLower(b)
}

func toLower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// IsSpace reports whether b is ASCII whitespace.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// IsDigit reports whether b is a decimal digit.
func IsDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// IsLetter reports whether b is an ASCII letter.
func IsLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// IsNameStart reports whether b may begin an identifier.
func IsNameStart(b byte) bool {
	return IsLetter(b) || b == '_'
}

// IsNameContinuation reports whether b may continue an identifier.
func IsNameContinuation(b byte) bool {
	return IsNameStart(b) || IsDigit(b)
}
