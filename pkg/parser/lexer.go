package parser

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/leapstack-labs/doric/pkg/textcursor"
	"github.com/leapstack-labs/doric/pkg/token"
)

// Lexer scans SQL text one physical line at a time. It layers keyword,
// comment and line continuation rules on top of a textcursor.Cursor.
//
// Once the input is exhausted the lexer stays exhausted and every match
// fails without side effects.
type Lexer struct {
	reader    *bufio.Reader
	cursor    *textcursor.Cursor
	line      int  // number of physical lines read so far
	buffered  bool // a line is loaded and not yet discarded
	exhausted bool
}

// NewLexer creates a Lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lexer{
		reader: br,
		cursor: textcursor.New(""),
	}
}

// RefillIfNeeded reads the next line when none is buffered. Reaching the end
// of the stream latches the exhausted state and is not an error.
func (l *Lexer) RefillIfNeeded() error {
	if l.buffered || l.exhausted {
		return nil
	}

	text, err := l.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return &IOError{Line: l.line, Err: err}
	}
	if err != nil && text == "" {
		l.exhausted = true
		// Keep the last line so diagnostics can point at its end.
		l.cursor.SkipToEnd()
		return nil
	}

	l.line++
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	l.cursor.SetText(text)
	l.buffered = true
	return nil
}

// SkipSpacesMultiLine skips whitespace. Whenever the scan reaches the end of
// the line or the start of a "--" comment, the rest of the line is dropped
// and the next line is read, until real content is found or the input is
// exhausted.
func (l *Lexer) SkipSpacesMultiLine() error {
	for {
		if err := l.RefillIfNeeded(); err != nil {
			return err
		}
		if l.exhausted {
			return nil
		}
		l.cursor.SkipSpaces()
		if !l.cursor.AtEnd() && !strings.HasPrefix(l.cursor.Remaining(), "--") {
			return nil
		}
		l.buffered = false
	}
}

// Exhausted reports whether the input has been fully consumed.
func (l *Lexer) Exhausted() bool { return l.exhausted }

// AtLineEnd reports whether the scan position is at the end of the current
// line (or the input is exhausted).
func (l *Lexer) AtLineEnd() bool { return l.exhausted || l.cursor.AtEnd() }

// MatchChar matches a single character.
func (l *Lexer) MatchChar(c byte) bool {
	return !l.exhausted && l.cursor.MatchChar(c)
}

// NextChar consumes and returns the character at the scan position.
func (l *Lexer) NextChar() (byte, bool) {
	if l.AtLineEnd() {
		return 0, false
	}
	c := l.cursor.Current()
	l.cursor.Advance(1)
	return c, true
}

// MatchDecimal matches a run of decimal digits; see ResultInt.
func (l *Lexer) MatchDecimal() bool {
	return !l.exhausted && l.cursor.MatchDecimal()
}

// MatchName matches an identifier: an ASCII letter or underscore followed by
// letters, digits and underscores.
func (l *Lexer) MatchName() bool {
	return !l.exhausted && l.cursor.MatchName(textcursor.IsNameStart, textcursor.IsNameContinuation)
}

// MatchKeyword matches kw ignoring ASCII case. The match fails when the
// keyword is immediately followed by an identifier character, so "selector"
// never matches SELECT.
func (l *Lexer) MatchKeyword(kw string) bool {
	return !l.exhausted && l.cursor.MatchFold(kw, textcursor.IsNameContinuation)
}

// PeekKeyword reports whether MatchKeyword(kw) would succeed, without
// consuming anything.
func (l *Lexer) PeekKeyword(kw string) bool {
	if l.exhausted {
		return false
	}
	probe := *l.cursor
	return probe.MatchFold(kw, textcursor.IsNameContinuation)
}

// Result returns the text of the last successful match.
func (l *Lexer) Result() string { return l.cursor.Result() }

// ResultInt returns the last decimal match as an int64.
func (l *Lexer) ResultInt() (int64, error) { return l.cursor.ResultInt() }

// Pos returns the position of the scan index.
func (l *Lexer) Pos() token.Position {
	return token.Position{Line: l.Line(), Column: l.cursor.Index() + 1}
}

// Line returns the number of the current physical line, 1-based.
func (l *Lexer) Line() int { return max(l.line, 1) }

// LineText returns the current physical line.
func (l *Lexer) LineText() string { return l.cursor.Text() }

// peekWord describes what sits at the scan position, for error messages.
func (l *Lexer) peekWord() string {
	if l.exhausted {
		return "end of input"
	}
	probe := *l.cursor
	if probe.MatchName(textcursor.IsNameStart, textcursor.IsNameContinuation) || probe.MatchDecimal() {
		return "\"" + probe.Result() + "\""
	}
	if probe.AtEnd() {
		return "end of line"
	}
	return "\"" + string(probe.Current()) + "\""
}
