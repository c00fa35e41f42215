package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/doric/pkg/token"
)

// SyntaxError reports SQL text that does not follow the grammar.
type SyntaxError struct {
	Pos     token.Position
	Text    string // the physical line the error was found on
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Snippet returns the offending line followed by a caret under the error
// column.
func (e *SyntaxError) Snippet() string {
	col := min(max(e.Pos.Column-1, 0), len(e.Text))
	var b strings.Builder
	b.WriteString(e.Text)
	b.WriteByte('\n')
	for i := 0; i < col; i++ {
		if e.Text[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

// IOError reports a failure of the input stream while reading the next line.
type IOError struct {
	Line int // number of lines read successfully before the failure
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read error after line %d: %v", e.Line, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrIntegerOutOfRange  = "integer literal %s out of range"
	ErrUnsupportedClause  = "%s clause is not supported"
	ErrMultipleStatements = "expected a single statement, found more"
	ErrNoStatement        = "no statement found"
)
