// Package token holds source positions shared by the lexer, the parser and
// the diagnostics printed by the CLI.
package token

import "fmt"

// Position represents a location in the statement stream.
type Position struct {
	Line   int // 1-based physical line number
	Column int // 1-based column number within the line
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
