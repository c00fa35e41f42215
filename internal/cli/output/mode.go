// Package output renders command results for terminals, documents and
// machines.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are written.
type OutputMode string //nolint:revive // output.OutputMode reads fine at call sites

// Output modes.
const (
	// ModeAuto picks text on a TTY and markdown otherwise.
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeCSV      OutputMode = "csv"
	ModeYAML     OutputMode = "yaml"
)

// Modes lists every accepted mode name.
func Modes() []string {
	return []string{
		string(ModeAuto), string(ModeText), string(ModeMarkdown),
		string(ModeJSON), string(ModeCSV), string(ModeYAML),
	}
}

// Mode converts a configured name into an OutputMode. An empty name is
// auto; "md" is accepted for markdown.
func Mode(name string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModeAuto
	case "md":
		return ModeMarkdown
	default:
		return m
	}
}

// ParseMode is Mode with validation.
func ParseMode(name string) (OutputMode, error) {
	m := Mode(name)
	if !m.Valid() {
		return "", fmt.Errorf("unknown output mode %q (expected one of %s)", name, strings.Join(Modes(), ", "))
	}
	return m, nil
}

// Valid reports whether m is a known mode.
func (m OutputMode) Valid() bool {
	switch m {
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeCSV, ModeYAML:
		return true
	}
	return false
}

// Structured reports whether m is a machine-readable mode.
func (m OutputMode) Structured() bool {
	return m == ModeJSON || m == ModeCSV || m == ModeYAML
}
