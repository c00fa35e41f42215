// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/doric/internal/cli/config"
	"github.com/leapstack-labs/doric/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/doric/internal/config"
	"github.com/leapstack-labs/doric/pkg/adapter"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// SetupProject creates a temporary project directory, writes yamlContent
// as its doric.yaml when not empty, makes it the working directory and
// loads the configuration. It returns the resolved project directory.
func SetupProject(t *testing.T, yamlContent string) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := t.TempDir()
	if yamlContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, sharedcfg.ConfigFileName), []byte(yamlContent), 0o600))
	}
	t.Chdir(dir)

	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	resolved, err := os.Getwd()
	require.NoError(t, err)
	return resolved
}

// SeedSQLite creates a SQLite database at path and runs stmts against it.
// The sqlite adapter must be registered by the calling package.
func SeedSQLite(t *testing.T, path string, stmts ...string) {
	t.Helper()
	ctx := context.Background()

	src, err := adapter.Open(ctx, adapter.Config{Type: "sqlite", Path: path}, nil)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	for _, stmt := range stmts {
		require.NoError(t, src.Exec(ctx, stmt))
	}
}

// CommandResult holds the captured streams of a command run.
type CommandResult struct {
	Out    string
	ErrOut string
	Err    error
}

// RunCommand executes cmd with args and stdin, capturing both outputs.
func RunCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) CommandResult {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return CommandResult{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// StripANSI removes ANSI escape codes from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
