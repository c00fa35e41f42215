package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "doric> "
	replContPrompt = "  ...> "
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	Limit int
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL shell",
		Long: `Start an interactive shell that executes statements as you type them.

Statements end with a semicolon and may span several lines. Lines starting
with a dot are shell commands; type .help to list them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum rows to show per statement (0 for no limit)")
	return cmd
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
	ctx := cmd.Context()

	cmdCtx, cleanup, err := NewCommandContext(cmd, opts.Limit)
	if err != nil {
		return err
	}
	defer cleanup()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     replHistoryFile(cmdCtx),
		AutoComplete:    newREPLCompleter(ctx, cmdCtx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Println("doric interactive shell")
	r.Muted("End statements with ';'. Type .help for commands, .quit to exit.")
	r.Println()

	session := &replSession{cmdCtx: cmdCtx}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(session.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if session.handle(ctx, line) {
			return nil
		}
		rl.SetPrompt(session.prompt())

		if err := ctx.Err(); err != nil {
			return nil
		}
	}
}

// replHistoryFile keeps the line history next to the statement history.
func replHistoryFile(cmdCtx *CommandContext) string {
	path := cmdCtx.Cfg.HistoryPath()
	if path == "" || path == ":memory:" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), "repl_history")
}

// newREPLCompleter completes keywords, dot commands and source tables.
func newREPLCompleter(ctx context.Context, cmdCtx *CommandContext) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("SELECT"),
		readline.PcItem("FROM"),
		readline.PcItem("AS"),
	}
	for _, dc := range dotCommands {
		items = append(items, readline.PcItem(dc.name))
	}

	if cmdCtx.Engine.HasSource() {
		src, err := cmdCtx.Engine.Source(ctx)
		if err != nil {
			cmdCtx.Renderer.Warning(err.Error())
			return readline.NewPrefixCompleter(items...)
		}
		tables, err := src.Tables(ctx)
		if err != nil {
			cmdCtx.Logger.Debug("no table completion", "error", err)
		}
		for _, t := range tables {
			items = append(items, readline.PcItem(t))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// dotCommand describes one shell command.
type dotCommand struct {
	name string
	help string
}

var dotCommands = []dotCommand{
	{".help", "Show this help message"},
	{".sources", "List adapters and tables of the configured source"},
	{".history [n]", "Show the last n executed statements (default 20)"},
	{".quit", "Exit the shell (also .exit or Ctrl+D)"},
}

// replSession accumulates input until complete statements are available
// and executes them.
type replSession struct {
	cmdCtx *CommandContext
	buf    strings.Builder
}

func (s *replSession) reset() { s.buf.Reset() }

func (s *replSession) pending() bool {
	return strings.TrimSpace(s.buf.String()) != ""
}

func (s *replSession) prompt() string {
	if s.pending() {
		return replContPrompt
	}
	return replPrompt
}

// handle processes one input line and reports whether the shell should
// exit.
func (s *replSession) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.dot(ctx, trimmed)
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')

	rest := s.buf.String()
	for {
		stmt, tail, ok := cutStatement(rest)
		if !ok {
			break
		}
		rest = tail
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		var summary *statementsFailedError
		if err := execStream(ctx, s.cmdCtx, strings.NewReader(stmt)); err != nil && !errors.As(err, &summary) {
			PrintError(s.cmdCtx.Renderer, err)
		}
	}

	s.buf.Reset()
	if strings.TrimSpace(rest) != "" {
		s.buf.WriteString(rest)
	}
	return false
}

func (s *replSession) dot(ctx context.Context, line string) bool {
	r := s.cmdCtx.Renderer
	parts := strings.Fields(line)

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		r.Println("Commands:")
		for _, dc := range dotCommands {
			r.Printf("  %-14s %s\n", dc.name, dc.help)
		}
		r.Println()
		r.Println("Statements end with ';' and may span several lines.")

	case ".sources":
		if err := renderSources(ctx, s.cmdCtx); err != nil {
			PrintError(r, err)
		}

	case ".history":
		limit := DefaultHistoryLimit
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 0 {
				r.Warning("usage: .history [n]")
				return false
			}
			limit = n
		}
		if err := renderHistory(ctx, s.cmdCtx, limit); err != nil {
			PrintError(r, err)
		}

	default:
		r.Warning(fmt.Sprintf("unknown command %s (type .help for commands)", parts[0]))
	}
	return false
}

// cutStatement splits s at the first semicolon outside string literals and
// comments. It reports false when s holds no complete statement.
func cutStatement(s string) (stmt, rest string, ok bool) {
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
					continue
				}
				inString = false
			}
		case c == '\'':
			inString = true
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			nl := strings.IndexByte(s[i:], '\n')
			if nl < 0 {
				return "", s, false
			}
			i += nl
		case c == ';':
			return s[:i], s[i+1:], true
		}
	}
	return "", s, false
}
