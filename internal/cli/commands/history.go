package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/internal/state"
	"github.com/spf13/cobra"
)

// DefaultHistoryLimit is the number of entries shown by default.
const DefaultHistoryLimit = 20

// errHistoryDisabled is returned when the history store is turned off.
var errHistoryDisabled = errors.New("history is disabled (see history.enabled)")

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	Clear bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear executed statements",
		Long: `Show the statements executed by exec and repl, newest first.

Each entry records the canonical SQL, whether the statement read from a
table, its outcome, and how many rows it produced.`,
		Example: `  # Last 20 statements
  doric history

  # Everything, as JSON
  doric history --limit 0 -o json

  # Forget everything
  doric history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", DefaultHistoryLimit, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all history entries")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, 0)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Clear {
		return clearHistory(cmd.Context(), cmdCtx)
	}
	return renderHistory(cmd.Context(), cmdCtx, opts.Limit)
}

func clearHistory(ctx context.Context, cmdCtx *CommandContext) error {
	store := cmdCtx.Engine.History()
	if store == nil {
		return errHistoryDisabled
	}
	n, err := store.ClearStatements(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmdCtx.Renderer.Success(fmt.Sprintf("Removed %d history entries", n))
	return nil
}

func renderHistory(ctx context.Context, cmdCtx *CommandContext, limit int) error {
	store := cmdCtx.Engine.History()
	if store == nil {
		return errHistoryDisabled
	}
	stmts, err := store.ListStatements(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	r := cmdCtx.Renderer
	if handled, err := r.Structured(stmts); handled {
		return err
	}
	if len(stmts) == 0 {
		r.Muted("No statements recorded yet")
		return nil
	}
	return r.Table(historyTable(stmts))
}

func historyTable(stmts []*state.Statement) *output.Tabular {
	t := &output.Tabular{Columns: []string{"executed_at", "status", "kind", "rows", "sql", "error"}}
	for _, s := range stmts {
		t.Rows = append(t.Rows, []any{
			s.ExecutedAt.Local().Format(time.DateTime),
			string(s.Status),
			string(s.Kind),
			s.RowCount,
			s.SQL,
			s.Error,
		})
	}
	return t
}
