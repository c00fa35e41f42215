package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/internal/engine"
	"github.com/leapstack-labs/doric/internal/state"
	"github.com/spf13/cobra"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	inputOptions
	Limit int
	Watch bool
}

// resultView is the structured shape of one executed statement.
type resultView struct {
	SQL       string          `json:"sql" yaml:"sql"`
	Status    state.Status    `json:"status" yaml:"status"`
	Columns   []string        `json:"columns" yaml:"columns"`
	Rows      *output.Tabular `json:"rows" yaml:"rows"`
	Truncated bool            `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [file]",
		Short: "Parse and execute statements",
		Long: `Parse SELECT statements and execute them in order.

Statements without FROM produce one row of constants. Statements with FROM
read the named table from the configured source. A syntax error stops the
run; execution errors are reported and the run continues with the next
statement. Every statement is recorded in the history.`,
		Example: `  # Execute a file
  doric exec queries.sql

  # Execute inline SQL against a SQLite database
  doric exec --source-type sqlite --source-path app.db -e "SELECT id, name FROM users"

  # Re-run whenever the file changes
  doric exec --watch report.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum rows to show per statement (0 for no limit)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when the input file changes")
	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	if opts.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	if opts.Watch && len(args) == 0 {
		return fmt.Errorf("--watch requires a file argument")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd, opts.Limit)
	if err != nil {
		return err
	}
	defer cleanup()

	name, in, err := opts.open(cmd, args)
	if err != nil {
		return err
	}
	err = execStream(cmd.Context(), cmdCtx, in)
	_ = in.Close()

	if !opts.Watch {
		return err
	}
	if err != nil {
		PrintError(cmdCtx.Renderer, err)
	}

	cmdCtx.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", name))
	return watchFile(cmd.Context(), name, cmdCtx.Logger, func() {
		cmdCtx.Renderer.Muted("Change detected, re-running " + name)
		f, err := os.Open(name)
		if err != nil {
			PrintError(cmdCtx.Renderer, err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := execStream(cmd.Context(), cmdCtx, f); err != nil {
			PrintError(cmdCtx.Renderer, err)
		}
	})
}

// execStream runs every statement of in and renders the results. It fails
// when a statement could not be parsed or did not execute successfully.
func execStream(ctx context.Context, cmdCtx *CommandContext, in io.Reader) error {
	r := cmdCtx.Renderer
	structured := r.EffectiveMode().Structured()

	var (
		views  = []resultView{}
		total  int
		failed int
	)
	runErr := cmdCtx.Engine.Run(ctx, in, func(res *engine.Result) error {
		total++
		if res.Err != nil {
			failed++
		}
		if structured {
			views = append(views, newResultView(res))
			return nil
		}
		return renderResult(r, res, total > 1)
	})

	if structured {
		if _, err := r.Structured(views); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return &statementsFailedError{failed: failed, total: total}
	}
	return nil
}

// statementsFailedError summarises a run whose statements were all
// attempted but not all succeeded. Each failure has already been reported.
type statementsFailedError struct {
	failed, total int
}

func (e *statementsFailedError) Error() string {
	return fmt.Sprintf("%d of %d statements failed", e.failed, e.total)
}

func newResultView(res *engine.Result) resultView {
	v := resultView{
		SQL:       res.SQL,
		Status:    res.Status(),
		Columns:   res.Columns,
		Rows:      resultTable(res),
		Truncated: res.Truncated,
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	return v
}

// resultTable converts the rows of res for the output renderer.
func resultTable(res *engine.Result) *output.Tabular {
	t := &output.Tabular{Columns: res.Columns, Rows: make([][]any, len(res.Rows))}
	for i, row := range res.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v.Any()
		}
		t.Rows[i] = cells
	}
	return t
}

// renderResult writes one result in text, markdown or CSV form.
func renderResult(r *output.Renderer, res *engine.Result, separate bool) error {
	if r.EffectiveMode() != output.ModeCSV {
		if separate {
			r.Println()
		}
		r.Header(2, res.SQL)
	}

	if res.Err != nil {
		if len(res.Rows) > 0 {
			if err := r.Table(resultTable(res)); err != nil {
				return err
			}
		}
		PrintError(r, res.Err)
		return nil
	}

	if err := r.Table(resultTable(res)); err != nil {
		return err
	}
	if res.Truncated {
		r.Warning(fmt.Sprintf("output truncated to %d rows", len(res.Rows)))
	}
	return nil
}
