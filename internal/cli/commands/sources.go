package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/pkg/adapter"
	"github.com/spf13/cobra"
)

// sourcesView is the structured shape of the sources listing.
type sourcesView struct {
	Adapters []string    `json:"adapters" yaml:"adapters"`
	Source   *sourceView `json:"source,omitempty" yaml:"source,omitempty"`
}

type sourceView struct {
	Type    string   `json:"type" yaml:"type"`
	Dialect string   `json:"dialect" yaml:"dialect"`
	Tables  []string `json:"tables" yaml:"tables"`
}

// NewSourcesCommand creates the sources command.
func NewSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources [table]",
		Short: "List row source adapters and source tables",
		Long: `List the registered row source adapters and, when a source is
configured, the tables it exposes. With a table argument, describe the
columns of that table instead.`,
		Example: `  # Adapters and tables
  doric sources

  # Columns of one table
  doric sources orders`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, 0)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				return renderColumns(cmd.Context(), cmdCtx, args[0])
			}
			return renderSources(cmd.Context(), cmdCtx)
		},
	}
	return cmd
}

func renderSources(ctx context.Context, cmdCtx *CommandContext) error {
	view := sourcesView{Adapters: adapter.ListAdapters()}
	configured := ""
	if cmdCtx.Cfg.Source != nil {
		configured = cmdCtx.Cfg.Source.AdapterConfig().Type
	}

	if cmdCtx.Engine.HasSource() {
		src, err := cmdCtx.Engine.Source(ctx)
		if err != nil {
			return err
		}
		tables, err := src.Tables(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		view.Source = &sourceView{Type: configured, Dialect: src.DialectName(), Tables: tables}
	}

	r := cmdCtx.Renderer
	if handled, err := r.Structured(view); handled {
		return err
	}

	r.Header(2, "Adapters")
	adapters := &output.Tabular{Columns: []string{"adapter", "configured"}}
	for _, name := range view.Adapters {
		mark := ""
		if name == configured {
			mark = "yes"
		}
		adapters.Rows = append(adapters.Rows, []any{name, mark})
	}
	if err := r.Table(adapters); err != nil {
		return err
	}

	r.Println()
	if view.Source == nil {
		r.Muted("No source configured; statements with FROM cannot be executed")
		return nil
	}
	r.Header(2, fmt.Sprintf("Tables (%s)", view.Source.Type))
	tables := &output.Tabular{Columns: []string{"table"}}
	for _, name := range view.Source.Tables {
		tables.Rows = append(tables.Rows, []any{name})
	}
	return r.Table(tables)
}

func renderColumns(ctx context.Context, cmdCtx *CommandContext, table string) error {
	src, err := cmdCtx.Engine.Source(ctx)
	if err != nil {
		return err
	}
	cols, err := src.Columns(ctx, table)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if handled, err := r.Structured(cols); handled {
		return err
	}
	r.Header(2, table)
	t := &output.Tabular{Columns: []string{"#", "column", "type", "nullable"}}
	for _, c := range cols {
		t.Rows = append(t.Rows, []any{c.Position, c.Name, c.Type, c.Nullable})
	}
	return r.Table(t)
}
