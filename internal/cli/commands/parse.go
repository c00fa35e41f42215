package commands

import (
	"fmt"

	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/leapstack-labs/doric/pkg/format"
	"github.com/leapstack-labs/doric/pkg/parser"
	"github.com/spf13/cobra"
)

// statementView is the printable shape of a parsed statement.
type statementView struct {
	Kind    string       `json:"kind" yaml:"kind"`
	Table   string       `json:"table,omitempty" yaml:"table,omitempty"`
	SQL     string       `json:"sql" yaml:"sql"`
	Columns []columnView `json:"columns" yaml:"columns"`
}

// columnView is the printable shape of one projected column.
type columnView struct {
	Name   string `json:"name" yaml:"name"`
	Alias  bool   `json:"alias" yaml:"alias"`
	Expr   string `json:"expr" yaml:"expr"`
	Kind   string `json:"kind" yaml:"kind"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func newStatementView(q core.Query) statementView {
	v := statementView{Kind: "simple", SQL: format.Inline(q)}
	if tq, ok := q.(*core.TableQuery); ok {
		v.Kind = "table"
		v.Table = tq.Table()
	}

	names := core.ResultNames(q)
	for i, col := range q.Columns() {
		cv := columnView{
			Name:   names[i],
			Alias:  col.HasName(),
			Line:   col.Expr.Pos().Line,
			Column: col.Expr.Pos().Column,
		}
		switch e := col.Expr.(type) {
		case *core.Constant:
			cv.Expr = e.String()
			cv.Kind = e.Value.Kind().String()
		case *core.Variable:
			cv.Expr = e.String()
			cv.Kind = "column"
		}
		v.Columns = append(v.Columns, cv)
	}
	return v
}

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	inputOptions
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse statements and print their projection lists",
		Long: `Parse SELECT statements and print what each one projects.

Statements are read from a file, from --execute, or from standard input.
Parsing stops at the first syntax error, which is reported with its line
and column.`,
		Example: `  # Parse a file
  doric parse queries.sql

  # Parse inline SQL as JSON
  doric parse -e "SELECT 1 AS one, 'x'" -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	name, in, err := opts.open(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	queries, err := parser.Parse(in)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("parsed input", "input", name, "statements", len(queries))

	views := make([]statementView, len(queries))
	for i, q := range queries {
		views[i] = newStatementView(q)
	}

	if handled, err := cmdCtx.Renderer.Structured(views); handled {
		return err
	}
	return renderStatements(cmdCtx.Renderer, views)
}

func renderStatements(r *output.Renderer, views []statementView) error {
	for i, v := range views {
		title := fmt.Sprintf("Statement %d (simple)", i+1)
		if v.Kind == "table" {
			title = fmt.Sprintf("Statement %d (from %s)", i+1, v.Table)
		}
		r.Header(2, title)

		t := &output.Tabular{Columns: []string{"#", "name", "expression", "kind", "position"}}
		for j, col := range v.Columns {
			name := col.Name
			if !col.Alias {
				name += " (default)"
			}
			t.Rows = append(t.Rows, []any{j + 1, name, col.Expr, col.Kind, fmt.Sprintf("%d:%d", col.Line, col.Column)})
		}
		if err := r.Table(t); err != nil {
			return err
		}
		if i < len(views)-1 {
			r.Println()
		}
	}
	return nil
}
