package commands

import (
	"errors"

	"github.com/leapstack-labs/doric/pkg/format"
	"github.com/leapstack-labs/doric/pkg/parser"
	"github.com/spf13/cobra"
)

// FormatOptions holds options for the format command.
type FormatOptions struct {
	inputOptions
	Inline bool
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Print statements as canonical SQL",
		Long: `Parse statements and print them back as canonical SQL.

Keywords are upper case, string literals use single quotes, and AS is only
written when a column's name differs from its default. The output parses
back to the same statements.`,
		Example: `  # Reformat a file
  doric format queries.sql

  # One statement per line
  doric format --inline < queries.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "Print each statement on a single line")
	return cmd
}

func runFormat(cmd *cobra.Command, args []string, opts *FormatOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	_, in, err := opts.open(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	queries, err := parser.Parse(in)
	if err != nil {
		return err
	}

	if opts.Inline {
		for _, q := range queries {
			cmdCtx.Renderer.Println(format.Inline(q))
		}
		return nil
	}

	script, ok := format.Script(queries)
	if !ok {
		return errors.New("a statement without FROM can only be the last one")
	}
	cmdCtx.Renderer.Printf("%s", script)
	return nil
}
