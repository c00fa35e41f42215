package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "load <csv-file>",
		Short: "Load a CSV file into a source table",
		Long: `Load a CSV file with a header row into the configured source.

The table is replaced if it exists. Its name defaults to the file name
without extension. All columns are created as text.`,
		Example: `  # Load orders.csv into table "orders"
  doric load data/orders.csv

  # Choose the table name
  doric load data/2024-orders.csv --table orders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, 0)
			if err != nil {
				return err
			}
			defer cleanup()

			path := args[0]
			name := table
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			src, err := cmdCtx.Engine.Source(cmd.Context())
			if err != nil {
				return err
			}
			if err := src.LoadCSV(cmd.Context(), name, path); err != nil {
				return err
			}
			cmdCtx.Logger.Debug("loaded CSV", "path", path, "table", name)
			cmdCtx.Renderer.Success(fmt.Sprintf("Loaded %s into %s", path, name))
			return nil
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Target table name (default: file name)")
	return cmd
}
