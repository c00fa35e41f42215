package commands

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/doric/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/doric/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new doric project",
		Long: `Initialize a new doric project with a commented doric.yaml.

Use --example to also create sample data and queries that run against a
local SQLite database.`,
		Example: `  # Initialize in current directory
  doric init

  # Initialize a new directory with sample data
  doric init my-project --example

  # Force overwrite existing config
  doric init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx := NewCommandContextWithoutEngine(cmd)
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(cmdCtx.Renderer, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create sample data and queries")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, sharedcfg.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	files, err := copyTemplate(template, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	groups := groupTemplateFiles(files)
	names := slices.Sorted(maps.Keys(groups))
	for i, name := range names {
		if len(names) > 1 {
			if i > 0 {
				r.Println()
			}
			r.Header(2, strings.ToUpper(name[:1])+name[1:])
		}
		for _, f := range groups[name] {
			r.StatusLine(f, "success", "")
		}
	}

	r.Println()
	r.Success("doric project initialized!")
	r.Println()
	r.Println("Next steps:")
	if template == "example" {
		r.Println("  doric load data/orders.csv      Load the sample data")
		r.Println("  doric exec queries/orders.sql   Run the example queries")
		r.Println("  doric history                   See what was executed")
	} else {
		r.Println("  1. Configure a source in doric.yaml")
		r.Println("  2. Run 'doric repl' to type queries")
		r.Println("  3. Run 'doric exec file.sql' to run a file")
	}
	return nil
}
