package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/doric/internal/cli/config"
	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/internal/state"
	"github.com/leapstack-labs/doric/pkg/adapter"
	"github.com/spf13/cobra"
)

// Health check outcomes.
const (
	checkOK      = "ok"
	checkWarning = "warning"
	checkFailed  = "failed"
	checkSkipped = "skipped"
)

// DoctorOutput is the structured output for the doctor command.
type DoctorOutput struct {
	Checks  []HealthCheck `json:"checks" yaml:"checks"`
	Healthy bool          `json:"healthy" yaml:"healthy"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Group  string `json:"group" yaml:"group"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, history and source connectivity",
		Long: `Check that doric is ready to run.

The doctor command reports which configuration file is used, whether the
history database can be opened and migrated, and whether the configured
source is reachable. It exits with an error when a check fails.`,
		Example: `  # Run all checks
  doric doctor

  # Check the production environment, as JSON
  doric doctor -t prod -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			out := runDoctorChecks(cmd.Context(), cmdCtx)
			if err := renderDoctor(cmdCtx.Renderer, out); err != nil {
				return err
			}
			if !out.Healthy {
				return fmt.Errorf("%d checks failed", countStatus(out.Checks, checkFailed))
			}
			return nil
		},
	}
}

func runDoctorChecks(ctx context.Context, cmdCtx *CommandContext) *DoctorOutput {
	var checks []HealthCheck
	checks = append(checks, configChecks(cmdCtx.Cfg, cmdCtx.Renderer)...)
	checks = append(checks, historyCheck(ctx, cmdCtx))
	checks = append(checks, sourceCheck(ctx, cmdCtx))

	return &DoctorOutput{
		Checks:  checks,
		Healthy: countStatus(checks, checkFailed) == 0,
	}
}

func configChecks(cfg *config.Config, r *output.Renderer) []HealthCheck {
	file := HealthCheck{Group: "Configuration", Name: "config file", Status: checkOK}
	if used := config.GetConfigFileUsed(); used != "" {
		file.Detail = used
	} else {
		file.Status = checkWarning
		file.Detail = "none found, using defaults"
	}

	env := HealthCheck{Group: "Configuration", Name: "environment", Status: checkOK, Detail: "default"}
	if cfg.Environment != "" {
		env.Detail = cfg.Environment
	}

	mode := HealthCheck{
		Group:  "Configuration",
		Name:   "output",
		Status: checkOK,
		Detail: fmt.Sprintf("%s (effective %s)", output.Mode(cfg.Output), r.EffectiveMode()),
	}

	return []HealthCheck{file, env, mode}
}

func historyCheck(ctx context.Context, cmdCtx *CommandContext) HealthCheck {
	check := HealthCheck{Group: "History", Name: "history database"}

	path := cmdCtx.Cfg.HistoryPath()
	if path == "" {
		check.Status = checkSkipped
		check.Detail = "disabled"
		return check
	}

	// Opening through the engine creates the directory like exec would.
	eng, err := createEngine(&config.Config{History: cmdCtx.Cfg.History}, 0, cmdCtx.Logger)
	if err != nil {
		check.Status = checkFailed
		check.Detail = err.Error()
		return check
	}
	defer func() { _ = eng.Close() }()

	check.Status = checkOK
	check.Detail = path
	if s, ok := eng.History().(*state.SQLiteStore); ok {
		if v, err := s.MigrationVersion(ctx); err == nil {
			check.Detail = fmt.Sprintf("%s (schema version %d)", path, v)
		}
	}
	return check
}

func sourceCheck(ctx context.Context, cmdCtx *CommandContext) HealthCheck {
	check := HealthCheck{Group: "Source", Name: "row source"}

	if cmdCtx.Cfg.Source == nil {
		check.Status = checkWarning
		check.Detail = fmt.Sprintf("not configured (available: %s)", strings.Join(adapter.ListAdapters(), ", "))
		return check
	}

	cfg := cmdCtx.Cfg.Source.AdapterConfig()
	check.Name = cfg.Type + " source"

	src, err := adapter.Open(ctx, *cfg, cmdCtx.Logger)
	if err != nil {
		check.Status = checkFailed
		check.Detail = err.Error()
		return check
	}
	defer func() { _ = src.Close() }()

	tables, err := src.Tables(ctx)
	if err != nil {
		check.Status = checkFailed
		check.Detail = fmt.Sprintf("connected, but listing tables failed: %v", err)
		return check
	}
	check.Status = checkOK
	check.Detail = fmt.Sprintf("connected, %d tables", len(tables))
	return check
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) error {
	if handled, err := r.Structured(out); handled {
		return err
	}

	group := ""
	for _, c := range out.Checks {
		if c.Group != group {
			if group != "" {
				r.Println()
			}
			group = c.Group
			r.Header(2, group)
		}
		r.StatusLine(c.Name, c.Status, c.Detail)
	}

	r.Println()
	if out.Healthy {
		r.Success("All checks passed")
	} else {
		r.Muted(fmt.Sprintf("%d of %d checks failed", countStatus(out.Checks, checkFailed), len(out.Checks)))
	}
	return nil
}

func countStatus(checks []HealthCheck, status string) int {
	n := 0
	for _, c := range checks {
		if c.Status == status {
			n++
		}
	}
	return n
}
