package commands

import (
	"log/slog"

	"github.com/leapstack-labs/doric/internal/cli/config"
	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/internal/engine"
	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, maxRows int) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmdCtx.Cfg, maxRows, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if err := eng.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close engine", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only parse.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, or defaults with history
// disabled when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Output:   config.DefaultOutput,
		LogLevel: config.DefaultLogLevel,
	}
}

func createEngine(cfg *config.Config, maxRows int, logger *slog.Logger) (*engine.Engine, error) {
	var source *core.AdapterConfig
	if cfg.Source != nil {
		source = cfg.Source.AdapterConfig()
	}

	return engine.New(engine.Config{
		Source:      source,
		HistoryPath: cfg.HistoryPath(),
		MaxRows:     maxRows,
		Logger:      logger,
	})
}
