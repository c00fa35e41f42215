package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/doric/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/doric/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/doric/pkg/adapters/sqlite"
)

// newFlags builds a flag set shaped like the root command's persistent flags.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("log-level", "", "")
	fs.String("history", "", "")
	fs.Bool("no-history", false, "")
	fs.String("source-type", "", "")
	fs.String("source-path", "", "")
	return fs
}

// setupProject creates a project directory, optionally with a doric.yaml,
// and makes it the working directory.
func setupProject(t *testing.T, yamlContent string) string {
	t.Helper()
	ResetConfig()
	dir := t.TempDir()
	if yamlContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "doric.yaml"), []byte(yamlContent), 0o600))
	}
	t.Chdir(dir)
	// t.TempDir may sit behind a symlink (macOS /var); compare on the resolved path.
	resolved, err := os.Getwd()
	require.NoError(t, err)
	return resolved
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := setupProject(t, "")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(dir, DefaultHistoryPath), cfg.History.Path)
	assert.Equal(t, cfg.History.Path, cfg.HistoryPath())
	assert.Nil(t, cfg.Source)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := setupProject(t, `
output: json
log_level: debug
history:
  path: state/hist.db
source:
  type: SQLite
  path: data/app.db
  params:
    pragmas:
      foreign_keys: "on"
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "state", "hist.db"), cfg.History.Path)
	require.NotNil(t, cfg.Source)
	assert.Equal(t, "sqlite", cfg.Source.Type)
	assert.Equal(t, filepath.Join(dir, "data", "app.db"), cfg.Source.Path)
	assert.Equal(t, map[string]any{"foreign_keys": "on"}, cfg.Source.Params["pragmas"])
	assert.Equal(t, filepath.Join(dir, "doric.yaml"), GetConfigFileUsed())
}

func TestLoadConfig_ExplicitFileSetsProjectRoot(t *testing.T) {
	setupProject(t, "")
	other := t.TempDir()
	cfgPath := filepath.Join(other, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: csv\n"), 0o600))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output)
	assert.Equal(t, filepath.Join(other, DefaultHistoryPath), cfg.History.Path)
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	dir := setupProject(t, "output: yaml\n")
	nested := filepath.Join(dir, "queries", "daily")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		env        map[string]string
		args       []string
		wantOutput string
		wantLevel  string
	}{
		{
			name:       "file over defaults",
			yaml:       "output: json\n",
			wantOutput: "json",
			wantLevel:  DefaultLogLevel,
		},
		{
			name:       "env over file",
			yaml:       "output: json\nlog_level: error\n",
			env:        map[string]string{"DORIC_OUTPUT": "csv"},
			wantOutput: "csv",
			wantLevel:  "error",
		},
		{
			name:       "flags over env",
			yaml:       "output: json\n",
			env:        map[string]string{"DORIC_OUTPUT": "csv", "DORIC_LOG_LEVEL": "error"},
			args:       []string{"--output", "yaml", "--log-level", "debug"},
			wantOutput: "yaml",
			wantLevel:  "debug",
		},
		{
			name:       "unchanged flags do not override",
			yaml:       "output: markdown\n",
			args:       []string{"--verbose"},
			wantOutput: "markdown",
			wantLevel:  DefaultLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupProject(t, tt.yaml)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := newFlags()
			require.NoError(t, flags.Parse(tt.args))

			cfg, err := LoadConfig("", flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, cfg.Output)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
		})
	}
}

func TestLoadConfig_NestedEnv(t *testing.T) {
	setupProject(t, "")
	t.Setenv("DORIC_SOURCE__TYPE", "postgres")
	t.Setenv("DORIC_SOURCE__HOST", "db.internal")
	t.Setenv("DORIC_SOURCE__PORT", "6543")
	t.Setenv("DORIC_HISTORY__ENABLED", "false")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.Source)
	assert.Equal(t, "postgres", cfg.Source.Type)
	assert.Equal(t, "db.internal", cfg.Source.Host)
	assert.Equal(t, 6543, cfg.Source.Port)
	assert.False(t, cfg.History.Enabled)
	assert.Empty(t, cfg.HistoryPath())
}

func TestLoadConfig_SourceAndHistoryFlags(t *testing.T) {
	dir := setupProject(t, "")
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--source-type", "duckdb", "--source-path", "local.duckdb", "--no-history"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	require.NotNil(t, cfg.Source)
	assert.Equal(t, "duckdb", cfg.Source.Type)
	assert.Equal(t, filepath.Join(dir, "local.duckdb"), cfg.Source.Path)
	assert.False(t, cfg.History.Enabled)

	flags = newFlags()
	require.NoError(t, flags.Parse([]string{"--history", ":memory:", "--source-type", "sqlite"}))
	cfg, err = LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.History.Path)
	assert.Equal(t, ":memory:", cfg.Source.Path)
}

func TestLoadConfig_ExpandsSourceEnvVars(t *testing.T) {
	setupProject(t, `
source:
  type: postgres
  host: ${DORIC_TEST_HOST}
  user: ${DORIC_TEST_USER}
  password: ${DORIC_TEST_UNSET_PASSWORD}
`)
	t.Setenv("DORIC_TEST_HOST", "pg.example.com")
	t.Setenv("DORIC_TEST_USER", "analyst")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "pg.example.com", cfg.Source.Host)
	assert.Equal(t, "analyst", cfg.Source.User)
	assert.Equal(t, "${DORIC_TEST_UNSET_PASSWORD}", cfg.Source.Password, "unset variables are kept")
	assert.Equal(t, 5432, cfg.Source.Port)
}

func TestLoadConfig_Environments(t *testing.T) {
	const yamlContent = `
source:
  type: postgres
  host: localhost
  database: dev
  options:
    sslmode: disable
environments:
  prod:
    source:
      host: prod.example.com
      options:
        sslmode: require
  local:
    source:
      type: sqlite
      path: local.db
`
	t.Run("base", func(t *testing.T) {
		setupProject(t, yamlContent)
		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Source.Host)
	})

	t.Run("override merges", func(t *testing.T) {
		setupProject(t, yamlContent)
		cfg, err := LoadConfigWithTarget("", "prod", nil)
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.Environment)
		assert.Equal(t, "prod.example.com", cfg.Source.Host)
		assert.Equal(t, "dev", cfg.Source.Database)
		assert.Equal(t, "require", cfg.Source.Options["sslmode"])
	})

	t.Run("type change starts clean", func(t *testing.T) {
		dir := setupProject(t, yamlContent)
		cfg, err := LoadConfigWithTarget("", "local", nil)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Source.Type)
		assert.Empty(t, cfg.Source.Host)
		assert.Equal(t, filepath.Join(dir, "local.db"), cfg.Source.Path)
	})

	t.Run("environment key selects", func(t *testing.T) {
		setupProject(t, yamlContent+"environment: prod\n")
		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "prod.example.com", cfg.Source.Host)
	})

	t.Run("unknown environment", func(t *testing.T) {
		setupProject(t, yamlContent)
		_, err := LoadConfigWithTarget("", "staging", nil)
		assert.ErrorContains(t, err, `unknown environment "staging"`)
	})
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		errSubstr string
	}{
		{"bad output", "output: xml\n", "unknown output mode"},
		{"bad log level", "log_level: loud\n", "unknown log level"},
		{"unknown source type", "source:\n  type: oracle\n", "invalid source configuration"},
		{"source without type", "source:\n  host: x\n", "source type is required"},
		{"malformed yaml", "output: [json\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupProject(t, tt.yaml)
			_, err := LoadConfig("", nil)
			assert.ErrorContains(t, err, tt.errSubstr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestMergeSourceConfig(t *testing.T) {
	base := &SourceConfig{Type: "postgres", Host: "a", Options: map[string]string{"x": "1"}}

	assert.Same(t, base, MergeSourceConfig(base, nil))
	assert.Same(t, base, MergeSourceConfig(nil, base))

	merged := MergeSourceConfig(base, &SourceConfig{Port: 7, Options: map[string]string{"y": "2"}})
	assert.Equal(t, "a", merged.Host)
	assert.Equal(t, 7, merged.Port)
	assert.Equal(t, map[string]string{"x": "1", "y": "2"}, merged.Options)
	assert.Equal(t, map[string]string{"x": "1"}, base.Options, "base is not modified")
}
