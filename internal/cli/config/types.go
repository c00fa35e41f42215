// Package config provides configuration management for the doric CLI.
//
// The shared source and history types live in internal/config and are
// re-exported here via type aliases for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/doric/internal/config"
)

// SourceConfig is an alias for the shared row source configuration.
type SourceConfig = sharedcfg.SourceConfig

// HistoryConfig is an alias for the shared history configuration.
type HistoryConfig = sharedcfg.HistoryConfig

// Config holds all CLI configuration options.
type Config struct {
	Output       string               `koanf:"output"`
	Verbose      bool                 `koanf:"verbose"`
	LogLevel     string               `koanf:"log_level"`
	Environment  string               `koanf:"environment"`
	History      HistoryConfig        `koanf:"history"`
	Source       *SourceConfig        `koanf:"source"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Source *SourceConfig `koanf:"source"`
}

// Default configuration values.
const (
	DefaultHistoryPath = sharedcfg.DefaultHistoryPath
	DefaultEnv         = ""
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "info"
)

// HistoryPath returns the history database path, or "" when history is
// disabled.
func (c *Config) HistoryPath() string {
	if !c.History.Enabled {
		return ""
	}
	return c.History.Path
}
