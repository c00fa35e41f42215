// Package config provides configuration types shared by the CLI and the
// engine: the row source and the statement history.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/doric/pkg/adapter"
)

// SourceConfig holds row source configuration.
type SourceConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres

	// File-based databases (SQLite, DuckDB)
	Path string `koanf:"path"`

	// Network databases
	Database string `koanf:"database"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g. DuckDB extensions, SQLite pragmas)
	Params map[string]any `koanf:"params"`
}

// HistoryConfig controls the statement history database.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Validate checks if the source configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (s *SourceConfig) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("source type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(s.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      s.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// AdapterConfig converts the source configuration for the adapter registry.
func (s *SourceConfig) AdapterConfig() *adapter.Config {
	return &adapter.Config{
		Type:     strings.ToLower(s.Type),
		Path:     s.Path,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		Username: s.User,
		Password: s.Password,
		Schema:   s.Schema,
		Options:  s.Options,
		Params:   s.Params,
	}
}
