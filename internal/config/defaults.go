package config

import "strings"

// Default configuration values.
const (
	DefaultHistoryPath  = ".doric/history.db"
	DefaultPostgresPort = 5432
)

// ApplySourceDefaults applies default values to a SourceConfig based on the source type.
func ApplySourceDefaults(s *SourceConfig) {
	if s == nil {
		return
	}

	s.Type = strings.ToLower(s.Type)

	switch s.Type {
	case "postgres":
		if s.Port == 0 {
			s.Port = DefaultPostgresPort
		}
	case "sqlite", "duckdb":
		// File databases accept the path under either key.
		if s.Path == "" && s.Database != "" {
			s.Path = s.Database
		}
		if s.Path == "" {
			s.Path = ":memory:"
		}
	}
}

// IsFileSource reports whether the source type reads a local database file.
func IsFileSource(sourceType string) bool {
	switch strings.ToLower(sourceType) {
	case "sqlite", "duckdb":
		return true
	}
	return false
}
