// Package adapter provides the row source contract used to execute table
// queries against real databases.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init(); import them for side effects.
package adapter

import (
	"context"

	"github.com/leapstack-labs/doric/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Column describes one column of a source table.
type Column struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
	Position int    `json:"position" yaml:"position"`
}

// Adapter defines the interface that all database adapters must implement.
// Every adapter is a core.RowSource, so a connected adapter can feed
// core.TableQuery.ExecuteFrom directly.
type Adapter interface {
	core.RowSource

	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Tables lists the tables visible in the configured schema.
	Tables(ctx context.Context) ([]string, error)

	// Columns describes the columns of a table, in ordinal order.
	Columns(ctx context.Context, table string) ([]Column, error)

	// LoadCSV loads data from a CSV file with a header row into a table,
	// replacing the table if it exists.
	LoadCSV(ctx context.Context, table string, path string) error

	// DialectName returns the name of the SQL dialect spoken by the database.
	DialectName() string
}
