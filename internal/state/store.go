// Package state keeps a local history of executed statements in SQLite.
package state

import (
	"context"
	"time"
)

// Kind classifies a recorded statement by its query variant.
type Kind string

// Statement kinds.
const (
	KindSimple Kind = "simple"
	KindTable  Kind = "table"
)

// Status is the outcome of executing a statement.
type Status string

// Statement outcomes.
const (
	StatusOK          Status = "ok"
	StatusFailed      Status = "failed"
	StatusUnsupported Status = "unsupported"
)

// Statement is one entry of the execution history.
type Statement struct {
	ID         string    `json:"id" yaml:"id"`
	SQL        string    `json:"sql" yaml:"sql"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Status     Status    `json:"status" yaml:"status"`
	RowCount   int64     `json:"row_count" yaml:"row_count"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at" yaml:"executed_at"`
}

// Store records and lists executed statements.
type Store interface {
	RecordStatement(ctx context.Context, stmt *Statement) error
	ListStatements(ctx context.Context, limit int) ([]*Statement, error)
	ClearStatements(ctx context.Context) (int64, error)
	Close() error
}
