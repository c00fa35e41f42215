// Package engine ties the parser, the row sources and the statement
// history together. It parses statements from a stream, executes each
// one and records the outcome.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/leapstack-labs/doric/internal/state"
	"github.com/leapstack-labs/doric/pkg/adapter"
)

// Engine executes parsed queries against an optional row source.
type Engine struct {
	// Row source adapter (lazy initialized)
	src          adapter.Adapter
	srcConfig    *adapter.Config
	srcConnected bool
	srcMu        sync.Mutex

	store   state.Store
	maxRows int
	logger  *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Source configures the row source for table-bound queries. When nil,
	// table-bound queries report that they are not implemented.
	Source *adapter.Config
	// HistoryPath is the path to the SQLite history database. Empty
	// disables history.
	HistoryPath string
	// MaxRows caps the rows collected per statement. Zero means no cap.
	MaxRows int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine. The row source is only connected when a
// table-bound query first needs it.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		srcConfig: cfg.Source,
		maxRows:   cfg.MaxRows,
		logger:    logger,
	}

	if cfg.Source != nil {
		logger.Debug("initializing engine", "source_type", cfg.Source.Type, "history", cfg.HistoryPath)
	} else {
		logger.Debug("initializing engine without row source", "history", cfg.HistoryPath)
	}

	if cfg.HistoryPath != "" {
		if cfg.HistoryPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), 0o750); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.HistoryPath); err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		e.store = store
	}

	return e, nil
}

// ensureSourceConnected lazily connects to the row source.
func (e *Engine) ensureSourceConnected(ctx context.Context) error {
	e.srcMu.Lock()
	defer e.srcMu.Unlock()

	if e.srcConnected {
		return nil
	}
	if e.srcConfig == nil {
		return ErrNoSource
	}

	e.logger.Debug("connecting to row source", "adapter_type", e.srcConfig.Type)

	src, err := adapter.Open(ctx, *e.srcConfig, e.logger)
	if err != nil {
		return fmt.Errorf("failed to open row source: %w", err)
	}

	e.src = src
	e.srcConnected = true
	e.logger.Debug("row source connected", "dialect", src.DialectName())
	return nil
}

// ErrNoSource is returned by Source when no row source is configured.
var ErrNoSource = errors.New("no row source configured")

// Source returns the connected row source, connecting on first use.
func (e *Engine) Source(ctx context.Context) (adapter.Adapter, error) {
	if err := e.ensureSourceConnected(ctx); err != nil {
		return nil, err
	}
	return e.src, nil
}

// HasSource reports whether a row source is configured.
func (e *Engine) HasSource() bool {
	return e.srcConfig != nil
}

// History returns the statement history, or nil when history is disabled.
func (e *Engine) History() state.Store {
	return e.store
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	var errs []error
	if e.src != nil {
		if err := e.src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %w", errors.Join(errs...))
	}
	return nil
}
