package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/doric/pkg/core"
)

// Factory creates an unconnected adapter.
type Factory func(*slog.Logger) Adapter

// ErrNoType is returned when a source configuration names no adapter.
var ErrNoType = errors.New("adapter type not specified")

var sources = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register makes a row source adapter available under name. Names are
// case-insensitive. Like database/sql.Register, it panics when factory is
// nil or name is already taken, so it belongs in an init function.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("adapter: Register factory is nil")
	}
	key := strings.ToLower(name)

	sources.Lock()
	defer sources.Unlock()
	if _, dup := sources.factories[key]; dup {
		panic("adapter: Register called twice for " + key)
	}
	sources.factories[key] = factory
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	sources.RLock()
	defer sources.RUnlock()
	f, ok := sources.factories[strings.ToLower(name)]
	return f, ok
}

// IsRegistered reports whether an adapter is registered under name.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// ListAdapters returns the registered adapter names in sorted order.
func ListAdapters() []string {
	sources.RLock()
	defer sources.RUnlock()
	return slices.Sorted(maps.Keys(sources.factories))
}

// NewAdapter creates an unconnected adapter of type cfg.Type. A nil
// logger is replaced by a discarding one inside the adapter.
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, ErrNoType
	}
	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// Open creates the adapter named by cfg.Type and connects it. The adapter
// is closed again when connecting fails.
func Open(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	a, err := NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, cfg); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("connect %s: %w", cfg.Type, err)
	}
	return a, nil
}

// UnknownAdapterError reports a source type with no registered adapter.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q (available: %s); check source.type in doric.yaml",
		e.Type, strings.Join(e.Available, ", "))
}
