package adapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter is a registry test double. Only Connect and Close matter.
type stubAdapter struct {
	Adapter
	connectErr error
	closed     bool
}

func (s *stubAdapter) Connect(context.Context, Config) error { return s.connectErr }
func (s *stubAdapter) Close() error                          { s.closed = true; return nil }

func TestRegister_CaseInsensitive(t *testing.T) {
	Register("Stub_Case", func(*slog.Logger) Adapter { return &stubAdapter{} })

	assert.True(t, IsRegistered("stub_case"))
	assert.True(t, IsRegistered("STUB_CASE"))
	assert.Contains(t, ListAdapters(), "stub_case")

	factory, ok := Get("stub_case")
	require.True(t, ok)
	assert.NotNil(t, factory(nil))
}

func TestRegister_Panics(t *testing.T) {
	Register("stub_dup", func(*slog.Logger) Adapter { return &stubAdapter{} })

	assert.PanicsWithValue(t, "adapter: Register called twice for stub_dup", func() {
		Register("STUB_DUP", func(*slog.Logger) Adapter { return &stubAdapter{} })
	})
	assert.Panics(t, func() { Register("stub_nil", nil) })
	assert.False(t, IsRegistered("stub_nil"))
}

func TestNewAdapter_Errors(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	assert.ErrorIs(t, err, ErrNoType)

	_, err = Open(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrNoType)

	_, err = NewAdapter(Config{Type: "fake_db"}, nil)
	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "fake_db", unknown.Type)
	assert.Contains(t, err.Error(), `unknown adapter type "fake_db"`)
	assert.Contains(t, err.Error(), "source.type in doric.yaml")
}

func TestOpen_ClosesOnConnectFailure(t *testing.T) {
	refused := errors.New("refused")
	stub := &stubAdapter{connectErr: refused}
	Register("stub_refuse", func(*slog.Logger) Adapter { return stub })

	_, err := Open(context.Background(), Config{Type: "stub_refuse"}, nil)
	assert.ErrorIs(t, err, refused)
	assert.ErrorContains(t, err, "connect stub_refuse")
	assert.True(t, stub.closed)
}
