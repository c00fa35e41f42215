package sqlite

import "github.com/leapstack-labs/doric/pkg/adapter"

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Pragmas applied after connecting (e.g. journal_mode: wal).
	Pragmas map[string]string `mapstructure:"pragmas"`

	// BusyTimeout in milliseconds; 0 keeps the driver default.
	BusyTimeout int `mapstructure:"busy_timeout"`

	// ReadOnly opens the database file in read-only mode.
	ReadOnly bool `mapstructure:"read_only"`
}

func parseParams(params map[string]any) (*Params, error) {
	p := &Params{}
	if err := adapter.DecodeParams(params, p); err != nil {
		return nil, err
	}
	return p, nil
}
