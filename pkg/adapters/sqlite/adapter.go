// Package sqlite provides a SQLite row source backed by modernc.org/sqlite.
// It registers itself as "sqlite"; import it for side effects:
//
//	import _ "github.com/leapstack-labs/doric/pkg/adapters/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/doric/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// Dialect describes SQLite for the shared adapter code.
var Dialect = adapter.Dialect{Name: "sqlite"}

func init() {
	adapter.Register(Dialect.Name, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
	params *Params
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(Dialect, logger)}
}

// Connect opens the database file named by cfg.Path.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	dsn := buildDSN(cfg.Path, params)
	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(params.Pragmas)) {
		stmt := fmt.Sprintf("PRAGMA %s = %s", name, params.Pragmas[name])
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply pragma %s: %w", name, err)
		}
	}

	a.DB = db
	a.Cfg = cfg
	a.params = params
	return nil
}

// buildDSN constructs a modernc sqlite DSN.
func buildDSN(path string, params *Params) string {
	if path == "" {
		path = ":memory:"
	}

	var query []string
	if params.ReadOnly && path != ":memory:" {
		if !strings.HasPrefix(path, "file:") {
			path = "file:" + path
		}
		query = append(query, "mode=ro")
	}
	if params.BusyTimeout > 0 {
		query = append(query, "_pragma=busy_timeout("+strconv.Itoa(params.BusyTimeout)+")")
	}
	if len(query) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(query, "&")
}

// Tables lists tables and views, skipping SQLite's internal tables.
func (a *Adapter) Tables(ctx context.Context) ([]string, error) {
	var tables []string
	for rec, err := range a.ScanQuery(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`) {
		if err != nil {
			return nil, err
		}
		tables = append(tables, rec.Values[0].String())
	}
	return tables, nil
}

// Columns describes the columns of table using pragma_table_info.
func (a *Adapter) Columns(ctx context.Context, table string) ([]adapter.Column, error) {
	var columns []adapter.Column
	for rec, err := range a.ScanQuery(ctx, `SELECT cid, name, type, "notnull" FROM pragma_table_info(?)`, table) {
		if err != nil {
			return nil, err
		}
		cid, _ := rec.Values[0].Int()
		notNull, _ := rec.Values[3].Int()
		columns = append(columns, adapter.Column{
			Name:     rec.Values[1].String(),
			Type:     rec.Values[2].String(),
			Nullable: notNull == 0,
			Position: int(cid) + 1,
		})
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// LoadCSV loads data from a CSV file into a table with TEXT columns.
func (a *Adapter) LoadCSV(ctx context.Context, table string, path string) error {
	return a.LoadCSVInserts(ctx, table, path)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
