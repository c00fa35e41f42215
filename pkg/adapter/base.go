package adapter

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/doric/pkg/core"
)

// ErrNotConnected is returned by operations that need an open connection.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec and Scan implementations.
type BaseSQLAdapter struct {
	DB      *sql.DB
	Cfg     core.AdapterConfig
	Dialect Dialect
	Logger  *slog.Logger
}

// NewBase returns a BaseSQLAdapter for dialect d. A nil logger discards output.
func NewBase(d Dialect, logger *slog.Logger) BaseSQLAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return BaseSQLAdapter{Dialect: d, Logger: logger.With(slog.String("adapter", d.Name))}
}

// DialectName returns the SQL dialect for this adapter.
func (b *BaseSQLAdapter) DialectName() string {
	return b.Dialect.Name
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Schema returns the schema tables are read from.
func (b *BaseSQLAdapter) Schema() string {
	if b.Cfg.Schema != "" {
		return b.Cfg.Schema
	}
	return b.Dialect.DefaultSchema
}

// QualifiedTable returns the SQL reference for table in the configured schema.
func (b *BaseSQLAdapter) QualifiedTable(table string) string {
	schema, name := ParseQualifiedName(table, b.Schema())
	if schema == "" {
		return QuoteIdent(name)
	}
	return QuoteIdent(schema) + "." + QuoteIdent(name)
}

// Scan implements core.RowSource by reading every row of table.
func (b *BaseSQLAdapter) Scan(ctx context.Context, table string) iter.Seq2[core.Record, error] {
	query := "SELECT * FROM " + b.QualifiedTable(table) //nolint:gosec // identifiers are quoted
	return b.ScanQuery(ctx, query)
}

// ScanQuery runs query lazily: nothing is sent to the database until the
// sequence is iterated, and rows are fetched one at a time. Breaking out of
// the loop closes the result set.
func (b *BaseSQLAdapter) ScanQuery(ctx context.Context, query string, args ...any) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		if b.DB == nil {
			yield(core.Record{}, ErrNotConnected)
			return
		}

		b.logger().Debug("scanning", slog.String("query", query))
		rows, err := b.DB.QueryContext(ctx, query, args...)
		if err != nil {
			yield(core.Record{}, fmt.Errorf("failed to execute query: %w", err))
			return
		}
		defer func() { _ = rows.Close() }()

		columns, err := rows.Columns()
		if err != nil {
			yield(core.Record{}, fmt.Errorf("failed to read result columns: %w", err))
			return
		}

		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}

		for rows.Next() {
			if err := rows.Scan(ptrs...); err != nil {
				yield(core.Record{}, fmt.Errorf("failed to scan row: %w", err))
				return
			}
			values := make([]core.Value, len(raw))
			for i, x := range raw {
				values[i] = toValue(x)
			}
			if !yield(core.Record{Columns: columns, Values: values}, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(core.Record{}, fmt.Errorf("error iterating rows: %w", err))
		}
	}
}

// toValue converts a driver value. Types without a direct mapping (decimals,
// intervals, nested values) fall back to their printed form.
func toValue(x any) core.Value {
	v, err := core.ValueOf(x)
	if err != nil {
		return core.StringValue(fmt.Sprint(x))
	}
	return v
}

// TablesCommon lists the base tables of the configured schema through
// information_schema.
func (b *BaseSQLAdapter) TablesCommon(ctx context.Context) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	//nolint:gosec // placeholders come from the dialect
	query := fmt.Sprintf(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = %s
		ORDER BY table_name
	`, b.Dialect.FormatPlaceholder(1))

	return b.queryStrings(ctx, query, b.Schema())
}

// ColumnsCommon describes the columns of table through information_schema.
func (b *BaseSQLAdapter) ColumnsCommon(ctx context.Context, table string) ([]Column, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	schema, name := ParseQualifiedName(table, b.Schema())

	//nolint:gosec // placeholders come from the dialect
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, b.Dialect.FormatPlaceholder(1), b.Dialect.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

func (b *BaseSQLAdapter) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// LoadCSVInserts loads a CSV file by creating a table with TEXT columns and
// inserting every record inside one transaction.
func (b *BaseSQLAdapter) LoadCSVInserts(ctx context.Context, table, path string) error {
	if b.DB == nil {
		return ErrNotConnected
	}

	file, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	target := b.QualifiedTable(table)
	colDefs := make([]string, len(headers))
	marks := make([]string, len(headers))
	for i, h := range headers {
		colDefs[i] = SanitizeIdentifier(h) + " TEXT"
		marks[i] = b.Dialect.FormatPlaceholder(i + 1)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+target); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", target, strings.Join(colDefs, ", "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", target, strings.Join(marks, ", ")) //nolint:gosec // identifiers are quoted
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var loaded int
	args := make([]any, len(headers))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record %d: %w", loaded+1, err)
		}
		for i := range args {
			args[i] = record[i]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert CSV record %d: %w", loaded+1, err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	b.logger().Debug("loaded CSV", slog.String("table", table), slog.Int("rows", loaded))
	return nil
}

// SanitizeIdentifier makes a CSV header usable as a column name.
func SanitizeIdentifier(name string) string {
	safe := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	safe = strings.ReplaceAll(safe, "-", "_")
	return QuoteIdent(safe)
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}
