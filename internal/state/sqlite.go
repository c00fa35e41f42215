package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// ErrNotOpen is returned by store operations before Open succeeds.
var ErrNotOpen = errors.New("history database not opened")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore creates a new SQLite history store instance.
// If logger is nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger, now: time.Now}
}

// Open opens a connection to the SQLite database and applies migrations.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps an in-memory database alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		return err
	}

	s.logger.Debug("history store opened", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database path given to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// RecordStatement appends stmt to the history. Empty ID and ExecutedAt
// are filled in.
func (s *SQLiteStore) RecordStatement(ctx context.Context, stmt *Statement) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if stmt.ID == "" {
		stmt.ID = generateID()
	}
	if stmt.ExecutedAt.IsZero() {
		stmt.ExecutedAt = s.now().UTC()
	}

	var errMsg *string
	if stmt.Error != "" {
		errMsg = &stmt.Error
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statements (id, sql_text, kind, status, row_count, error, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stmt.ID, stmt.SQL, string(stmt.Kind), string(stmt.Status), stmt.RowCount, errMsg, stmt.ExecutedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record statement: %w", err)
	}

	s.logger.Debug("recorded statement",
		slog.String("id", stmt.ID),
		slog.String("kind", string(stmt.Kind)),
		slog.String("status", string(stmt.Status)))
	return nil
}

// ListStatements returns the most recent statements, newest first.
// A limit of zero or less returns the whole history.
func (s *SQLiteStore) ListStatements(ctx context.Context, limit int) ([]*Statement, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sql_text, kind, status, row_count, error, executed_at
		 FROM statements ORDER BY executed_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stmts []*Statement
	for rows.Next() {
		var (
			stmt       Statement
			kind       string
			status     string
			errMsg     sql.NullString
			executedAt int64
		)
		if err := rows.Scan(&stmt.ID, &stmt.SQL, &kind, &status, &stmt.RowCount, &errMsg, &executedAt); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		stmt.Kind = Kind(kind)
		stmt.Status = Status(status)
		stmt.Error = errMsg.String
		stmt.ExecutedAt = time.Unix(0, executedAt).UTC()
		stmts = append(stmts, &stmt)
	}

	return stmts, rows.Err()
}

// ClearStatements deletes the whole history and reports how many
// entries were removed.
func (s *SQLiteStore) ClearStatements(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM statements`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear statements: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
