package adapter

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBase(t *testing.T, d Dialect) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	base := NewBase(d, nil)
	base.DB = db
	return &base, mock
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
			assert.False(t, base.IsConnected())
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		errMsg    string
	}{
		{
			name:    "exec without connection",
			setupDB: false,
			sql:     "CREATE TABLE t (id INT)",
			errMsg:  "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE users (id INT)",
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:    "INVALID SQL",
			errMsg: "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}
			if tt.setupDB {
				var mock sqlmock.Sqlmock
				base, mock = newMockBase(t, Dialect{Name: "test"})
				tt.setupMock(mock)
			}

			err := base.Exec(context.Background(), tt.sql)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Scan(t *testing.T) {
	base, mock := newMockBase(t, Dialect{Name: "test", DefaultSchema: "main"})

	rows := sqlmock.NewRows([]string{"id", "name", "score"}).
		AddRow(int64(1), "alice", 1.5).
		AddRow(int64(2), []byte("bob"), nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM main.users`)).WillReturnRows(rows)

	var got []core.Record
	for rec, err := range base.Scan(context.Background(), "users") {
		require.NoError(t, err)
		got = append(got, rec)
	}

	require.Len(t, got, 2)
	assert.Equal(t, []string{"id", "name", "score"}, got[0].Columns)
	assert.Equal(t, []core.Value{core.IntValue(1), core.StringValue("alice"), core.FloatValue(1.5)}, got[0].Values)
	assert.Equal(t, []core.Value{core.IntValue(2), core.StringValue("bob"), core.NullValue()}, got[1].Values)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_ScanIsLazy(t *testing.T) {
	base, mock := newMockBase(t, Dialect{Name: "test"})

	seq := base.Scan(context.Background(), "order")
	require.NoError(t, mock.ExpectationsWereMet(), "no query may run before iteration")

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order"`)).WillReturnRows(rows).RowsWillBeClosed()

	var seen int
	for _, err := range seq {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_ScanErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		errMsg    string
	}{
		{
			name:   "scan without connection",
			errMsg: "database connection not established",
		},
		{
			name:    "query error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)
			},
			errMsg: "failed to execute query",
		},
		{
			name:    "row error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).RowError(0, assert.AnError)
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			errMsg: "error iterating rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}
			if tt.setupDB {
				var mock sqlmock.Sqlmock
				base, mock = newMockBase(t, Dialect{Name: "test"})
				tt.setupMock(mock)
			}

			var lastErr error
			for _, err := range base.Scan(context.Background(), "t") {
				if err != nil {
					lastErr = err
				}
			}
			require.Error(t, lastErr)
			assert.Contains(t, lastErr.Error(), tt.errMsg)
		})
	}
}

func TestBaseSQLAdapter_TablesCommon(t *testing.T) {
	base, mock := newMockBase(t, Dialect{Name: "test", DefaultSchema: "public", Numbered: true})

	mock.ExpectQuery(regexp.QuoteMeta("WHERE table_schema = $1")).
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("a").AddRow("b"))

	tables, err := base.TablesCommon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_ColumnsCommon(t *testing.T) {
	base, mock := newMockBase(t, Dialect{Name: "test", DefaultSchema: "main"})
	base.Cfg.Schema = "analytics"

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
		AddRow("id", "INTEGER", "NO", 1).
		AddRow("name", "VARCHAR", "YES", 2)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE table_schema = ? AND table_name = ?")).
		WithArgs("analytics", "people").
		WillReturnRows(rows)

	cols, err := base.ColumnsCommon(context.Background(), "people")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "id", Type: "INTEGER", Nullable: false, Position: 1},
		{Name: "name", Type: "VARCHAR", Nullable: true, Position: 2},
	}, cols)

	mock.ExpectQuery("information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))
	_, err = base.ColumnsCommon(context.Background(), "missing")
	assert.ErrorContains(t, err, "table missing not found")
}

func TestBaseSQLAdapter_LoadCSVInserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,first name\n1,ann\n2,bob\n"), 0o600))

	base, mock := newMockBase(t, Dialect{Name: "test"})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS people")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE people (id TEXT, first_name TEXT)")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO people VALUES (?, ?)"))
	prep.ExpectExec().WithArgs("1", "ann").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("2", "bob").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, base.LoadCSVInserts(context.Background(), "people", path))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"name", "name"},
		{"Mixed_Case1", "Mixed_Case1"},
		{"my column", `"my column"`},
		{"order", `"order"`},
		{"USER", `"USER"`},
		{"1st", `"1st"`},
		{`we"ird`, `"we""ird"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdent(tt.input))
		})
	}
}

func TestDialect_FormatPlaceholder(t *testing.T) {
	assert.Equal(t, "?", Dialect{}.FormatPlaceholder(3))
	assert.Equal(t, "$3", Dialect{Numbered: true}.FormatPlaceholder(3))
}

func TestParseQualifiedName(t *testing.T) {
	schema, name := ParseQualifiedName("s.t", "main")
	assert.Equal(t, "s", schema)
	assert.Equal(t, "t", name)

	schema, name = ParseQualifiedName("t", "main")
	assert.Equal(t, "main", schema)
	assert.Equal(t, "t", name)
}
