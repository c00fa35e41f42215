package core

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// Query is a parsed SELECT statement. The set of variants is closed:
// SimpleQuery and TableQuery.
type Query interface {
	// Columns returns a copy of the projection list.
	Columns() []QueryColumn
	// Execute returns a lazy sequence of output rows.
	Execute(ctx context.Context) iter.Seq2[Row, error]
	queryNode()
}

// ResultNames returns the display name of every column of q. Columns
// without a result name are called column<N>, N being 1-based.
func ResultNames(q Query) []string {
	cols := q.Columns()
	names := make([]string, len(cols))
	for i, col := range cols {
		if col.HasName() {
			names[i] = col.Name
		} else {
			names[i] = "column" + strconv.Itoa(i+1)
		}
	}
	return names
}

// ---------- SimpleQuery ----------

// SimpleQuery is a query without a table source. It produces exactly one
// row computed from its constant expressions.
type SimpleQuery struct {
	columns []QueryColumn
}

// NewSimpleQuery creates a SimpleQuery owning a copy of columns.
func NewSimpleQuery(columns []QueryColumn) (*SimpleQuery, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	return &SimpleQuery{columns: slices.Clone(columns)}, nil
}

func (*SimpleQuery) queryNode() {}

// Columns implements Query.
func (q *SimpleQuery) Columns() []QueryColumn { return slices.Clone(q.columns) }

// Validate checks that every column can be evaluated without a row.
func (q *SimpleQuery) Validate() error {
	for i, col := range q.columns {
		if v, ok := col.Expr.(*Variable); ok {
			return &ValidationError{
				Column:  i + 1,
				Pos:     v.Pos(),
				Message: fmt.Sprintf("column reference %s requires a FROM clause", v),
			}
		}
	}
	return nil
}

// Execute implements Query. Each expression is evaluated once and a single
// row is yielded.
func (q *SimpleQuery) Execute(ctx context.Context) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		if err := q.Validate(); err != nil {
			yield(nil, err)
			return
		}
		row := make(Row, len(q.columns))
		for i, col := range q.columns {
			row[i] = col.Expr.(*Constant).Value
		}
		yield(row, nil)
	}
}

// ---------- TableQuery ----------

// TableQuery is a query bound to a named table.
type TableQuery struct {
	table   string
	columns []QueryColumn
}

// NewTableQuery creates a TableQuery owning a copy of columns.
func NewTableQuery(table string, columns []QueryColumn) (*TableQuery, error) {
	if table == "" {
		return nil, fmt.Errorf("table query requires a table name")
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	return &TableQuery{table: table, columns: slices.Clone(columns)}, nil
}

func (*TableQuery) queryNode() {}

// Table returns the source table name.
func (q *TableQuery) Table() string { return q.table }

// Columns implements Query.
func (q *TableQuery) Columns() []QueryColumn { return slices.Clone(q.columns) }

// Execute implements Query. Without a row source there is nothing to read
// from, so the sequence yields a single NotImplementedError.
func (q *TableQuery) Execute(_ context.Context) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		yield(nil, &NotImplementedError{Feature: fmt.Sprintf("table-bound execution of %q without a row source", q.table)})
	}
}

// ExecuteFrom projects every record pulled from src into an output row.
// Records are pulled one at a time; stopping the iteration stops the scan.
func (q *TableQuery) ExecuteFrom(ctx context.Context, src RowSource) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		if src == nil {
			yield(nil, &NotImplementedError{Feature: "table-bound execution without a row source"})
			return
		}
		for rec, err := range src.Scan(ctx, q.table) {
			if err != nil {
				yield(nil, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			row, err := q.project(rec)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (q *TableQuery) project(rec Record) (Row, error) {
	row := make(Row, len(q.columns))
	for i, col := range q.columns {
		v, err := evalRecord(col.Expr, q.table, rec)
		if err != nil {
			return nil, &ValidationError{Column: i + 1, Pos: col.Expr.Pos(), Message: err.Error()}
		}
		row[i] = v
	}
	return row, nil
}
