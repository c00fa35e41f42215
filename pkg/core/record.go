package core

import (
	"context"
	"iter"
	"strings"
)

// Row is one output row; values appear in projection order.
type Row []Value

// Record is one row produced by a row source, with its column names.
type Record struct {
	Columns []string
	Values  []Value
}

// Index returns the position of the named column, or -1. An exact match wins
// over an ASCII case-insensitive one.
func (r Record) Index(name string) int {
	fold := -1
	for i, col := range r.Columns {
		if col == name {
			return i
		}
		if fold < 0 && strings.EqualFold(col, name) {
			fold = i
		}
	}
	return fold
}

// Get returns the value of the named column.
func (r Record) Get(name string) (Value, bool) {
	i := r.Index(name)
	if i < 0 || i >= len(r.Values) {
		return Value{}, false
	}
	return r.Values[i], true
}

// RowSource supplies the rows of a named table. It stands in for the
// table, join, filter, group and order pipeline that feeds a TableQuery.
// Implementations must be lazy: a record is produced only when pulled.
type RowSource interface {
	Scan(ctx context.Context, table string) iter.Seq2[Record, error]
}
