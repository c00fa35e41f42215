package engine

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/leapstack-labs/doric/internal/state"
	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/leapstack-labs/doric/pkg/format"
	"github.com/leapstack-labs/doric/pkg/parser"
)

// Result is the outcome of one executed statement.
type Result struct {
	// SQL is the canonical single-line rendering of the statement.
	SQL     string
	Query   core.Query
	Columns []string
	Rows    []core.Row
	// Truncated is set when MaxRows stopped the scan early.
	Truncated bool
	// Err is the execution error, if any. Rows gathered before the error
	// are kept.
	Err error
}

// Status classifies the result for the statement history.
func (r *Result) Status() state.Status {
	switch {
	case r.Err == nil:
		return state.StatusOK
	case errors.Is(r.Err, core.ErrNotImplemented):
		return state.StatusUnsupported
	default:
		return state.StatusFailed
	}
}

// Statements parses r and yields each statement as it completes.
func (e *Engine) Statements(r io.Reader) iter.Seq2[core.Query, error] {
	return func(yield func(core.Query, error) bool) {
		n := 0
		for q, err := range parser.New(r).Statements() {
			if err != nil {
				e.logger.Debug("parse failed", "statement", n+1, "error", err)
				yield(nil, err)
				return
			}
			n++
			e.logger.Debug("parsed statement", "statement", n, "columns", len(q.Columns()))
			if !yield(q, nil) {
				return
			}
		}
	}
}

// Execute runs q. Table-bound queries read from the configured row
// source; without one they yield a not-implemented error.
func (e *Engine) Execute(ctx context.Context, q core.Query) iter.Seq2[core.Row, error] {
	tq, ok := q.(*core.TableQuery)
	if !ok || e.srcConfig == nil {
		return q.Execute(ctx)
	}
	return func(yield func(core.Row, error) bool) {
		if err := e.ensureSourceConnected(ctx); err != nil {
			yield(nil, err)
			return
		}
		for row, err := range tq.ExecuteFrom(ctx, e.src) {
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Run parses r and executes every statement in order, handing each
// result to fn. A syntax or read error stops the run and is returned.
// Execution errors are reported through Result.Err and do not stop the
// run. If fn returns an error the run stops with it.
func (e *Engine) Run(ctx context.Context, r io.Reader, fn func(*Result) error) error {
	for q, err := range e.Statements(r) {
		if err != nil {
			return err
		}
		res := e.collect(ctx, q)
		e.record(ctx, res)
		if err := fn(res); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// collect executes q and gathers its rows, honouring MaxRows.
func (e *Engine) collect(ctx context.Context, q core.Query) *Result {
	res := &Result{
		SQL:     format.Inline(q),
		Query:   q,
		Columns: core.ResultNames(q),
	}
	for row, err := range e.Execute(ctx, q) {
		if err != nil {
			res.Err = err
			break
		}
		if e.maxRows > 0 && len(res.Rows) == e.maxRows {
			res.Truncated = true
			break
		}
		res.Rows = append(res.Rows, row)
	}

	if res.Err != nil {
		e.logger.Debug("statement failed", "sql", res.SQL, "error", res.Err)
	} else {
		e.logger.Debug("statement executed", "sql", res.SQL, "rows", len(res.Rows), "truncated", res.Truncated)
	}
	return res
}

// record writes res to the history. History failures are logged only.
func (e *Engine) record(ctx context.Context, res *Result) {
	if e.store == nil {
		return
	}

	stmt := &state.Statement{
		SQL:      res.SQL,
		Kind:     kindOf(res.Query),
		Status:   res.Status(),
		RowCount: int64(len(res.Rows)),
	}
	if res.Err != nil {
		stmt.Error = res.Err.Error()
	}
	if err := e.store.RecordStatement(ctx, stmt); err != nil {
		e.logger.Warn("failed to record statement", "error", err)
	}
}

func kindOf(q core.Query) state.Kind {
	if _, ok := q.(*core.TableQuery); ok {
		return state.KindTable
	}
	return state.KindSimple
}
