package core

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/doric/pkg/token"
)

var (
	// ErrNoColumns is returned when a query is built without projected columns.
	ErrNoColumns = errors.New("query has no columns")
	// ErrNotImplemented marks an outcome the engine does not support yet.
	// It is never used to signal an empty result.
	ErrNotImplemented = errors.New("not implemented")
)

// ValidationError reports a column that cannot be evaluated.
type ValidationError struct {
	Column  int // 1-based column number in the projection list
	Pos     token.Position
	Message string
}

func (e *ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("invalid column %d at line %d, column %d: %s", e.Column, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("invalid column %d: %s", e.Column, e.Message)
}

// NotImplementedError reports a feature that is recognised but cannot run.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Feature, ErrNotImplemented)
}

// Unwrap lets errors.Is match ErrNotImplemented.
func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }
