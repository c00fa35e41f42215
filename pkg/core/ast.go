package core

import "github.com/leapstack-labs/doric/pkg/token"

// Expr is a projected expression. The set of variants is closed: Constant
// and Variable.
type Expr interface {
	// Pos returns the position of the first character of the expression.
	Pos() token.Position
	exprNode() // Marker method to distinguish expressions
}

// QueryColumn pairs an expression with its result name.
type QueryColumn struct {
	Name string // empty when the result has no name
	Expr Expr
}

// HasName reports whether the column carries a result name.
func (c QueryColumn) HasName() bool { return c.Name != "" }
