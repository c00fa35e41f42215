package core

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/doric/pkg/token"
)

// ---------- Expression Types ----------

// Constant is a literal value: an integer or a string.
type Constant struct {
	Value Value
	Start token.Position
}

func (*Constant) exprNode() {}

// Pos implements Expr.
func (c *Constant) Pos() token.Position { return c.Start }

func (c *Constant) String() string {
	if s, ok := c.Value.Str(); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return c.Value.String()
}

// Variable references a column, optionally qualified by a table name.
type Variable struct {
	Table  string // optional table qualifier
	Column string
	Start  token.Position
}

func (*Variable) exprNode() {}

// Pos implements Expr.
func (v *Variable) Pos() token.Position { return v.Start }

// Qualified reports whether the reference carries a table qualifier.
func (v *Variable) Qualified() bool { return v.Table != "" }

func (v *Variable) String() string {
	if v.Table != "" {
		return v.Table + "." + v.Column
	}
	return v.Column
}

// evalRecord evaluates e against a source record read from table.
func evalRecord(e Expr, table string, rec Record) (Value, error) {
	switch expr := e.(type) {
	case *Constant:
		return expr.Value, nil
	case *Variable:
		if expr.Table != "" && !strings.EqualFold(expr.Table, table) {
			return Value{}, fmt.Errorf("unknown table or alias %q", expr.Table)
		}
		v, ok := rec.Get(expr.Column)
		if !ok {
			return Value{}, fmt.Errorf("unknown column %q in table %q", expr.Column, table)
		}
		return v, nil
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", e)
	}
}
