package format

import (
	"strings"

	"github.com/leapstack-labs/doric/pkg/core"
)

// Format renders q as canonical multi-line SQL ending in a newline:
//
//	SELECT
//	  x.y AS z,
//	  2
//	FROM t
//
// Keywords are upper case, string literals are single-quoted with embedded
// quotes doubled, and AS is written only when the result name differs from
// the default one. Parsing the output yields a query with the same columns.
func Format(q core.Query) string {
	p := newPrinter(false)
	p.formatQuery(q)
	return p.String()
}

// Inline renders q as canonical SQL on a single line.
func Inline(q core.Query) string {
	p := newPrinter(true)
	p.formatQuery(q)
	return p.String()
}

// Script renders a sequence of queries as one parseable script. Queries
// without FROM end only at the end of the input, so such a query is only
// valid as the last one; Script reports false when that does not hold.
func Script(queries []core.Query) (string, bool) {
	var sb strings.Builder
	for i, q := range queries {
		if _, ok := q.(*core.SimpleQuery); ok && i < len(queries)-1 {
			return "", false
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(Format(q))
	}
	return sb.String(), true
}

func (p *printer) formatQuery(q core.Query) {
	cols := q.Columns()

	p.keyword("select")
	p.list(len(cols), 1, func(i int) { p.formatColumn(cols[i]) })

	if tq, ok := q.(*core.TableQuery); ok {
		p.line(0)
		p.keyword("from")
		p.write(" " + tq.Table())
	}
}

func (p *printer) formatColumn(col core.QueryColumn) {
	p.formatExpr(col.Expr)
	if col.HasName() && col.Name != defaultName(col.Expr) {
		p.write(" ")
		p.keyword("as")
		p.write(" " + col.Name)
	}
}

func (p *printer) formatExpr(e core.Expr) {
	switch expr := e.(type) {
	case *core.Constant:
		p.write(expr.String())
	case *core.Variable:
		p.write(expr.String())
	}
}

// defaultName is the result name the parser assigns when no AS is given.
func defaultName(e core.Expr) string {
	if v, ok := e.(*core.Variable); ok {
		return v.Column
	}
	return ""
}
