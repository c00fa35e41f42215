package parser

import (
	"strings"

	"github.com/leapstack-labs/doric/pkg/core"
)

// FROM clause parsing.
//
// Grammar:
//
//	from_clause → FROM identifier
//
// The table name closes the statement. Clauses that usually follow a table
// reference (joins, filters, grouping, ordering, set operations) are
// reported as unsupported rather than as a generic syntax error.

// parseFrom parses the table reference after FROM; the keyword has been
// consumed.
func (p *Parser) parseFrom(columns []core.QueryColumn) (core.Query, error) {
	if err := p.lex.SkipSpacesMultiLine(); err != nil {
		return nil, err
	}
	if !p.lex.MatchName() {
		return nil, p.unexpected("table name after " + KeywordFrom)
	}
	table := p.lex.Result()

	if err := p.lex.SkipSpacesMultiLine(); err != nil {
		return nil, err
	}
	if kw, ok := p.peekUnsupportedClause(); ok {
		return nil, p.errorf(ErrUnsupportedClause, kw)
	}

	return core.NewTableQuery(table, columns)
}

// peekUnsupportedClause reports which unsupported clause keyword, if any,
// sits at the scan position.
func (p *Parser) peekUnsupportedClause() (string, bool) {
	if p.lex.Exhausted() {
		return "", false
	}
	for _, kw := range unsupportedClauses {
		if p.lex.PeekKeyword(kw) {
			return strings.ToUpper(kw), true
		}
	}
	return "", false
}
