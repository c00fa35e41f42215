package parser

import (
	"strings"

	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/leapstack-labs/doric/pkg/token"
)

// parseSelect parses the projection list following SELECT.
//
//	select_list → column (',' column)*
//
// The list ends at the end of the input (a SimpleQuery) or at FROM.
func (p *Parser) parseSelect() (core.Query, error) {
	var columns []core.QueryColumn

	for {
		if err := p.lex.SkipSpacesMultiLine(); err != nil {
			return nil, err
		}

		col, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)

		switch {
		case p.lex.Exhausted():
			return core.NewSimpleQuery(columns)
		case p.lex.MatchKeyword(KeywordFrom):
			return p.parseFrom(columns)
		case !p.lex.MatchChar(','):
			return nil, p.unexpected("',' or " + KeywordFrom)
		}
	}
}

// parseColumn parses one projected column and the whitespace after it.
//
//	column → expr [AS ident]
func (p *Parser) parseColumn() (core.QueryColumn, error) {
	expr, name, err := p.parseExpr()
	if err != nil {
		return core.QueryColumn{}, err
	}
	if err := p.lex.SkipSpacesMultiLine(); err != nil {
		return core.QueryColumn{}, err
	}

	if p.lex.MatchKeyword(KeywordAs) {
		if err := p.lex.SkipSpacesMultiLine(); err != nil {
			return core.QueryColumn{}, err
		}
		if !p.lex.MatchName() {
			return core.QueryColumn{}, p.unexpected("column alias after " + KeywordAs)
		}
		name = p.lex.Result()
		if err := p.lex.SkipSpacesMultiLine(); err != nil {
			return core.QueryColumn{}, err
		}
	}

	return core.QueryColumn{Name: name, Expr: expr}, nil
}

// parseExpr parses a projected expression and returns it with its default
// result name (the column name for a column reference, empty otherwise).
//
//	expr → INTEGER | STRING | ident ['.' ident]
func (p *Parser) parseExpr() (core.Expr, string, error) {
	pos := p.lex.Pos()

	switch {
	case p.lex.MatchDecimal():
		n, err := p.lex.ResultInt()
		if err != nil {
			return nil, "", p.errorAt(pos, ErrIntegerOutOfRange, p.lex.Result())
		}
		return &core.Constant{Value: core.IntValue(n), Start: pos}, "", nil

	case p.lex.MatchChar('\''):
		s, err := p.parseStringLiteral()
		if err != nil {
			return nil, "", err
		}
		return &core.Constant{Value: core.StringValue(s), Start: pos}, "", nil

	case p.lex.MatchName():
		return p.parseColumnRef(pos)

	default:
		return nil, "", p.unexpected("expression")
	}
}

// parseStringLiteral reads the body of a quoted string; the opening quote
// has been consumed. A doubled quote stands for one quote character. The
// literal must close on the line it starts on.
func (p *Parser) parseStringLiteral() (string, error) {
	var sb strings.Builder
	for {
		if p.lex.MatchChar('\'') {
			if !p.lex.MatchChar('\'') {
				return sb.String(), nil
			}
			sb.WriteByte('\'')
			continue
		}
		c, ok := p.lex.NextChar()
		if !ok {
			return "", p.errorf(ErrUnterminatedString)
		}
		sb.WriteByte(c)
	}
}

// parseColumnRef parses a column reference; the first identifier has been
// consumed. When it is followed by '.', it names the table and a second
// identifier names the column.
func (p *Parser) parseColumnRef(pos token.Position) (core.Expr, string, error) {
	table, column := "", p.lex.Result()

	if err := p.lex.SkipSpacesMultiLine(); err != nil {
		return nil, "", err
	}
	if p.lex.MatchChar('.') {
		table = column
		if err := p.lex.SkipSpacesMultiLine(); err != nil {
			return nil, "", err
		}
		if !p.lex.MatchName() {
			return nil, "", p.unexpected("column name after \"" + table + ".\"")
		}
		column = p.lex.Result()
	}

	return &core.Variable{Table: table, Column: column, Start: pos}, column, nil
}
