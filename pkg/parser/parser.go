// Package parser turns SQL SELECT statements into core.Query values.
//
// # Usage
//
//	p := parser.New(strings.NewReader("SELECT 1, 'a' AS s"))
//	for q, err := range p.Statements() {
//	    if err != nil {
//	        // handle error
//	    }
//	    // use q
//	}
//
// Input is read one physical line at a time, so a statement may span any
// number of lines, and "--" comments may appear wherever whitespace is
// allowed.
//
// # Grammar Overview
//
//	statement   → SELECT select_list [FROM ident]
//	select_list → column (',' column)*
//	column      → expr [AS ident]
//	expr        → INTEGER | STRING | ident ['.' ident]
//	STRING      → "'" (any char except quote | "''")* "'"
//	comment     → '--' any chars to end of line
//
// A statement without FROM ends at the end of the input. A syntax error
// aborts the whole stream: no statement after it is parsed.
package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/leapstack-labs/doric/pkg/token"
)

// Parser reads a stream of SELECT statements.
type Parser struct {
	lex *Lexer
	err error // latched: io.EOF or the error that aborted the stream
}

// New creates a parser reading from r.
func New(r io.Reader) *Parser {
	return &Parser{lex: NewLexer(r)}
}

// Next parses the next statement. It returns io.EOF once the input is
// exhausted. After a syntax or read error every call returns that error.
func (p *Parser) Next() (core.Query, error) {
	if p.err != nil {
		return nil, p.err
	}
	q, err := p.parseStatement()
	if err != nil {
		p.err = err
		return nil, err
	}
	return q, nil
}

// Statements returns the statements of the stream as a lazy sequence. The
// sequence ends after the first error.
func (p *Parser) Statements() iter.Seq2[core.Query, error] {
	return func(yield func(core.Query, error) bool) {
		for {
			q, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(q, nil) {
				return
			}
		}
	}
}

// Parse parses every statement in r. Nothing is returned unless the whole
// stream parses.
func Parse(r io.Reader) ([]core.Query, error) {
	var queries []core.Query
	for q, err := range New(r).Statements() {
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// ParseString parses every statement in sql.
func ParseString(sql string) ([]core.Query, error) {
	return Parse(strings.NewReader(sql))
}

// ParseOne parses sql, which must hold exactly one statement.
func ParseOne(sql string) (core.Query, error) {
	queries, err := ParseString(sql)
	if err != nil {
		return nil, err
	}
	switch len(queries) {
	case 0:
		return nil, errors.New(ErrNoStatement)
	case 1:
		return queries[0], nil
	default:
		return nil, errors.New(ErrMultipleStatements)
	}
}

// ---------- Statement ----------

// parseStatement parses one statement, or returns io.EOF when only
// whitespace and comments remain.
func (p *Parser) parseStatement() (core.Query, error) {
	if err := p.lex.SkipSpacesMultiLine(); err != nil {
		return nil, err
	}
	if p.lex.Exhausted() {
		return nil, io.EOF
	}
	if !p.lex.MatchKeyword(KeywordSelect) {
		return nil, p.unexpected(KeywordSelect)
	}
	return p.parseSelect()
}

// ---------- Error Helpers ----------

func (p *Parser) errorAt(pos token.Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pos:     pos,
		Text:    p.lex.LineText(),
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) errorf(format string, args ...any) *SyntaxError {
	return p.errorAt(p.lex.Pos(), format, args...)
}

func (p *Parser) unexpected(expected string) *SyntaxError {
	return p.errorf(ErrUnexpectedToken, p.lex.peekWord(), expected)
}
