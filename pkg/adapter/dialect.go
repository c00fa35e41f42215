package adapter

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/doric/pkg/textcursor"
)

// Dialect captures the few SQL differences between databases that the
// adapters care about.
type Dialect struct {
	Name          string
	DefaultSchema string // schema used when the config names none; may be empty
	Numbered      bool   // placeholders are $1, $2, ... instead of ?
}

// FormatPlaceholder returns the bind placeholder for the n-th argument (1-based).
func (d Dialect) FormatPlaceholder(n int) string {
	if d.Numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// reservedWords are quoted even when they are otherwise plain identifiers.
var reservedWords = map[string]bool{
	"user": true, "order": true, "group": true, "table": true,
	"select": true, "from": true, "where": true, "index": true,
	"as": true, "join": true, "limit": true, "offset": true,
}

// QuoteIdent returns name ready to embed in SQL. Plain lower or mixed case
// identifiers are left bare so the database applies its own case folding;
// anything else is double-quoted with embedded quotes doubled.
func QuoteIdent(name string) string {
	if isPlainIdent(name) && !reservedWords[strings.ToLower(name)] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPlainIdent(name string) bool {
	c := textcursor.New(name)
	return c.MatchName(textcursor.IsNameStart, textcursor.IsNameContinuation) && c.AtEnd()
}

// ParseQualifiedName splits a table reference into schema and name. The
// default schema is used when the reference is not qualified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, table
}
