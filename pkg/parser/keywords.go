package parser

// Keywords recognised by the parser. Matching ignores ASCII case.
const (
	KeywordSelect = "SELECT"
	KeywordAs     = "AS"
	KeywordFrom   = "FROM"
)

// unsupportedClauses are keywords that may follow a FROM table name in
// general SQL but have no meaning here. They get a dedicated error message
// instead of the generic one raised by the statement loop.
var unsupportedClauses = []string{
	"WHERE", "JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "NATURAL",
	"GROUP", "HAVING", "ORDER", "LIMIT", "OFFSET", "UNION", "INTERSECT", "EXCEPT",
}
