package commands

import (
	"errors"

	"github.com/leapstack-labs/doric/internal/cli/output"
	"github.com/leapstack-labs/doric/pkg/parser"
)

// PrintError writes err through r. Syntax errors also show the offending
// line with a caret under the failing column.
func PrintError(r *output.Renderer, err error) {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		r.ErrorDetail(err, syntaxErr.Snippet())
		return
	}
	r.Error(err)
}
