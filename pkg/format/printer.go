// Package format renders parsed queries back to canonical SQL text.
package format

import (
	"strings"
)

// indent prefixes each select-list item in multi-line output.
const indent = "  "

// printer writes SQL either one clause per line or all on one line.
type printer struct {
	sb     strings.Builder
	inline bool
}

func newPrinter(inline bool) *printer {
	return &printer{inline: inline}
}

// String returns the rendered SQL. Multi-line output ends in a newline.
func (p *printer) String() string {
	if p.inline {
		return p.sb.String()
	}
	return p.sb.String() + "\n"
}

func (p *printer) write(s string) { p.sb.WriteString(s) }

func (p *printer) keyword(s string) { p.sb.WriteString(strings.ToUpper(s)) }

// line starts a new line, or separates with a space when inline.
// Multi-line output indents the new line by depth levels.
func (p *printer) line(depth int) {
	if p.inline {
		p.sb.WriteByte(' ')
		return
	}
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat(indent, depth))
}

// list writes n items separated by commas, one per line at depth.
func (p *printer) list(n, depth int, item func(i int)) {
	for i := range n {
		if i > 0 {
			p.sb.WriteByte(',')
		}
		p.line(depth)
		item(i)
	}
}
