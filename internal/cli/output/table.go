package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Tabular is a result set with ordered columns. It marshals to JSON and
// YAML as a list of objects whose keys keep the column order.
type Tabular struct {
	Columns []string
	Rows    [][]any
}

func (t *Tabular) cell(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t *Tabular) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(t.cell(row, j))
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (t *Tabular) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for j, col := range t.Columns {
			var val yaml.Node
			if err := val.Encode(t.cell(row, j)); err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&val)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq, nil
}

// Table writes t in the effective mode. Text and markdown output end with
// a row count.
func (r *Renderer) Table(t *Tabular) error {
	mode := r.EffectiveMode()
	switch mode {
	case ModeJSON:
		return r.JSON(t)
	case ModeYAML:
		return r.YAML(t)
	}

	tw := table.NewWriter()
	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		cells := make(table.Row, len(t.Columns))
		for i := range t.Columns {
			cells[i] = formatCell(t.cell(row, i))
		}
		tw.AppendRow(cells)
	}

	switch mode {
	case ModeCSV:
		r.Println(tw.RenderCSV())
		return nil
	case ModeMarkdown:
		r.Println(tw.RenderMarkdown())
	default:
		tw.SetStyle(table.StyleLight)
		r.Println(tw.Render())
	}
	r.Muted(rowCount(len(t.Rows)))
	return nil
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
