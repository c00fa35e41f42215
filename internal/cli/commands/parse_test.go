package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/doric/internal/cli/testutil"
	"github.com/leapstack-labs/doric/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSON(t *testing.T) {
	testutil.SetupProject(t, "output: json\n")

	res := testutil.RunCommand(t, NewParseCommand(), "", "-e", "SELECT 1 AS one, t.c, 'x' FROM t")
	require.NoError(t, res.Err)

	var views []statementView
	require.NoError(t, json.Unmarshal([]byte(res.Out), &views))
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, "table", v.Kind)
	assert.Equal(t, "t", v.Table)
	assert.Equal(t, "SELECT 1 AS one, t.c, 'x' FROM t", v.SQL)
	assert.Equal(t, []columnView{
		{Name: "one", Alias: true, Expr: "1", Kind: "integer", Line: 1, Column: 8},
		{Name: "c", Alias: false, Expr: "t.c", Kind: "column", Line: 1, Column: 18},
		{Name: "column3", Alias: false, Expr: "'x'", Kind: "string", Line: 1, Column: 23},
	}, v.Columns)
}

func TestParse_Text(t *testing.T) {
	testutil.SetupProject(t, "output: text\n")

	res := testutil.RunCommand(t, NewParseCommand(), "SELECT a FROM t\nSELECT 2 AS two\n")
	require.NoError(t, res.Err)
	testutil.AssertNoANSI(t, res.Out)

	assert.Contains(t, res.Out, "Statement 1 (from t)")
	assert.Contains(t, res.Out, "Statement 2 (simple)")
	assert.Contains(t, res.Out, "two")
	assert.Contains(t, res.Out, "2:8")
}

func TestParse_File(t *testing.T) {
	dir := testutil.SetupProject(t, "output: yaml\n")
	path := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("select x.y as z\n  from x\n"), 0o600))

	res := testutil.RunCommand(t, NewParseCommand(), "", path)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "kind: table")
	assert.Contains(t, res.Out, "name: z")
}

func TestParse_Errors(t *testing.T) {
	testutil.SetupProject(t, "")

	res := testutil.RunCommand(t, NewParseCommand(), "", "-e", "SELECT 1,")
	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, res.Err, &syntaxErr)
	assert.Equal(t, 1, syntaxErr.Pos.Line)

	res = testutil.RunCommand(t, NewParseCommand(), "", "-e", "SELECT 1", "q.sql")
	assert.ErrorContains(t, res.Err, "together with --execute")

	res = testutil.RunCommand(t, NewParseCommand(), "", "missing.sql")
	assert.ErrorContains(t, res.Err, "failed to open input")
}

func TestPrintError_Snippet(t *testing.T) {
	_, err := parser.ParseOne("SELECT 1 AS")
	require.Error(t, err)

	tr := testutil.NewTestRendererMarkdown()
	PrintError(tr.Renderer, err)

	assert.Empty(t, tr.Output())
	assert.Contains(t, tr.ErrorOutput(), "Error: syntax error at line 1")
	assert.Contains(t, tr.ErrorOutput(), "  SELECT 1 AS\n")
	assert.Contains(t, tr.ErrorOutput(), "^")
}
