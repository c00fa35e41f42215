package commands

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/doric/internal/cli/testutil"
	"github.com/leapstack-labs/doric/internal/engine"
	"github.com/leapstack-labs/doric/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersConfig = `
output: markdown
source:
  type: sqlite
  path: shop.db
history:
  path: ":memory:"
`

// setupOrders creates a project whose sqlite source holds an orders table.
func setupOrders(t *testing.T, cfg string) string {
	t.Helper()
	dir := testutil.SetupProject(t, cfg)
	testutil.SeedSQLite(t, filepath.Join(dir, "shop.db"),
		"CREATE TABLE orders (id INTEGER, customer TEXT, amount REAL)",
		"INSERT INTO orders VALUES (1, 'alice', 10.5), (2, 'bob', NULL), (3, 'carol', 7)",
	)
	return dir
}

func TestExec_SimpleQuery(t *testing.T) {
	testutil.SetupProject(t, "output: markdown\nhistory:\n  enabled: false\n")

	res := testutil.RunCommand(t, NewExecCommand(), "", "-e", "SELECT 42 AS answer, 'hi'")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "## SELECT 42 AS answer, 'hi'")
	assert.Contains(t, res.Out, "answer")
	assert.Contains(t, res.Out, "column2")
	assert.Contains(t, res.Out, "42")
	assert.Contains(t, res.Out, "(1 row)")
}

func TestExec_TableQueryWithoutSource(t *testing.T) {
	testutil.SetupProject(t, "history:\n  enabled: false\n")

	res := testutil.RunCommand(t, NewExecCommand(), "", "-e", "SELECT a FROM t")
	assert.ErrorContains(t, res.Err, "1 of 1 statements failed")
	assert.Contains(t, res.ErrOut, "not implemented")
}

func TestExec_AgainstSource(t *testing.T) {
	setupOrders(t, ordersConfig)

	res := testutil.RunCommand(t, NewExecCommand(), "", "-e", "SELECT customer AS who, orders.amount FROM orders")
	require.NoError(t, res.Err)
	for _, want := range []string{"who", "amount", "alice", "bob", "carol", "NULL", "(3 rows)"} {
		assert.Contains(t, res.Out, want)
	}
}

func TestExec_Limit(t *testing.T) {
	setupOrders(t, ordersConfig)

	res := testutil.RunCommand(t, NewExecCommand(), "", "--limit", "2", "-e", "SELECT id FROM orders")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "(2 rows)")
	assert.Contains(t, res.ErrOut, "output truncated to 2 rows")

	res = testutil.RunCommand(t, NewExecCommand(), "", "--limit", "-1", "-e", "SELECT 1")
	assert.ErrorContains(t, res.Err, "must not be negative")
}

func TestExec_JSON(t *testing.T) {
	testutil.SetupProject(t, "output: json\nhistory:\n  enabled: false\n")
	res := testutil.RunCommand(t, NewExecCommand(), "", "-e", "SELECT a FROM t SELECT 'done' AS status")
	assert.ErrorContains(t, res.Err, "1 of 2 statements failed")

	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "unsupported", views[0]["status"])
	assert.NotEmpty(t, views[0]["error"])
	assert.Equal(t, "ok", views[1]["status"])
	assert.Equal(t, []any{map[string]any{"status": "done"}}, views[1]["rows"])
}

func TestExec_MissingColumnContinues(t *testing.T) {
	setupOrders(t, ordersConfig)

	res := testutil.RunCommand(t, NewExecCommand(), "", "-e", "SELECT nope FROM orders SELECT 1 AS after")
	assert.ErrorContains(t, res.Err, "1 of 2 statements failed")
	assert.Contains(t, res.Out, "## SELECT 1 AS after")
	assert.Contains(t, res.ErrOut, "Error:")
}

func TestExec_SyntaxErrorStops(t *testing.T) {
	testutil.SetupProject(t, "output: csv\nhistory:\n  enabled: false\n")

	res := testutil.RunCommand(t, NewExecCommand(), "SELECT a AS b FROM t\nSELECT 1 AS\n")
	assert.ErrorContains(t, res.Err, "syntax error at line 2")
}

func TestExec_WatchRequiresFile(t *testing.T) {
	testutil.SetupProject(t, "")
	res := testutil.RunCommand(t, NewExecCommand(), "", "--watch", "-e", "SELECT 1")
	assert.ErrorContains(t, res.Err, "--watch requires a file argument")
}

func TestRenderResult_Text(t *testing.T) {
	tr := testutil.NewTestRendererText()
	res := &engine.Result{
		SQL:       "SELECT 1 AS one",
		Columns:   []string{"one"},
		Rows:      []core.Row{{core.IntValue(1)}},
		Truncated: true,
	}

	require.NoError(t, renderResult(tr.Renderer, res, false))
	out := testutil.StripANSI(tr.Output())
	assert.Contains(t, out, "SELECT 1 AS one")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "(1 row")
	assert.Contains(t, testutil.StripANSI(tr.ErrorOutput()), "Warning: output truncated to 1 rows")
}

func TestRenderResult_PartialRowsThenError(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	res := &engine.Result{
		SQL:     "SELECT id FROM orders",
		Columns: []string{"id"},
		Rows:    []core.Row{{core.IntValue(1)}},
		Err:     errors.New("connection reset"),
	}

	require.NoError(t, renderResult(tr.Renderer, res, true))
	assert.Contains(t, tr.Output(), "## SELECT id FROM orders")
	assert.Contains(t, tr.Output(), "| 1 |")
	assert.Contains(t, tr.ErrorOutput(), "Error: connection reset")
}
