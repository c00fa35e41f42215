package commands

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/leapstack-labs/doric/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_Text(t *testing.T) {
	testutil.SetupProject(t, "output: text\n")

	res := testutil.RunCommand(t, NewVersionCommand(BuildInfo{Version: "1.2.3", Commit: "abc123", BuildDate: "2026-01-02"}), "")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "doric v1.2.3")
	assert.Contains(t, res.Out, "commit abc123, built 2026-01-02")
	assert.Contains(t, res.Out, runtime.Version())
}

func TestVersion_JSON(t *testing.T) {
	testutil.SetupProject(t, "output: json\n")

	res := testutil.RunCommand(t, NewVersionCommand(BuildInfo{Version: "dev", Commit: "unknown", BuildDate: "unknown"}), "")
	require.NoError(t, res.Err)

	var got BuildInfo
	require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
	assert.Equal(t, "dev", got.Version)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, got.Platform)
}

func TestVersion_RejectsArgs(t *testing.T) {
	testutil.SetupProject(t, "")
	res := testutil.RunCommand(t, NewVersionCommand(BuildInfo{Version: "dev"}), "", "extra")
	assert.Error(t, res.Err)
}
