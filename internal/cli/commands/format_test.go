package commands

import (
	"testing"

	"github.com/leapstack-labs/doric/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{
			name:  "script",
			stdin: "select a as a, t.b from t\nselect 'it''s' as s\n",
			want:  "SELECT\n  a,\n  t.b\nFROM t\n\nSELECT\n  'it''s' AS s\n",
		},
		{
			name: "inline",
			args: []string{"--inline", "-e", "select x from y select 1 as one"},
			want: "SELECT x FROM y\nSELECT 1 AS one\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.SetupProject(t, "")
			res := testutil.RunCommand(t, NewFormatCommand(), tt.stdin, tt.args...)
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.Out)
		})
	}
}
