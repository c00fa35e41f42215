package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogRecorder(t *testing.T) {
	logger, rec := NewLogRecorder(t)

	logger.Debug("parsed", "columns", 2)
	logger.With("component", "engine").Warn("slow", "ms", 120)
	logger.Info("done")

	assert.Equal(t, []string{"parsed", "slow", "done"}, rec.Messages(slog.LevelDebug))
	assert.Equal(t, []string{"slow"}, rec.Messages(slog.LevelWarn))

	v, ok := rec.Attr("parsed", "columns")
	assert.True(t, ok)
	assert.EqualValues(t, 2, v.Int64())

	_, ok = rec.Attr("parsed", "missing")
	assert.False(t, ok)
	_, ok = rec.Attr("nothing", "columns")
	assert.False(t, ok)
}
