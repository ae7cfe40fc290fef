package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithLevel(&buf, "warn")

	l.Info("[cleaner] dropped %d columns", 3)
	l.Debug("noise")
	assert.Empty(t, buf.String())

	l.Warn("[outliers] removed %d rows", 7)
	assert.Contains(t, buf.String(), "[outliers] removed 7 rows")
}

func TestLoggerWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithLevel(&buf, "debug").With("run-id", "abc123")

	l.Debug("starting")
	assert.Contains(t, buf.String(), "starting")
	assert.Contains(t, buf.String(), "abc123")
}
