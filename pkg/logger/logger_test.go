package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Info("booking=%d created", 1)
	log.Warn("booking=%d overbooked", 2)
	log.Error("order=%d refund failed", 3)

	out := buf.String()
	assert.NotContains(t, out, "booking=1 created")
	assert.Contains(t, out, "booking=2 overbooked")
	assert.Contains(t, out, "order=3 refund failed")
	assert.Contains(t, out, "level=ERROR")
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, "unknown").Debug("hidden")
	NewWriter(&buf, "DEBUG").Debug("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_CreatesLogDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(file, "info")
	require.NoError(t, err)
	log.Info("started")
	require.NoError(t, log.Close())

	assert.FileExists(t, file)
}
