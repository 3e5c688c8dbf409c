package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromString(tt.in))
		})
	}
}

func TestNew_WritesJSONToStderr(t *testing.T) {
	// Given: a logger writing to a buffer at warn level
	var buf bytes.Buffer
	logger, cleanup, err := New(Config{Level: "warn", Stderr: &buf})
	require.NoError(t, err)
	defer cleanup()

	// When: logging below and at the level
	logger.Info("ignored")
	logger.Warn("line_skipped", slog.Int("line", 3))

	// Then: only the warning is written, as JSON
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "line_skipped", rec["msg"])
	assert.Equal(t, float64(3), rec["line"])
	assert.Equal(t, "pulse", rec["app"])
}

func TestNew_WritesFileAndStderr(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "pulse.log")
	logger, cleanup, err := New(Config{Level: "info", FilePath: path, Stderr: &buf})
	require.NoError(t, err)

	logger.Info("indexing_started")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "indexing_started")
	assert.Contains(t, buf.String(), "indexing_started")
}

func TestNew_NoOutputs(t *testing.T) {
	logger, cleanup, err := New(Config{})
	require.NoError(t, err)
	defer cleanup()

	assert.NotPanics(t, func() { logger.Info("dropped") })
}

func TestSetup_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	cleanup, err := Setup(Config{Level: "debug", Stderr: &buf})
	require.NoError(t, err)
	defer cleanup()

	slog.Debug("from_default")
	assert.Contains(t, buf.String(), "from_default")
}

func TestRotatingWriter_Rotates(t *testing.T) {
	// Given: a writer with a 1MB limit keeping two old files
	path := filepath.Join(t.TempDir(), "pulse.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	chunk := bytes.Repeat([]byte("x"), 600*1024)

	// When: writing four chunks, each pair crossing the limit
	for i := 0; i < 4; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: the current file and two rotated files exist, no third
	for _, p := range []string{path, path + ".1", path + ".2"} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Equal(t, int64(len(chunk)), info.Size(), p)
	}
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestRotatingWriter_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w, err := NewRotatingWriter(path, 1, 1)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "pulse.log"), 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("x"))
	assert.Error(t, err)
}
