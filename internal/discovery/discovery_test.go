package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
}

func TestDiscover_ReturnsOrderedMatches(t *testing.T) {
	// Given: files spread across partitions, created out of order
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "partition=2", "b.jsonl"))
	writeFile(t, filepath.Join(root, "partition=1", "z.jsonl"))
	writeFile(t, filepath.Join(root, "partition=1", "a.jsonl"))
	writeFile(t, filepath.Join(root, "partition=1", "notes.txt"))

	// When: discovering
	files, err := Discover(filepath.Join(root, "partition=*", "*.jsonl"))

	// Then: only jsonl files, in lexical order
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "partition=1", "a.jsonl"),
		filepath.Join(root, "partition=1", "z.jsonl"),
		filepath.Join(root, "partition=2", "b.jsonl"),
	}, files)
}

func TestDiscover_NoMatchesIsFatal(t *testing.T) {
	files, err := Discover(filepath.Join(t.TempDir(), "partition=*", "*.jsonl"))

	require.Error(t, err)
	assert.Nil(t, files)
	assert.Equal(t, perrors.ErrCodeNoInput, perrors.GetCode(err))
	assert.True(t, perrors.IsFatal(err))
}

func TestDiscover_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "partition=1", "dir.jsonl"), 0o755))

	_, err := Discover(filepath.Join(root, "partition=*", "*.jsonl"))

	assert.Equal(t, perrors.ErrCodeNoInput, perrors.GetCode(err))
}

func TestDiscover_BadPattern(t *testing.T) {
	_, err := Discover("[")

	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeConfigInvalid, perrors.GetCode(err))
}

func TestDiscover_SnapshotIgnoresLaterFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "partition=1", "a.jsonl"))

	files, err := Discover(filepath.Join(root, "partition=*", "*.jsonl"))
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "partition=1", "b.jsonl"))
	assert.Len(t, files, 1)
}
