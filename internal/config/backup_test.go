package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupFile_Missing(t *testing.T) {
	path, err := BackupFile(filepath.Join(t.TempDir(), ".pulse.yaml"))

	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestBackupFile_CopiesContent(t *testing.T) {
	// Given: an existing config file
	path := filepath.Join(t.TempDir(), ".pulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  root: a\n"), 0644))

	// When: backing it up
	backup, err := BackupFile(path)

	// Then: the backup holds the same bytes
	require.NoError(t, err)
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "index:\n  root: a\n", string(data))
}

func TestBackupFile_KeepsNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	for i := 0; i < MaxBackups+2; i++ {
		_, err := BackupFile(path)
		require.NoError(t, err)
	}

	backups, err := ListBackups(path)
	require.NoError(t, err)
	assert.Len(t, backups, MaxBackups)
}
