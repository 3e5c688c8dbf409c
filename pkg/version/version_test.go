package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_NamesProgramAndPlatform(t *testing.T) {
	str := String()

	assert.Contains(t, str, "pulse "+Version)
	assert.Contains(t, str, runtime.Version())
	assert.Contains(t, str, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestShort_ReturnsVersion(t *testing.T) {
	assert.Equal(t, Version, Short())
	assert.NotEmpty(t, Short())
}

func TestGetInfo_LinkTimeValuesWin(t *testing.T) {
	// Given: commit and date injected at link time
	oldCommit, oldDate := Commit, Date
	t.Cleanup(func() { Commit, Date = oldCommit, oldDate })
	Commit, Date = "abc1234", "2026-01-02T03:04:05Z"

	// When: reading build info
	info := GetInfo()

	// Then: the injected values are reported unchanged
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.Date)
}

func TestGetInfo_NeverEmpty(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Date)
}

func TestGetInfo_IsJSONSerializable(t *testing.T) {
	// Given: the build info
	info := GetInfo()

	// When: serializing it
	data, err := json.Marshal(info)
	require.NoError(t, err)

	// Then: the platform keys are present
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, runtime.GOOS, decoded["os"])
	assert.Equal(t, runtime.GOARCH, decoded["arch"])
	assert.Equal(t, Version, decoded["version"])
}

func TestShortRevision(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortRevision("0123456789abcdef0123"))
	assert.Equal(t, "abc", shortRevision("abc"))
}
