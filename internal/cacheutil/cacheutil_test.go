// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCache points the cache at a fresh temp dir and enables it.
func setupCache(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("ZDRCTL_CACHE_DIR", tmpDir)
	t.Setenv("ZDRCTL_CACHE", "1")
	return tmpDir
}

// ageFile backdates a file so Purge sees it as stale.
func ageFile(t *testing.T, path string, age time.Duration) {
	t.Helper()
	past := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, past, past))
}

func TestDir_EnvOverride(t *testing.T) {
	customDir := t.TempDir()
	t.Setenv("ZDRCTL_CACHE_DIR", customDir)

	result, ok := Dir()

	assert.True(t, ok)
	assert.Equal(t, customDir, result)
}

func TestDir_EmptyEnvFallsBack(t *testing.T) {
	t.Setenv("ZDRCTL_CACHE_DIR", "")

	result, ok := Dir()

	// Result depends on the system, but a resolved base must be absolute.
	if ok {
		assert.NotEmpty(t, result)
		assert.True(t, filepath.IsAbs(result))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("ZDRCTL_CACHE", tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

func TestEnsureBaseDir_CachingDisabled(t *testing.T) {
	t.Setenv("ZDRCTL_CACHE", "0")

	base, ok, err := EnsureBaseDir()

	assert.False(t, ok)
	assert.Empty(t, base)
	assert.NoError(t, err)
}

func TestEnsureBaseDir_CreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache", "nested")
	t.Setenv("ZDRCTL_CACHE_DIR", cacheDir)
	t.Setenv("ZDRCTL_CACHE", "1")
	assert.NoFileExists(t, cacheDir)

	base, ok, err := EnsureBaseDir()

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cacheDir, base)
	assert.DirExists(t, cacheDir)
}

func TestRead_CachingDisabled(t *testing.T) {
	t.Setenv("ZDRCTL_CACHE", "0")

	entry, found := Read([]string{"fingerprints"}, "key")

	assert.False(t, found)
	assert.Nil(t, entry)
}

func TestRead_Miss(t *testing.T) {
	setupCache(t)

	entry, found := Read([]string{"fingerprints"}, "nonexistent-key")

	assert.False(t, found)
	assert.Nil(t, entry)
}

func TestRead_Hit(t *testing.T) {
	tmpDir := setupCache(t)

	subdir := filepath.Join(tmpDir, "fingerprints")
	require.NoError(t, os.MkdirAll(subdir, 0o755))

	testData := []byte("deadbeefdeadbeef")
	testKey := "tank/home@zas_w-1\x00some/file\x00xxh3"
	filePath := filepath.Join(subdir, encodeKey(testKey))
	require.NoError(t, os.WriteFile(filePath, testData, 0o600))

	entry, found := Read([]string{"fingerprints"}, testKey)

	require.True(t, found)
	assert.Equal(t, testKey, entry.Key)
	assert.Equal(t, filePath, entry.Path)
	assert.Equal(t, testData, entry.Data)
}

func TestRead_TrimsWhitespace(t *testing.T) {
	tmpDir := setupCache(t)

	subdir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(subdir, 0o755))

	testKey := "key-with-whitespace"
	filePath := filepath.Join(subdir, encodeKey(testKey))
	require.NoError(t, os.WriteFile(filePath, []byte("  \n  cached content  \n  "), 0o600))

	entry, found := Read([]string{"data"}, testKey)

	require.True(t, found)
	assert.Equal(t, []byte("cached content"), entry.Data)
}

func TestWrite_CachingDisabled(t *testing.T) {
	t.Setenv("ZDRCTL_CACHE", "0")

	assert.NoError(t, Write([]string{"fingerprints"}, "key", []byte("data")))
}

func TestWrite_CreatesDirectories(t *testing.T) {
	tmpDir := setupCache(t)

	subdir := filepath.Join(tmpDir, "level1", "level2", "level3")
	assert.NoFileExists(t, subdir)

	require.NoError(t, Write([]string{"level1", "level2", "level3"}, "key", []byte("data")))
	assert.DirExists(t, subdir)
}

func TestWrite_RoundTrip(t *testing.T) {
	setupCache(t)

	testKey := "test-write-key"
	testData := []byte("test write data content")
	require.NoError(t, Write([]string{"fingerprints"}, testKey, testData))

	entry, found := Read([]string{"fingerprints"}, testKey)
	require.True(t, found)
	assert.Equal(t, testData, entry.Data)
}

func TestWrite_FilePermissions(t *testing.T) {
	tmpDir := setupCache(t)

	testKey := "perm-test-key"
	require.NoError(t, Write([]string{}, testKey, []byte("permission test data")))

	info, err := os.Stat(filepath.Join(tmpDir, encodeKey(testKey)))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWrite_OverwritesExisting(t *testing.T) {
	setupCache(t)

	testKey := "overwrite-key"
	require.NoError(t, Write([]string{}, testKey, []byte("old data")))
	require.NoError(t, Write([]string{}, testKey, []byte("new data")))

	entry, found := Read([]string{}, testKey)
	require.True(t, found)
	assert.Equal(t, []byte("new data"), entry.Data)
}

func TestPurge_ZeroHoursIsNoop(t *testing.T) {
	tmpDir := setupCache(t)

	oldPath := filepath.Join(tmpDir, "old_file.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("data"), 0o600))
	ageFile(t, oldPath, 100*time.Hour)

	assert.NoError(t, Purge(0))
	assert.FileExists(t, oldPath)
}

func TestPurge_RemovesOldKeepsRecent(t *testing.T) {
	tmpDir := setupCache(t)

	oldPath := filepath.Join(tmpDir, "old_file.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("old data"), 0o600))
	ageFile(t, oldPath, 3*time.Hour)

	recentPath := filepath.Join(tmpDir, "recent_file.txt")
	require.NoError(t, os.WriteFile(recentPath, []byte("recent data"), 0o600))

	assert.NoError(t, Purge(1))
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, recentPath)
}

func TestPurge_NestedDirectories(t *testing.T) {
	tmpDir := setupCache(t)

	nestedDir := filepath.Join(tmpDir, "fingerprints", "level2")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	oldPath := filepath.Join(nestedDir, "old.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o600))
	ageFile(t, oldPath, 3*time.Hour)

	assert.NoError(t, Purge(1))
	assert.NoFileExists(t, oldPath)
	assert.DirExists(t, nestedDir)
}

func TestEncodeKey(t *testing.T) {
	// Fingerprint cache keys carry NUL separators, slashes and arbitrary
	// bytes; all of them must land in a stable filename-safe digest.
	tests := []struct {
		name string
		key  string
	}{
		{"plain", "consistent-key"},
		{"spaces", "key with spaces"},
		{"slashes", "tank/home@zas_w-1"},
		{"nul separators", "tank/home@zas_w-1\x00path/to/file\x00xxh3"},
		{"newlines", "key\nwith\nnewlines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := encodeKey(tt.key)
			assert.Equal(t, encoded, encodeKey(tt.key))
			assert.Len(t, encoded, 64)
			for _, c := range encoded {
				assert.True(t,
					(c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'),
					"invalid hex character: %c", c,
				)
			}
		})
	}
}

func TestEncodeKey_DifferentKeys(t *testing.T) {
	assert.NotEqual(t, encodeKey("key-one"), encodeKey("key-two"))
}
