// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memView is an in-memory snapshot view keyed by volume-relative path.
type memView map[string]string

func (v memView) Open(rel string) (io.ReadCloser, error) {
	content, ok := v[rel]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestFile_Deterministic(t *testing.T) {
	view := memView{"etc/config.ini": "some file content"}

	fp1, n1, err := File(view, "etc/config.ini", DefaultAlgorithm)
	require.NoError(t, err)

	fp2, n2, err := File(view, "etc/config.ini", DefaultAlgorithm)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Equal(t, int64(len("some file content")), n1)
	assert.Equal(t, n1, n2)
}

func TestFile_ContentSensitive(t *testing.T) {
	view := memView{
		"a.txt": "content one",
		"b.txt": "content two",
	}

	fpA, _, err := File(view, "a.txt", DefaultAlgorithm)
	require.NoError(t, err)

	fpB, _, err := File(view, "b.txt", DefaultAlgorithm)
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

func TestFile_Blake2b(t *testing.T) {
	view := memView{"a.txt": "content"}

	fp, _, err := File(view, "a.txt", "blake2b")
	require.NoError(t, err)

	// blake2b-256 hex is 64 characters; xxh3 is 16.
	assert.Len(t, fp, 64)

	fpDefault, _, err := File(view, "a.txt", DefaultAlgorithm)
	require.NoError(t, err)
	assert.NotEqual(t, fp, fpDefault)
}

func TestFile_UnsupportedAlgorithm(t *testing.T) {
	_, _, err := File(memView{}, "a.txt", "md5")

	assert.ErrorContains(t, err, "unsupported fingerprint algorithm")
}

func TestFile_MissingFile(t *testing.T) {
	_, n, err := File(memView{}, "nope.txt", DefaultAlgorithm)

	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestNew_EmptyDefaultsToXxh3(t *testing.T) {
	h, err := New("")
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestSnapshotView_Open(t *testing.T) {
	// Lay out a fake .zfs/snapshot tree and read through the view.
	mountpoint := t.TempDir()
	snapDir := filepath.Join(mountpoint, ".zfs", "snapshot", "zas_w-1", "etc")
	require.NoError(t, os.MkdirAll(snapDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(snapDir, "config.ini"), []byte("frozen"), 0o600))

	view := SnapshotView{Mountpoint: mountpoint, Label: "zas_w-1"}

	rc, err := view.Open("etc/config.ini")
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "frozen", string(content))

	_, err = view.Open("etc/missing.ini")
	assert.Error(t, err)
}
