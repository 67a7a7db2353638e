// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes content digests of files inside snapshot
// views. A View is a read-only mapping from a volume-relative path to file
// bytes; the hash is a pure function of that content, so the algorithm can be
// swapped without touching reduction logic.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"

	"github.com/zdrctl/zdrctl/internal/config"
)

// DefaultAlgorithm is the fingerprint hash used when none is configured.
// xxh3 is a strong non-cryptographic hash and by far the cheaper choice for
// the multi-gigabyte files snapshots tend to hold.
const DefaultAlgorithm = "xxh3"

// View is one snapshot's read-only path-to-content mapping.
type View interface {
	Open(rel string) (io.ReadCloser, error)
}

// SnapshotView exposes a snapshot's files through the volume's hidden
// .zfs/snapshot directory. The same convention is used for both snapshots of
// a pair, so relative paths line up between the two sides.
type SnapshotView struct {
	Mountpoint string
	Label      string
}

// Open opens the file at rel (relative to the volume root) inside the
// snapshot view.
func (v SnapshotView) Open(rel string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(v.Mountpoint, ".zfs", "snapshot", v.Label, rel))
}

// Algorithm returns the configured hash algorithm ("hash" config key),
// falling back to DefaultAlgorithm.
func Algorithm() string {
	algo, _ := config.GetString("hash", DefaultAlgorithm)
	return algo
}

// New returns a streaming hasher for the given algorithm. Supported values
// are "xxh3" and "blake2b".
func New(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "", DefaultAlgorithm:
		return xxh3.New(), nil
	case "blake2b":
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("unsupported fingerprint algorithm: %s", algorithm)
	}
}

// File computes the hex fingerprint of rel inside view, returning the digest
// and the number of bytes read. Content is streamed through the hasher, never
// buffered whole, so file size is unbounded.
func File(view View, rel string, algorithm string) (string, int64, error) {
	h, err := New(algorithm)
	if err != nil {
		return "", 0, err
	}

	rc, err := view.Open(rel)
	if err != nil {
		return "", 0, err
	}
	defer rc.Close()

	n, err := io.Copy(h, rc)
	if err != nil {
		return "", n, fmt.Errorf("reading %s: %w", rel, err)
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}
