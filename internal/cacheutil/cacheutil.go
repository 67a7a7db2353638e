// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cacheutil is a small file-backed cache under the user cache dir.
// zdrctl uses it to memoize content fingerprints: a snapshot is immutable, so
// a fingerprint keyed by snapshot name and path never goes stale. Entries
// only become garbage when their snapshot is destroyed, hence the age-based
// Purge.
package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zdrctl/zdrctl/internal/log"
)

// Entry represents a cached artifact on disk.
type Entry struct {
	Key  string
	Path string
	Data []byte
}

// Dir resolves the base cache directory.
// Precedence:
//  1. ZDRCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/zdrctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("ZDRCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "zdrctl"), true
	}
	return "", false
}

// Enabled returns true unless ZDRCTL_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("ZDRCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// entryPath resolves the on-disk location of a key, or "" when the cache is
// disabled or unresolvable.
func entryPath(subdirs []string, clearKey string) string {
	if !Enabled() {
		return ""
	}
	base, ok := Dir()
	if !ok {
		return ""
	}
	parts := append([]string{base}, subdirs...)
	parts = append(parts, encodeKey(clearKey))
	return filepath.Join(parts...)
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("created cache dir: path=%s", base)
	return base, true, nil
}

// Purge removes files older than the provided number of hours. Snapshots get
// destroyed by retention eventually; their fingerprints should not outlive
// them forever. If hours <= 0 or the cache dir cannot be resolved, it is a
// no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// The file may have disappeared between listing and visiting.
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d == nil || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if time.Since(info.ModTime()) <= maxAge {
			return nil
		}

		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
		} else {
			log.Debugf("removed cache file %s", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read attempts to read a cached entry. Stored fingerprints may carry a
// trailing newline from manual inspection or editing, so content is trimmed.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	p := entryPath(subdirs, clearKey)
	if p == "" {
		return nil, false
	}

	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}

	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:  clearKey,
		Path: p,
		Data: bytes.TrimSpace(b),
	}, true
}

// Write stores data for the given key beneath subdirs. Creates directories as
// needed. A disabled or unresolvable cache is a silent no-op; fingerprinting
// still works, it just recomputes every time.
func Write(subdirs []string, clearKey string, data []byte) error {
	p := entryPath(subdirs, clearKey)
	if p == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// encodeKey hashes the clear-text key into a filename-safe digest.
func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
