// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package reduce collapses false-positive noise out of a change record
// sequence: files that were deleted and recreated with identical content
// between the two snapshots, and parent-directory entries whose only change
// is a child's creation, deletion, or rename already visible in the record
// set. Reduction reads file content from both snapshot views, which is why it
// is strictly opt-in.
package reduce

import (
	"fmt"
	"path"
	"strings"

	"github.com/zdrctl/zdrctl/internal/cacheutil"
	"github.com/zdrctl/zdrctl/internal/fingerprint"
	"github.com/zdrctl/zdrctl/internal/log"
	"github.com/zdrctl/zdrctl/internal/record"
)

// Side is one snapshot's view plus the identity used for cache keys.
type Side struct {
	Name string
	View fingerprint.View
}

// Options configures a reduction pass.
type Options struct {
	Older Side
	Newer Side

	// Mountpoint is the absolute prefix zfs diff puts in front of every
	// path; stripping it yields the volume-relative path the views expect.
	Mountpoint string

	// Algorithm selects the fingerprint hash. Empty means the default.
	Algorithm string

	// Cache memoizes fingerprints on disk keyed by snapshot name and path.
	// Safe because snapshots are immutable once created.
	Cache bool
}

// Result is the outcome of a reduction pass.
type Result struct {
	Records []record.Record
	// Warnings describe files that could not be fingerprinted. Those records
	// are retained; over-reporting beats silently hiding a genuine change.
	Warnings []string
	// BytesRead is the total content streamed while fingerprinting.
	BytesRead int64
}

// AmbiguousPairError means a path appeared more than once as Removed or more
// than once as Added. zfs diff leaves the pairing of repeated type flips
// undefined, so reduction aborts for the volume rather than guessing.
type AmbiguousPairError struct {
	Path string
}

func (e *AmbiguousPairError) Error() string {
	return fmt.Sprintf("ambiguous delete/create pairing for %s, refusing to reduce", e.Path)
}

// Reduce applies both collapse passes and returns the surviving records in
// their original order. The input slice is not modified.
func Reduce(records []record.Record, opts Options) (Result, error) {
	var res Result

	dropped, err := collapsePairs(records, opts, &res)
	if err != nil {
		return Result{}, err
	}

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var survivors []record.Record
	for i, r := range records {
		if dropped[i] {
			continue
		}
		survivors = append(survivors, r)
	}

	res.Records = collapseDirs(survivors)
	return res, nil
}

// collapsePairs finds every (Removed p, Added p) pair and marks both records
// dropped when the file's content fingerprint is identical in the two
// snapshot views. Differing or uncomputable fingerprints keep both records.
func collapsePairs(records []record.Record, opts Options, res *Result) (map[int]bool, error) {
	removed := make(map[string][]int)
	added := make(map[string][]int)
	for i, r := range records {
		switch r.Kind {
		case record.Removed:
			removed[r.Path] = append(removed[r.Path], i)
		case record.Added:
			added[r.Path] = append(added[r.Path], i)
		}
	}

	dropped := make(map[int]bool)
	for p, removedIdx := range removed {
		addedIdx, ok := added[p]
		if !ok {
			continue
		}

		// The diff primitive's pairing of repeated type flips is undefined.
		if len(removedIdx) > 1 || len(addedIdx) > 1 {
			return nil, &AmbiguousPairError{Path: p}
		}

		// Directories round-trip too (rmdir/mkdir); there is no content to
		// compare, so leave them alone.
		if records[removedIdx[0]].IsDir || records[addedIdx[0]].IsDir {
			continue
		}

		rel := relPath(p, opts.Mountpoint)

		olderFp, err := fingerprintFile(opts.Older, rel, opts, res)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("cannot fingerprint %s in %s: %v", p, opts.Older.Name, err))
			continue
		}
		newerFp, err := fingerprintFile(opts.Newer, rel, opts, res)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("cannot fingerprint %s in %s: %v", p, opts.Newer.Name, err))
			continue
		}

		if olderFp != newerFp {
			log.Debugf("content differs, keeping pair: %s", p)
			continue
		}

		log.Debugf("identical round-trip, dropping pair: %s", p)
		dropped[removedIdx[0]] = true
		dropped[addedIdx[0]] = true
	}

	return dropped, nil
}

// collapseDirs drops each Modified directory record that is explained by a
// surviving add, delete, or rename directly inside it. A Modified directory
// with no such child evidence is retained: it signals a permission, owner,
// or attribute change with no visible content cause. Evidence never includes
// other Modified records, so dropping one directory cannot change the verdict
// for another and the pass is idempotent.
func collapseDirs(records []record.Record) []record.Record {
	childChange := make(map[string]bool)
	for _, r := range records {
		switch r.Kind {
		case record.Added, record.Removed:
			childChange[path.Dir(r.Path)] = true
		case record.Renamed:
			childChange[path.Dir(r.Path)] = true
			childChange[path.Dir(r.OldPath)] = true
		}
	}

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var kept []record.Record
	for _, r := range records {
		if r.Kind == record.Modified && r.IsDir && childChange[r.Path] {
			log.Debugf("child churn explains directory, dropping: %s", r.Path)
			continue
		}
		kept = append(kept, r)
	}

	return kept
}

// fingerprintFile computes (or recalls) one side's fingerprint for rel.
func fingerprintFile(side Side, rel string, opts Options, res *Result) (string, error) {
	algo := opts.Algorithm
	if algo == "" {
		algo = fingerprint.DefaultAlgorithm
	}

	cacheKey := side.Name + "\x00" + rel + "\x00" + algo
	if opts.Cache {
		if entry, ok := cacheutil.Read([]string{"fingerprints"}, cacheKey); ok {
			return string(entry.Data), nil
		}
	}

	fp, n, err := fingerprint.File(side.View, rel, algo)
	res.BytesRead += n
	if err != nil {
		return "", err
	}

	if opts.Cache {
		if err := cacheutil.Write([]string{"fingerprints"}, cacheKey, []byte(fp)); err != nil {
			log.WithError(err).Warnf("failed to cache fingerprint for %s", rel)
		}
	}

	return fp, nil
}

// relPath strips the volume mountpoint prefix so the path can be resolved
// inside a snapshot view.
func relPath(p, mountpoint string) string {
	if mountpoint == "" || mountpoint == "/" {
		return strings.TrimPrefix(p, "/")
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, mountpoint), "/")
}
