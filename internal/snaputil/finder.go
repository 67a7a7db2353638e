// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snaputil

import (
	"fmt"
	"strings"

	"github.com/zdrctl/zdrctl/internal/zfs"
)

// Pair is the ordered pair of snapshots selected for comparison. Older's
// ordinal strictly precedes Newer's.
type Pair struct {
	Older zfs.Snapshot
	Newer zfs.Snapshot
}

// InsufficientSnapshotsError means fewer snapshots matched the selection
// criteria than a diff needs. Keywords is echoed back so the operator can
// adjust snapshot retention or the keywords themselves.
type InsufficientSnapshotsError struct {
	Volume   string
	Keywords []string
	Need     int
	Have     int
}

func (e *InsufficientSnapshotsError) Error() string {
	msg := fmt.Sprintf("%s: need %d matching snapshots, have %d", e.Volume, e.Need, e.Have)
	if len(e.Keywords) > 0 {
		msg += fmt.Sprintf(" (keywords: %s)", strings.Join(e.Keywords, ", "))
	}
	return msg
}

// DegenerateSnapshotPairError means both keywords resolved to the same
// snapshot, leaving nothing to diff.
type DegenerateSnapshotPairError struct {
	Snapshot zfs.Snapshot
	Keywords []string
}

func (e *DegenerateSnapshotPairError) Error() string {
	return fmt.Sprintf("keywords %s both select snapshot %s, nothing to diff",
		strings.Join(e.Keywords, " and "), e.Snapshot.Name())
}

// Resolve takes a volume's catalog (oldest first) plus zero, one, or two
// keywords and returns the pair of snapshots to diff.
//
// Zero keywords selects the two most recent snapshots overall. One keyword
// selects the two most recent snapshots whose label contains it. Two keywords
// independently select the most recent match of each; the resulting pair is
// ordered by ordinal regardless of which keyword produced which snapshot.
func Resolve(catalog []zfs.Snapshot, keywords ...string) (Pair, error) {
	switch len(keywords) {
	case 0:
		return resolveRecent(catalog, nil)
	case 1:
		return resolveRecent(match(catalog, keywords[0]), keywords)
	case 2:
		return resolveKeywordPair(catalog, keywords)
	default:
		return Pair{}, fmt.Errorf("at most two snapshot keywords are supported, got %d", len(keywords))
	}
}

// resolveRecent picks the last two snapshots of an already-filtered catalog.
func resolveRecent(matches []zfs.Snapshot, keywords []string) (Pair, error) {
	if len(matches) < 2 {
		return Pair{}, &InsufficientSnapshotsError{
			Volume:   volumeOf(matches),
			Keywords: keywords,
			Need:     2,
			Have:     len(matches),
		}
	}
	return Pair{
		Older: matches[len(matches)-2],
		Newer: matches[len(matches)-1],
	}, nil
}

// resolveKeywordPair picks the most recent match of each keyword
// independently and orders the result by ordinal.
func resolveKeywordPair(catalog []zfs.Snapshot, keywords []string) (Pair, error) {
	var picked [2]zfs.Snapshot
	for i, keyword := range keywords {
		matches := match(catalog, keyword)
		if len(matches) == 0 {
			return Pair{}, &InsufficientSnapshotsError{
				Volume:   volumeOf(catalog),
				Keywords: []string{keyword},
				Need:     1,
				Have:     0,
			}
		}
		picked[i] = matches[len(matches)-1]
	}

	if picked[0].Ordinal == picked[1].Ordinal {
		return Pair{}, &DegenerateSnapshotPairError{Snapshot: picked[0], Keywords: keywords}
	}

	if picked[0].Ordinal > picked[1].Ordinal {
		picked[0], picked[1] = picked[1], picked[0]
	}
	return Pair{Older: picked[0], Newer: picked[1]}, nil
}

// match filters the catalog down to snapshots whose label contains keyword.
// Order is preserved, so the last match is the most recent.
func match(catalog []zfs.Snapshot, keyword string) []zfs.Snapshot {
	if keyword == "" {
		return catalog
	}
	var matches []zfs.Snapshot
	for _, s := range catalog {
		if strings.Contains(s.Label, keyword) {
			matches = append(matches, s)
		}
	}
	return matches
}

func volumeOf(snapshots []zfs.Snapshot) string {
	if len(snapshots) == 0 {
		return ""
	}
	return snapshots[0].Volume
}
