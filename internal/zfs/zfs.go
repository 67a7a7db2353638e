// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package zfs

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/zdrctl/zdrctl/internal/log"
)

// Runner abstracts the external zfs binary. ListSnapshots yields one raw
// line per snapshot in creation order ("name<TAB>creation-epoch"; the epoch
// column may be absent). Diff streams raw output lines to fn as they arrive
// rather than buffering the whole change set; very large diffs are a
// realistic occurrence.
type Runner interface {
	ListSnapshots(ctx context.Context, volume string) ([]string, error)
	Diff(ctx context.Context, older, newer string, fn func(line string) error) error
	Mountpoint(ctx context.Context, volume string) (string, error)
	Properties(ctx context.Context, name string) (map[string]string, error)
}

// Snapshot is a read-only view of one existing snapshot. Ordinal is the
// snapshot's position in creation order; snapshots are immutable and
// externally created, zdrctl only ever reads them.
type Snapshot struct {
	Volume  string
	Label   string
	Ordinal int
	Created time.Time
}

// Name returns the fully qualified snapshot name, e.g. "tank/home@zas_w-1".
func (s Snapshot) Name() string {
	return s.Volume + "@" + s.Label
}

// Catalog lists the snapshots of volume, oldest first, assigning ordinals in
// creation order. Listing failures are fatal for the volume and surface as a
// *CatalogError; the caller is expected to continue with its next volume.
func Catalog(ctx context.Context, r Runner, volume string) ([]Snapshot, error) {
	log.Infof("Get snapshot list for %s", volume)

	names, err := r.ListSnapshots(ctx, volume)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(names))
	for _, line := range names {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, creation, _ := strings.Cut(line, "\t")
		vol, label, ok := strings.Cut(name, "@")
		if !ok || vol == "" || label == "" {
			log.Warnf("skipping unrecognized snapshot name: %s", name)
			continue
		}

		var created time.Time
		if epoch, err := strconv.ParseInt(strings.TrimSpace(creation), 10, 64); err == nil {
			created = time.Unix(epoch, 0).UTC()
		}

		snapshots = append(snapshots, Snapshot{
			Volume:  vol,
			Label:   label,
			Ordinal: len(snapshots),
			Created: created,
		})
	}

	return snapshots, nil
}
