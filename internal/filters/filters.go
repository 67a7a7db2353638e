// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"strings"

	"github.com/zdrctl/zdrctl/internal/config"
	"github.com/zdrctl/zdrctl/internal/log"
	"github.com/zdrctl/zdrctl/internal/record"
)

// BuildExcludes merges the repeatable --exclude flag values with the
// "excludes" config key into one deduplicated exclude set. Order of first
// appearance is preserved; empty entries are discarded.
func BuildExcludes(flagValues []string) []string {
	cfgValues, _ := config.GetStringSlice("excludes", nil)

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var excludes []string
	seen := make(map[string]bool)
	for _, v := range append(append([]string{}, flagValues...), cfgValues...) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		excludes = append(excludes, v)
	}

	return excludes
}

// Apply returns the records minus any whose Path (or OldPath, when present)
// contains any exclude substring. It is a pure, order-preserving filter and
// an empty exclude set is a no-op.
func Apply(records []record.Record, excludes []string) []record.Record {
	if len(excludes) == 0 {
		return records
	}

	for _, e := range excludes {
		log.Infof("Applying exclude '%s'", e)
	}

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var kept []record.Record
	for _, r := range records {
		if excluded(r, excludes) {
			log.Debugf("excluded: %s", r.Path)
			continue
		}
		kept = append(kept, r)
	}

	return kept
}

// excluded reports whether any exclude substring hits either of the record's
// paths.
func excluded(r record.Record, excludes []string) bool {
	for _, e := range excludes {
		if strings.Contains(r.Path, e) {
			return true
		}
		if r.OldPath != "" && strings.Contains(r.OldPath, e) {
			return true
		}
	}
	return false
}
