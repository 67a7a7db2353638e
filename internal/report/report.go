// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package report renders the final change record sequence as an operator
// readable text file. It owns file naming, writing, and ownership
// assignment; everything upstream of it only deals in records.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/zdrctl/zdrctl/internal/log"
	"github.com/zdrctl/zdrctl/internal/record"
	"github.com/zdrctl/zdrctl/internal/snaputil"
	"github.com/zdrctl/zdrctl/internal/util"
)

// DefaultSuffix is appended to generated report file names.
const DefaultSuffix = "_zdrReport.txt"

// Report is one volume's assembled diff report.
type Report struct {
	Volume   string
	Pair     snaputil.Pair
	Records  []record.Record
	Warnings []string

	// Reduced indicates the reduction pass ran; BytesRead is the content it
	// streamed while fingerprinting.
	Reduced   bool
	BytesRead int64

	// MalformedLines counts diff lines the parser had to drop.
	MalformedLines int
}

// FileName builds the report file name from the volume and the two snapshot
// labels, e.g. "tank_home_zas_w-1-zas_w-2_zdrReport.txt".
func (r *Report) FileName(suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	volume := strings.ReplaceAll(r.Volume, "/", "_")
	return volume + "_" + r.Pair.Older.Label + "-" + r.Pair.Newer.Label + suffix
}

// Render writes the report text: the surviving diff lines verbatim, then a
// summary trailer and any warnings so operators notice degraded confidence.
func (r *Report) Render(w io.Writer) error {
	for _, rec := range r.Records {
		if _, err := fmt.Fprintln(w, rec.Raw); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, r.summary()); err != nil {
		return err
	}

	for _, warning := range r.Warnings {
		if _, err := fmt.Fprintf(w, "# warning: %s\n", warning); err != nil {
			return err
		}
	}
	if r.MalformedLines > 0 {
		if _, err := fmt.Fprintf(w, "# warning: %d malformed diff lines dropped\n", r.MalformedLines); err != nil {
			return err
		}
	}

	return nil
}

// Write renders the report into dir under its generated name and assigns
// ownership when owner ("user:group") is non-empty. Returns the full path of
// the written file.
func (r *Report) Write(dir, suffix, owner string) (string, error) {
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, r.FileName(suffix))
	log.Infof("Writing to %s", path)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := r.Render(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report: %w", err)
	}

	if owner != "" {
		uid, gid, err := util.ParseOwner(owner)
		if err != nil {
			return "", err
		}
		if err := os.Chown(path, uid, gid); err != nil {
			return "", fmt.Errorf("failed to chown report: %w", err)
		}
	}

	return path, nil
}

// summary is the one-line trailer describing what the report holds.
func (r *Report) summary() string {
	counts := make(map[record.Kind]int)
	for _, rec := range r.Records {
		counts[rec.Kind]++
	}

	s := fmt.Sprintf("# %s changes between %s and %s (%d added, %d removed, %d modified, %d renamed)",
		humanize.Comma(int64(len(r.Records))),
		r.Pair.Older.Name(), r.Pair.Newer.Name(),
		counts[record.Added], counts[record.Removed], counts[record.Modified], counts[record.Renamed])

	if r.Reduced {
		s += fmt.Sprintf(", reduced after fingerprinting %s", humanize.IBytes(uint64(r.BytesRead)))
	}

	return s
}
