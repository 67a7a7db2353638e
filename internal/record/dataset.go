// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import "encoding/json"

// datasetRow is the flat JSON shape records take when handed to the output
// package.
type datasetRow struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	OldPath string `json:"old_path,omitempty"`
	Dir     bool   `json:"dir"`
	Raw     string `json:"raw"`
}

// Dataset marshals records into the JSON array consumed by
// output.SliceDiceSpit.
func Dataset(records []Record) ([]byte, error) {
	rows := make([]datasetRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, datasetRow{
			Kind:    r.Kind.String(),
			Path:    r.Path,
			OldPath: r.OldPath,
			Dir:     r.IsDir,
			Raw:     r.Raw,
		})
	}
	return json.Marshal(rows)
}
