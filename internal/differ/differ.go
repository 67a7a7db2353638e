// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/zdrctl/zdrctl/internal/log"
)

// Diff renders the property delta between the two snapshots of a pair. Keys
// named by the diff_filter flag are dropped from both sides first; properties
// like creation and guid differ between any two snapshots and would drown out
// the interesting changes.
func Diff(cmd *cli.Command, w io.Writer, olderProps, newerProps map[string]string) error {
	log.Debugf(">> differ()")

	filter := cmd.String("diff_filter")
	for key := range strings.SplitSeq(filter, ",") {
		if key != "" {
			delete(olderProps, key)
			delete(newerProps, key)
		}
	}

	older, err := json.Marshal(olderProps)
	if err != nil {
		return fmt.Errorf("failed to marshal properties: %w", err)
	}
	newer, err := json.Marshal(newerProps)
	if err != nil {
		return fmt.Errorf("failed to marshal properties: %w", err)
	}

	differ := gojsondiff.New()

	delta, err := differ.Compare(older, newer)
	if err != nil {
		return fmt.Errorf("failed to compare properties: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The snapshot properties are identical.")
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(older, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal properties: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       cmd.Bool("color"),
	}

	formatter := formatter.NewAsciiFormatter(jdoc, config)
	diffString, err := formatter.Format(delta)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, diffString)
	return nil
}
