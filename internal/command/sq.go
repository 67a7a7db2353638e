// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/config"
	"github.com/zdrctl/zdrctl/internal/log"
	"github.com/zdrctl/zdrctl/internal/meta"
	"github.com/zdrctl/zdrctl/internal/output"
	"github.com/zdrctl/zdrctl/internal/zfs"
)

// sqRow is one snapshot of the catalog, flattened for output.
type sqRow struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Ordinal int    `json:"ordinal"`
	Created string `json:"created"`
}

// sqCommandAction is the action handler for the "sq" subcommand. It lists
// the snapshot catalog for each volume in creation order, optionally
// narrowed by --snapkey, and emits results per common flags.
func sqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "sq"

	volumes := cmd.Args().Slice()
	if len(volumes) == 0 {
		return fmt.Errorf("at least one volume is required e.g. 'tank/home'")
	}

	runner := NewRunner(cmd)
	keywords := cmd.StringSlice("snapkey")

	rows := []sqRow{}
	for _, volume := range volumes {
		catalog, err := zfs.Catalog(ctx, runner, volume)
		if err != nil {
			return err
		}

		for _, s := range catalog {
			if !labelMatches(s.Label, keywords) {
				continue
			}

			created := ""
			if !s.Created.IsZero() {
				created = s.Created.UTC().Format(time.RFC3339)
			}

			rows = append(rows, sqRow{
				Name:    s.Name(),
				Label:   s.Label,
				Ordinal: s.Ordinal,
				Created: created,
			})
		}
	}

	doc, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	al := BuildAttrs(cmd, "name", "ordinal", "created")
	log.Debugf("attrs: %v", al)

	output.SliceDiceSpit(*bytes.NewBuffer(doc), al, cmd, os.Stdout, nil)

	return nil
}

// labelMatches reports whether label contains any of the keywords. No
// keywords means every snapshot matches.
func labelMatches(label string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, k := range keywords {
		if strings.Contains(label, k) {
			return true
		}
	}
	return false
}

// sqCommandBuilder constructs the cli.Command for "sq", wiring metadata,
// flags, and action/validator handlers.
func sqCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "sq",
		Usage:     "snapshot query, list the catalog for a volume",
		UsageText: "zdrctl sq VOLUME [VOLUME...] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			snapkeyFlag,
			NewZfsFlag("sq"),
		}, NewGlobalFlags("sq")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: sqCommandAction,
	}
}
