// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/config"
	"github.com/zdrctl/zdrctl/internal/differ"
	"github.com/zdrctl/zdrctl/internal/log"
	"github.com/zdrctl/zdrctl/internal/meta"
	"github.com/zdrctl/zdrctl/internal/output"
)

// pqRow is one property of a snapshot or volume, flattened for output.
type pqRow struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// pqCommandAction is the action handler for the "pq" subcommand. It lists
// the properties of a dataset or snapshot, or with --diff renders the
// property delta between the selected snapshot pair of a volume.
func pqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "pq"

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("exactly one volume or snapshot is required e.g. 'tank/home'")
	}
	name := cmd.Args().First()

	runner := NewRunner(cmd)

	// Short circuit --diff mode.
	if cmd.Bool("diff") {
		if strings.Contains(name, "@") {
			return fmt.Errorf("--diff takes a volume, not a snapshot name")
		}

		pair, err := SelectPair(ctx, cmd, runner, name)
		if err != nil {
			return err
		}

		olderProps, err := runner.Properties(ctx, pair.Older.Name())
		if err != nil {
			return err
		}
		newerProps, err := runner.Properties(ctx, pair.Newer.Name())
		if err != nil {
			return err
		}

		return differ.Diff(cmd, os.Stdout, olderProps, newerProps)
	}

	props, err := runner.Properties(ctx, name)
	if err != nil {
		return err
	}

	// Map order is not stable; emit properties alphabetically.
	rows := make([]pqRow, 0, len(props))
	for property, value := range props {
		rows = append(rows, pqRow{Property: property, Value: value})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Property < rows[j].Property })

	doc, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal properties: %w", err)
	}

	al := BuildAttrs(cmd, "property", "value")
	log.Debugf("attrs: %v", al)

	output.SliceDiceSpit(*bytes.NewBuffer(doc), al, cmd, os.Stdout, nil)

	return nil
}

// pqCommandBuilder constructs the cli.Command for "pq", wiring metadata,
// flags, and action/validator handlers.
func pqCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "pq",
		Usage:     "property query",
		UsageText: "zdrctl pq VOLUME|SNAPSHOT [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "find property differences between two snapshots",
				Value: false,
			},
			&cli.StringFlag{
				Name:   "diff_filter",
				Hidden: true,
				Value:  "creation,createtxg,guid,objsetid,used,written,referenced,logicalreferenced",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "pick the snapshot pair interactively",
				Value: false,
			},
			snapkeyFlag,
			NewZfsFlag("pq"),
		}, NewGlobalFlags("pq")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: pqCommandAction,
	}
}
