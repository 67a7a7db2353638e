// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/cacheutil"
	"github.com/zdrctl/zdrctl/internal/config"
	"github.com/zdrctl/zdrctl/internal/filters"
	"github.com/zdrctl/zdrctl/internal/fingerprint"
	"github.com/zdrctl/zdrctl/internal/log"
	"github.com/zdrctl/zdrctl/internal/meta"
	"github.com/zdrctl/zdrctl/internal/output"
	"github.com/zdrctl/zdrctl/internal/record"
	"github.com/zdrctl/zdrctl/internal/reduce"
	"github.com/zdrctl/zdrctl/internal/report"
	"github.com/zdrctl/zdrctl/internal/zfs"
)

// dqCommandAction is the action handler for the "dq" subcommand. It processes
// each volume in the order given, fully isolating failures: one bad volume is
// logged and counted but never blocks reporting for the volumes after it.
func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "dq"

	volumes := cmd.Args().Slice()
	if len(volumes) == 0 {
		return fmt.Errorf("at least one volume is required e.g. 'tank/home'")
	}

	runner := NewRunner(cmd)

	var failed []string
	for _, volume := range volumes {
		if err := diffVolume(ctx, cmd, runner, volume); err != nil {
			log.WithError(err).Errorf("volume %s failed", volume)
			failed = append(failed, volume)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d volumes failed: %s",
			len(failed), len(volumes), strings.Join(failed, ", "))
	}
	return nil
}

// diffVolume runs the full pipeline for one volume: catalog, pair selection,
// diff, parse, exclude filter, optional reduction, then report assembly.
func diffVolume(ctx context.Context, cmd *cli.Command, runner zfs.Runner, volume string) error {
	pair, err := SelectPair(ctx, cmd, runner, volume)
	if err != nil {
		return err
	}

	// Parse while streaming; malformed lines are dropped with a warning
	// because partial data beats aborting the whole report.
	var records []record.Record
	malformed := 0
	err = runner.Diff(ctx, pair.Older.Name(), pair.Newer.Name(), func(line string) error {
		rec, parseErr := record.Parse(line)
		if parseErr != nil {
			log.Warnf("%v", parseErr)
			malformed++
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return err
	}

	records = filters.Apply(records, filters.BuildExcludes(cmd.StringSlice("exclude")))

	rpt := &report.Report{
		Volume:         volume,
		Pair:           pair,
		Records:        records,
		MalformedLines: malformed,
	}

	if cmd.Bool("reduce") {
		mountpoint, err := runner.Mountpoint(ctx, volume)
		if err != nil {
			return err
		}

		res, err := reduce.Reduce(records, reduce.Options{
			Older: reduce.Side{
				Name: pair.Older.Name(),
				View: fingerprint.SnapshotView{Mountpoint: mountpoint, Label: pair.Older.Label},
			},
			Newer: reduce.Side{
				Name: pair.Newer.Name(),
				View: fingerprint.SnapshotView{Mountpoint: mountpoint, Label: pair.Newer.Label},
			},
			Mountpoint: mountpoint,
			Algorithm:  fingerprint.Algorithm(),
			Cache:      cmd.Bool("cache"),
		})
		if err != nil {
			return err
		}

		rpt.Records = res.Records
		rpt.Warnings = res.Warnings
		rpt.Reduced = true
		rpt.BytesRead = res.BytesRead
	}

	// Non-text output renders the record dataset to stdout instead of
	// assembling a report file.
	if format := cmd.String("output"); format != "text" {
		doc, err := record.Dataset(rpt.Records)
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		al := BuildAttrs(cmd, "kind", "path", "old_path", "dir")
		output.SliceDiceSpit(*bytes.NewBuffer(doc), al, cmd, os.Stdout, nil)
		return nil
	}

	if cmd.Bool("stdout") {
		return rpt.Render(os.Stdout)
	}

	path, err := rpt.Write(cmd.String("outdir"), cmd.String("suffix"), cmd.String("owner"))
	if err != nil {
		return err
	}
	log.Infof("Report for %s written to %s", volume, path)
	return nil
}

// dqCommandBuilder constructs the cli.Command for "dq", wiring metadata,
// flags, and action/validator handlers.
func dqCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "dq",
		Usage:     "diff query, report changes between two snapshots",
		UsageText: "zdrctl dq VOLUME [VOLUME...] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "memoize fingerprints in the user cache dir",
				Value: false,
			},
			excludeFlag,
			&cli.StringFlag{
				Name:  "outdir",
				Usage: "report file output directory",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("ZDRCTL_OUTDIR"),
				),
				Value: ".",
			},
			&cli.StringFlag{
				Name:    "owner",
				Aliases: []string{"p"},
				Usage:   "ownership for the report file e.g. 'user:group'",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "pick the snapshot pair interactively",
				Value: false,
			},
			&cli.BoolFlag{
				Name:    "reduce",
				Aliases: []string{"r"},
				Usage:   "drop delete/create pairs with matching checksums, and modified folder lines explained by them",
				Value:   false,
			},
			snapkeyFlag,
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "print the report instead of writing a file",
				Value: false,
			},
			&cli.StringFlag{
				Name:        "suffix",
				Usage:       "suffix for the report file",
				Value:       report.DefaultSuffix,
				HideDefault: true,
			},
			NewZfsFlag("dq"),
		}, NewGlobalFlags("dq")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("cache") {
				if _, ok, err := cacheutil.EnsureBaseDir(); err != nil {
					log.WithError(err).Warnf("fingerprint cache unavailable")
				} else if ok {
					// Fingerprints outlive their snapshots once retention
					// destroys them, so age out old entries first.
					hours, _ := config.GetInt("cache_purge_hours", 0)
					if err := cacheutil.Purge(hours); err != nil {
						log.WithError(err).Warnf("cache purge failed")
					}
				}
			}

			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: dqCommandAction,
	}
}
