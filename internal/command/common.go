// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/attrs"
	"github.com/zdrctl/zdrctl/internal/differ"
	"github.com/zdrctl/zdrctl/internal/meta"
	"github.com/zdrctl/zdrctl/internal/snaputil"
	"github.com/zdrctl/zdrctl/internal/zfs"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewRunner builds the zfs Runner for a command from its --zfs flag.
func NewRunner(cmd *cli.Command) zfs.Runner {
	return zfs.CLI{Binary: cmd.String("zfs")}
}

// SelectPair reads the volume's catalog and picks the snapshot pair to diff,
// either interactively (--pick) or by keyword resolution.
func SelectPair(ctx context.Context, cmd *cli.Command, runner zfs.Runner, volume string) (snaputil.Pair, error) {
	catalog, err := zfs.Catalog(ctx, runner, volume)
	if err != nil {
		return snaputil.Pair{}, err
	}

	if cmd.Bool("pick") {
		selected := differ.SelectSnapshots(catalog)
		if len(selected) != 2 {
			return snaputil.Pair{}, fmt.Errorf("no snapshot pair picked for %s", volume)
		}
		if selected[0].Ordinal > selected[1].Ordinal {
			selected[0], selected[1] = selected[1], selected[0]
		}
		return snaputil.Pair{Older: selected[0], Newer: selected[1]}, nil
	}

	return snaputil.Resolve(catalog, cmd.StringSlice("snapkey")...)
}
