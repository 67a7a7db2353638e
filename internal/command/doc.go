// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command wires up the zdrctl subcommands. dq generates the diff
// report between two snapshots of each given volume, sq queries a volume's
// snapshot catalog, and pq queries or diffs snapshot properties. Each
// command is built by its own builder func and carries shared runtime
// metadata in cmd.Metadata.
package command
