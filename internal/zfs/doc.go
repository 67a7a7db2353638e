// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package zfs wraps the external zfs binary behind the Runner capability so
// the rest of the program can be tested against canned output. It covers the
// four primitives zdrctl needs: listing snapshots of a volume in creation
// order, streaming the diff between two snapshots, resolving a volume's
// mountpoint, and reading dataset properties.
package zfs
