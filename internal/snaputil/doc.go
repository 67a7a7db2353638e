// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snaputil picks the two snapshots to diff out of a volume's catalog.
// Given zero keywords it takes the two most recent snapshots, given one it
// takes the two most recent whose label contains the keyword, and given two
// it takes the most recent match of each keyword. Matching is case-sensitive
// substring containment, deliberately: operators rely on there being no regex
// or glob semantics here.
package snaputil
