// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares the dataset properties of two snapshots and
// renders the delta, and provides the interactive picker for choosing a
// snapshot pair by hand.
package differ
