// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters drops change records whose paths match a caller-supplied
// exclude substring, e.g. ".git". Matching is case-sensitive substring
// containment with no pattern semantics, applied to both the path and, for
// renames, the prior path.
package filters
