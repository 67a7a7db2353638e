// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders query result sets. A marshaled JSON dataset comes
// in, gets sliced down to the requested attributes, transformed, sorted, and
// spit back out as a table, JSON, YAML, or raw passthrough per the command's
// flags.
package output
