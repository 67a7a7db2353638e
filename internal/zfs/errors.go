// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package zfs

import (
	"fmt"
	"strings"
)

// CatalogError means the snapshot listing primitive failed for a volume:
// the volume does not exist, is inaccessible, or the zfs binary could not be
// run. It is fatal for that volume and non-retriable.
type CatalogError struct {
	Volume string
	Stderr string
	Err    error
}

func (e *CatalogError) Error() string {
	msg := fmt.Sprintf("snapshot listing failed for %s: %v", e.Volume, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CatalogError) Unwrap() error { return e.Err }

// DiffInvocationError means zfs diff was missing, not executable, or exited
// non-zero. Stderr carries the binary's diagnostic output verbatim so
// operators can diagnose permission or pool-state problems.
type DiffInvocationError struct {
	Older  string
	Newer  string
	Stderr string
	Err    error
}

func (e *DiffInvocationError) Error() string {
	msg := fmt.Sprintf("zfs diff %s %s failed: %v", e.Older, e.Newer, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *DiffInvocationError) Unwrap() error { return e.Err }
