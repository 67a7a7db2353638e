// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package zfs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/zdrctl/zdrctl/internal/log"
)

// CLI is the Runner implementation backed by the real zfs binary.
type CLI struct {
	// Binary is the zfs executable, either a bare name resolved via PATH or
	// an absolute path. Defaults to "zfs" when empty.
	Binary string
}

func (c CLI) binary() string {
	if c.Binary == "" {
		return "zfs"
	}
	return c.Binary
}

// ListSnapshots returns one "name<TAB>creation-epoch" line per snapshot of
// volume, sorted by creation time, oldest first.
func (c CLI) ListSnapshots(ctx context.Context, volume string) ([]string, error) {
	out, err := c.output(ctx,
		"list", "-H", "-p", "-t", "snapshot", "-o", "name,creation", "-s", "creation", "-r", volume)
	if err != nil {
		return nil, &CatalogError{Volume: volume, Stderr: stderrOf(err), Err: err}
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Diff runs zfs diff between the two snapshots and feeds each raw output line
// to fn as it is produced. -H gives tab-delimited fields and -F the file type
// column. A non-zero exit, or fn returning an error, aborts with a
// *DiffInvocationError carrying stderr verbatim.
func (c CLI) Diff(ctx context.Context, older, newer string, fn func(line string) error) error {
	log.Infof("Creating zfs diff for snapshots %s and %s", older, newer)

	cmd := exec.CommandContext(ctx, c.binary(), "diff", "-H", "-F", older, newer)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &DiffInvocationError{Older: older, Newer: newer, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &DiffInvocationError{Older: older, Newer: newer, Err: err}
	}

	scanner := bufio.NewScanner(stdout)
	// Paths can get long; give the scanner room beyond its default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var fnErr error
	for scanner.Scan() {
		if fnErr = fn(scanner.Text()); fnErr != nil {
			break
		}
	}
	scanErr := scanner.Err()

	// Drain remaining output so Wait doesn't block on a full pipe.
	_, _ = io.Copy(io.Discard, stdout)

	waitErr := cmd.Wait()
	switch {
	case fnErr != nil:
		return fnErr
	case scanErr != nil:
		return &DiffInvocationError{Older: older, Newer: newer, Stderr: stderr.String(), Err: scanErr}
	case waitErr != nil:
		return &DiffInvocationError{Older: older, Newer: newer, Stderr: stderr.String(), Err: waitErr}
	}
	return nil
}

// Mountpoint resolves the filesystem mountpoint of volume, the root under
// which the .zfs/snapshot views live.
func (c CLI) Mountpoint(ctx context.Context, volume string) (string, error) {
	out, err := c.output(ctx, "get", "-H", "-o", "value", "mountpoint", volume)
	if err != nil {
		return "", &CatalogError{Volume: volume, Stderr: stderrOf(err), Err: err}
	}
	return strings.TrimSpace(out), nil
}

// Properties returns all dataset properties of name (a volume or snapshot) as
// a flat property->value map.
func (c CLI) Properties(ctx context.Context, name string) (map[string]string, error) {
	out, err := c.output(ctx, "get", "-H", "-p", "-o", "property,value", "all", name)
	if err != nil {
		return nil, &CatalogError{Volume: name, Stderr: stderrOf(err), Err: err}
	}

	props := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		prop, value, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		props[prop] = strings.TrimRight(value, "\n")
	}
	return props, nil
}

// output runs the binary with args and returns its stdout.
func (c CLI) output(ctx context.Context, args ...string) (string, error) {
	log.Tracef("exec: %s %s", c.binary(), strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, c.binary(), args...).Output()
	return string(out), err
}

// stderrOf extracts the captured stderr from an exec.ExitError, if present.
func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(exitErr.Stderr)
	}
	return ""
}
