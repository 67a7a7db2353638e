// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package record turns raw zfs diff output lines into typed change records.
package record

import (
	"fmt"
	"strings"
)

// Kind classifies a change record.
type Kind int

const (
	Added Kind = iota
	Removed
	Modified
	Renamed
)

// Indicator returns the single-character change indicator zfs diff uses.
func (k Kind) Indicator() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Modified:
		return "M"
	case Renamed:
		return "R"
	}
	return "?"
}

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	}
	return "unknown"
}

// Record is one parsed zfs diff line. Path is POSIX-style; OldPath is only
// set for renames. Raw preserves the line exactly as zfs emitted it so the
// report can pass it through untouched.
type Record struct {
	Kind    Kind
	Path    string
	OldPath string
	IsDir   bool
	Raw     string
}

// MalformedLineError is a line the parser could not make sense of. Callers
// log it as a warning and drop the line; partial data beats aborting the
// whole report.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed diff line (%s): %q", e.Reason, e.Line)
}

// fileTypes are the -F column codes. "/" is a directory; the rest are file,
// block device, character device, door, event port, socket, pipe, and
// symlink.
const fileTypes = "/FB@P=>|"

// Parse parses one raw zfs diff line. The expected shape is the -H (tab
// delimited) form with an optional -F type column:
//
//	M	/	/tank/home/dir
//	+	F	/tank/home/file name with spaces
//	R	F	/tank/home/old	/tank/home/new
//
// The non -H rename form ("old -> new") is tolerated as well. Paths are taken
// verbatim after the indicator columns; they may contain spaces.
func Parse(line string) (Record, error) {
	if strings.TrimSpace(line) == "" {
		return Record{}, &MalformedLineError{Line: line, Reason: "empty"}
	}

	fields := strings.Split(line, "\t")

	kind, err := parseKind(fields[0])
	if err != nil {
		return Record{}, err
	}

	rest := fields[1:]

	rec := Record{Kind: kind, Raw: line}

	// An optional one-character type column precedes the path. A real path
	// is longer than one character, so a bare "/" here is the directory code
	// and cannot collide with a path field.
	if len(rest) > 1 && len(rest[0]) == 1 && strings.Contains(fileTypes, rest[0]) {
		rec.IsDir = rest[0] == "/"
		rest = rest[1:]
	}

	if len(rest) == 0 || rest[0] == "" {
		return Record{}, &MalformedLineError{Line: line, Reason: "missing path"}
	}

	if kind == Renamed {
		return parseRename(rec, rest, line)
	}

	if len(rest) != 1 {
		return Record{}, &MalformedLineError{Line: line, Reason: "unexpected extra fields"}
	}
	rec.Path = rest[0]
	return rec, nil
}

// parseKind maps the leading indicator field to a Kind. Whitespace-padded
// indicators (from non -H output) are tolerated.
func parseKind(field string) (Kind, error) {
	switch strings.TrimSpace(field) {
	case "+":
		return Added, nil
	case "-":
		return Removed, nil
	case "M":
		return Modified, nil
	case "R":
		return Renamed, nil
	}
	return 0, &MalformedLineError{Line: field, Reason: "unknown change indicator"}
}

// parseRename fills in both paths of a rename record. With -H the old and new
// paths arrive as two tab-separated fields; without it they arrive as one
// field joined by " -> ".
func parseRename(rec Record, rest []string, line string) (Record, error) {
	switch len(rest) {
	case 1:
		oldPath, newPath, ok := strings.Cut(rest[0], " -> ")
		if !ok {
			return Record{}, &MalformedLineError{Line: line, Reason: "rename without second path"}
		}
		rec.OldPath, rec.Path = oldPath, newPath
	case 2:
		rec.OldPath, rec.Path = rest[0], rest[1]
	default:
		return Record{}, &MalformedLineError{Line: line, Reason: "unexpected extra fields"}
	}

	if rec.OldPath == "" || rec.Path == "" {
		return Record{}, &MalformedLineError{Line: line, Reason: "rename with empty path"}
	}
	return rec, nil
}
