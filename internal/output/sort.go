// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

type sortField struct {
	name          string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortField {
	parts := strings.Split(spec, ",")
	fields := make([]sortField, 0, len(parts))
	for _, part := range parts {
		var f sortField
		if strings.HasPrefix(part, "-") {
			part = strings.TrimPrefix(part, "-")
			f.descending = true
		}
		if strings.HasPrefix(part, "!") {
			part = strings.TrimPrefix(part, "!")
			f.caseSensitive = true
		}
		f.name = part
		fields = append(fields, f)
	}
	return fields
}

// compareField returns -1, 0 or 1 for the two row values. JSON numbers
// arrive as float64 and compare numerically; everything else compares as
// strings, case-insensitively unless the field says otherwise.
func compareField(a, b interface{}, caseSensitive bool) int {
	aNum, aOk := a.(float64)
	bNum, bOk := b.(float64)
	if aOk && bOk {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	aStr := InterfaceToString(a)
	bStr := InterfaceToString(b)
	if !caseSensitive {
		aStr = strings.ToLower(aStr)
		bStr = strings.ToLower(bStr)
	}
	return strings.Compare(aStr, bStr)
}

// SortDataset sorts the result set in place by the comma-separated field
// spec. A leading "-" reverses a field, a leading "!" makes its comparison
// case-sensitive. Later fields break ties left by earlier ones, so
// "kind,path" groups records by change kind and orders each group by path.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	fields := parseSortSpec(spec)

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, f := range fields {
			c := compareField(resultSet[one][f.name], resultSet[two][f.name], f.caseSensitive)
			if c == 0 {
				continue
			}
			if f.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
