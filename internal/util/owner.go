// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os/user"
	"strconv"
	"strings"
)

// ParseOwner resolves a "user:group" spec into numeric uid and gid. Either
// side may already be numeric. The group part is optional; when omitted the
// user's primary group is used.
func ParseOwner(spec string) (int, int, error) {
	if spec == "" {
		return 0, 0, fmt.Errorf("empty owner spec")
	}

	userPart, groupPart, _ := strings.Cut(spec, ":")

	uid, primaryGid, err := lookupUser(userPart)
	if err != nil {
		return 0, 0, err
	}

	if groupPart == "" {
		return uid, primaryGid, nil
	}

	gid, err := lookupGroup(groupPart)
	if err != nil {
		return 0, 0, err
	}

	return uid, gid, nil
}

func lookupUser(name string) (int, int, error) {
	var u *user.User
	var err error

	if _, numErr := strconv.Atoi(name); numErr == nil {
		u, err = user.LookupId(name)
	} else {
		u, err = user.Lookup(name)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve user %q: %w", name, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric uid for %q: %w", name, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric gid for %q: %w", name, err)
	}

	return uid, gid, nil
}

func lookupGroup(name string) (int, error) {
	var g *user.Group
	var err error

	if _, numErr := strconv.Atoi(name); numErr == nil {
		g, err = user.LookupGroupId(name)
	} else {
		g, err = user.LookupGroup(name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve group %q: %w", name, err)
	}

	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, fmt.Errorf("non-numeric gid for group %q: %w", name, err)
	}

	return gid, nil
}
