// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for zdrctl's user
// configuration. The configuration is expected to be a YAML document located
// in the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/zdrctl.yaml or $HOME/.config/zdrctl.yaml
//   - Windows: %APPDATA%/zdrctl/zdrctl.yaml
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions. Well-known keys are zfs (path to the zfs binary), hash
// (fingerprint algorithm), outdir, suffix, excludes and the colors.* table
// theme. Keys may be namespaced per command, e.g. "dq.outdir".
package config
