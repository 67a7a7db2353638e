// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/config"
)

var (
	snapkeyFlag *cli.StringSliceFlag = &cli.StringSliceFlag{
		Name:    "snapkey",
		Aliases: []string{"s"},
		Usage:   "snapshot selection keyword, may be given twice e.g. 'zas_w'",
		Validator: func(value []string) error {
			return FlagValidators(value, KeywordsValidator)
		},
	}

	excludeFlag *cli.StringSliceFlag = &cli.StringSliceFlag{
		Name:    "exclude",
		Aliases: []string{"e"},
		Usage:   "diff lines whose path contains the keyword are omitted e.g. '.git'",
	}
)

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:   "padding",
			Hidden: true,
			Usage:  "column padding for text output",
			Value:  2,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "only log fatal problems",
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "log debug detail",
			HideDefault: true,
		},
	}

	return
}

// NewZfsFlag constructs the flag locating the zfs binary, optionally
// namespaced to a command so a config file can carry e.g. "dq.zfs". Value
// resolution order is flag, ZDRCTL_ZFS, namespaced config key, bare config
// key, then the PATH default.
func NewZfsFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "zfs",
		Usage: "path to the zfs binary",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("ZDRCTL_ZFS"),
		),
		Value: "zfs",
	}

	if len(params) == 1 && config.Config.Source != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], config.Config.Source, flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
