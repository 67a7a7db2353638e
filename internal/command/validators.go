// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/log"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator runs in each command's Before hook. It applies the
// -v/-q verbosity flags and checks cross-flag constraints.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	log.SetVerbosity(c.Bool("verbose"), c.Bool("quiet"))
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// KeywordsValidator rejects more than two snapshot selection keywords.
func KeywordsValidator(value any) error {
	keywords, ok := value.([]string)
	if !ok {
		return nil
	}
	if len(keywords) > 2 {
		return fmt.Errorf("at most two snapshot keywords may be given, got %d", len(keywords))
	}
	return nil
}
