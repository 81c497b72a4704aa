// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
	"github.com/gitpress-project/gitpress/lib/version"
)

func versionCommand() *cli.Command {
	var full bool

	return &cli.Command{
		Name:    "version",
		Summary: "Print the gitpress version",
		Usage:   "gitpress version [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&full, "full", false, "include Go version and platform")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if full {
				fmt.Println(version.Full())
			} else {
				fmt.Println(version.Info())
			}
			return nil
		},
	}
}
