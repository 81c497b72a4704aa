// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
)

func logoutCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the saved token",
		Description: `Remove the saved token and return to an anonymous session.

Logging out never fails: a missing token file just means there is
nothing to remove. Reading stays available afterwards; publishing
needs a new login.`,
		Usage: "gitpress logout",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to the configuration file")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			sess, err := newSession(configPath, logger)
			if err != nil {
				return err
			}

			sess.credentials.Clear()
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}
