// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
)

type whoamiParams struct {
	cli.JSONOutput
	Config string
}

func whoamiCommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the identity behind the saved token",
		Description: `Validate the saved token against GitHub and print the resolved
identity. Exits with an error when no token is saved or the saved
token no longer works (in which case it is cleared).`,
		Usage: "gitpress whoami [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to the configuration file")
			params.BindJSONFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			sess, err := newSession(params.Config, logger)
			if err != nil {
				return err
			}

			identity, err := sess.credentials.ResolveStored(ctx)
			if err != nil {
				return blogError(err)
			}
			if identity == nil {
				return cli.Forbidden("not logged in; run 'gitpress login' first")
			}

			if done, err := params.EmitJSON(identity); done {
				return err
			}

			fmt.Println(identity.Login)
			if identity.Name != "" {
				fmt.Printf("  name:    %s\n", identity.Name)
			}
			fmt.Printf("  profile: %s\n", identity.HTMLURL)
			return nil
		},
	}
}
