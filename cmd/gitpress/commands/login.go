// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
)

type loginParams struct {
	Config    string
	TokenFile string
}

func loginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate with a GitHub personal access token",
		Description: `Validate a GitHub personal access token and save it locally.

After login, "gitpress post" and view-count writes use the saved token
transparently. The token file is stored at ~/.config/gitpress/token
(or $GITPRESS_TOKEN_FILE if set) with mode 0600, owner-only, since it
is a credential.

The token can be provided via --token-file (a path to a file containing
the token) or prompted interactively if --token-file is omitted. If the
token turns out to be invalid, any previously saved token is cleared.`,
		Usage: "gitpress login [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for the token)",
				Command:     "gitpress login",
			},
			{
				Description: "Log in with a token from a file",
				Command:     "gitpress login --token-file ~/.secrets/github-token",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to the configuration file")
			flagSet.StringVar(&params.TokenFile, "token-file", "", "path to a file containing the token (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			token, err := readLoginToken(params.TokenFile)
			if err != nil {
				return cli.Internal("reading token: %v", err)
			}
			if token == "" {
				return cli.Validation("empty token")
			}

			sess, err := newSession(params.Config, logger)
			if err != nil {
				return err
			}

			identity, err := sess.credentials.Resolve(ctx, token)
			if err != nil {
				return blogError(err)
			}

			fmt.Fprintf(os.Stderr, "Logged in as %s\n", identity.Login)
			return nil
		},
	}
}

// readLoginToken reads the token from the given file, or prompts on
// the terminal when no file is given. Prompting disables echo, the
// same way password prompts do, so the token does not land in scrollback.
func readLoginToken(tokenFile string) (string, error) {
	if tokenFile != "" && tokenFile != "-" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "GitHub token: ")
		tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(tokenBytes)), nil
	}

	// Piped stdin: read a single line.
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
