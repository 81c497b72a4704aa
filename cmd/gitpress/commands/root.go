// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the gitpress command tree.
package commands

import (
	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
)

// Root returns the top-level gitpress command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "gitpress",
		Summary: "A blog that lives in a GitHub repository",
		Description: `Gitpress keeps a blog as a single JSON snapshot document in a GitHub
repository. Anyone can read it; publishing needs a personal access
token with write access to the repository.

Configuration lives at ~/.config/gitpress/config.yaml (or
$GITPRESS_CONFIG). At minimum it names the repository:

  owner: alice
  repo: blog-data`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			listCommand(),
			showCommand(),
			postCommand(),
			versionCommand(),
		},
	}
}
