// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
)

type showParams struct {
	cli.JSONOutput
	Config string
	NoView bool
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one post and count the view",
		Description: `Fetch the snapshot and print one post in full.

Showing a post counts as a view. When logged in, the bumped view count
is written back to the repository best-effort: a failed write is logged
and the post still prints. Anonymous views only count locally. Pass
--no-view to read without counting.`,
		Usage: "gitpress show <id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show a post",
				Command:     "gitpress show 1741600000000",
			},
			{
				Description: "Inspect a post without counting the view",
				Command:     "gitpress show 1741600000000 --no-view --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to the configuration file")
			flagSet.BoolVar(&params.NoView, "no-view", false, "do not count this read as a view")
			params.BindJSONFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one post id is required\n\nUsage: gitpress show <id> [flags]")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return cli.Validation("invalid post id %q", args[0])
			}

			sess, err := newSession(params.Config, logger)
			if err != nil {
				return err
			}

			// Resolve the saved token if there is one, so the view count
			// write can happen. An anonymous session is fine here.
			if !params.NoView {
				if _, err := sess.credentials.ResolveStored(ctx); err != nil {
					logger.Warn("resolving saved token", "error", err)
				}
			}

			sess.store.Load(ctx)

			if !params.NoView {
				sess.store.IncrementView(ctx, id)
			}

			post, ok := sess.store.Post(id)
			if !ok {
				return cli.NotFound("no post with id %d", id)
			}

			if done, err := params.EmitJSON(post); done {
				return err
			}

			fmt.Printf("%s\n", post.Title)
			fmt.Printf("  id: %d  date: %s  author: %s  views: %d  tags: %s\n\n",
				post.ID, post.Date, post.Author, post.Views, formatTags(post.Tags))
			fmt.Println(post.Content)
			return nil
		},
	}
}
