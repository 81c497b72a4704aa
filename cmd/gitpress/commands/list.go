// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
)

type listParams struct {
	cli.JSONOutput
	Config string
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List all posts, newest first",
		Description: `Fetch the snapshot and list every post, newest first.

Listing is anonymous: no token is needed. When GitHub is unreachable
the last cached snapshot is shown instead; a blog that has never been
written to lists as empty.`,
		Usage: "gitpress list [flags]",
		Examples: []cli.Example{
			{
				Description: "List posts as a table",
				Command:     "gitpress list",
			},
			{
				Description: "Feed the post ids to another tool",
				Command:     "gitpress list --json | jq '.[].id'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
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

			sess.store.Load(ctx)
			posts := sess.store.Posts()

			if done, err := params.EmitJSON(posts); done {
				return err
			}

			if len(posts) == 0 {
				fmt.Println("no posts")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tVIEWS\tAUTHOR\tTITLE\tTAGS")
			for _, post := range posts {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
					post.ID, post.Date, post.Views, post.Author, post.Title, formatTags(post.Tags))
			}
			return tw.Flush()
		},
	}
}
