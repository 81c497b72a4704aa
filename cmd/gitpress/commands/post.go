// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
	"github.com/gitpress-project/gitpress/lib/blog"
)

type postParams struct {
	cli.JSONOutput
	Config string
	Title  string
	Tags   []string
	File   string
}

func postCommand() *cli.Command {
	var params postParams

	return &cli.Command{
		Name:    "post",
		Summary: "Publish a new post",
		Description: `Publish a new post at the top of the blog.

The content comes from --file, or from stdin when --file is "-" or
omitted. Publishing needs a login; the author and date are filled in
from the resolved identity and the current day.

Publishing rewrites the whole snapshot document under a precondition
on its current version. If someone else published in between, the
write is rejected and nothing is lost; rerun to retry against the new
snapshot.`,
		Usage: "gitpress post --title <title> [flags]",
		Examples: []cli.Example{
			{
				Description: "Publish from a file",
				Command:     "gitpress post --title 'Hello world' --tag intro --file hello.txt",
			},
			{
				Description: "Publish from stdin",
				Command:     "echo 'short update' | gitpress post --title 'Status'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("post", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to the configuration file")
			flagSet.StringVar(&params.Title, "title", "", "post title (required)")
			flagSet.StringArrayVar(&params.Tags, "tag", nil, "tag for the post (repeatable)")
			flagSet.StringVar(&params.File, "file", "-", "file with the post content, or - for stdin")
			params.BindJSONFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			content, err := readPostContent(params.File)
			if err != nil {
				return cli.Internal("reading content: %v", err)
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

			sess.store.Load(ctx)

			post, err := sess.store.AddPost(ctx, blog.Draft{
				Title:   params.Title,
				Content: content,
				Tags:    params.Tags,
			})
			if err != nil {
				return blogError(err)
			}

			if done, err := params.EmitJSON(post); done {
				return err
			}

			fmt.Fprintf(os.Stderr, "Published post %d: %s\n", post.ID, post.Title)
			return nil
		},
	}
}

func readPostContent(file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}
