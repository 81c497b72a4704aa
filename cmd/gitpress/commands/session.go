// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gitpress-project/gitpress/cmd/gitpress/cli"
	"github.com/gitpress-project/gitpress/lib/blog"
	"github.com/gitpress-project/gitpress/lib/config"
	"github.com/gitpress-project/gitpress/lib/github"
)

// session is the wired-up application state every command operates on:
// configuration, credential holder, and the post store.
type session struct {
	config      *config.Config
	credentials *blog.Credentials
	store       *blog.Store
}

// newSession loads the configuration and builds the store the way the
// commands need it. An empty configPath means the well-known default
// location.
func newSession(configPath string, logger *slog.Logger) (*session, error) {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	configuration, err := config.Load(configPath)
	if err != nil {
		return nil, cli.Validation("%v", err)
	}

	factory := func(token string) (*github.Client, error) {
		return github.NewClient(github.Config{
			BaseURL:    configuration.APIBaseURL,
			RawBaseURL: configuration.RawBaseURL,
			Token:      token,
			Logger:     logger,
		})
	}

	public, err := factory("")
	if err != nil {
		return nil, cli.Internal("building GitHub client: %v", err)
	}

	tokenPath := configuration.TokenFile
	if tokenPath == "" {
		tokenPath = blog.DefaultTokenPath()
	}
	credentials := blog.NewCredentials(&blog.FileTokenStore{Path: tokenPath}, factory, logger)

	cachePath := configuration.CachePath
	if cachePath == "" {
		cachePath = blog.DefaultCachePath(configuration.Owner, configuration.Repo)
	}
	cache := blog.NewSnapshotCache(cachePath, compressionCodec(configuration.CacheCompression))

	store, err := blog.NewStore(blog.StoreConfig{
		Target: blog.Target{
			Owner:  configuration.Owner,
			Repo:   configuration.Repo,
			Branch: configuration.Branch,
			Path:   configuration.Path,
		},
		Public:        public,
		Credentials:   credentials,
		Cache:         cache,
		CommitMessage: configuration.CommitMessage,
		Logger:        logger,
	})
	if err != nil {
		return nil, cli.Internal("building store: %v", err)
	}

	return &session{config: configuration, credentials: credentials, store: store}, nil
}

func compressionCodec(name string) blog.CompressionCodec {
	switch name {
	case "lz4":
		return blog.CompressionLZ4
	case "none":
		return blog.CompressionNone
	}
	return blog.CompressionZstd
}

// blogError translates a lib/blog error into a categorized CLI error.
func blogError(err error) error {
	if err == nil {
		return nil
	}
	if blog.IsLoginRequired(err) {
		return cli.Forbidden("not logged in; run 'gitpress login' first")
	}
	if errors.Is(err, blog.ErrEmptyDraft) {
		return cli.Validation("%v", err)
	}
	var authErr *blog.AuthenticationError
	if errors.As(err, &authErr) {
		if authErr.Reason == blog.ReasonTokenRejected {
			return cli.Forbidden("%v", err)
		}
		return cli.Transient("%v", err)
	}
	var persistErr *blog.PersistenceError
	if errors.As(err, &persistErr) {
		if persistErr.Conflict() {
			return cli.Conflict("someone else published first; rerun to retry against the new snapshot")
		}
		return cli.Transient("%v", err)
	}
	return cli.Internal("%v", err)
}

// formatTags renders a tag list for table output.
func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ",")
}
