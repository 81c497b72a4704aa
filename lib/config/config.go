// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the Gitpress configuration file: which
// repository holds the blog, where the GitHub endpoints live, and
// where local state (token, snapshot cache) is kept.
//
// Configuration is loaded from a single file specified by:
//   - GITPRESS_CONFIG environment variable, or
//   - --config flag passed to the command, or
//   - $XDG_CONFIG_HOME/gitpress/config.yaml as the well-known default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the parsed configuration file.
type Config struct {
	// Owner and Repo name the GitHub repository holding the snapshot
	// document. Both are required.
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// Branch holding the snapshot document. Defaults to "main".
	Branch string `yaml:"branch"`

	// Path of the snapshot document inside the repository. Defaults to
	// "posts.json".
	Path string `yaml:"path"`

	// APIBaseURL and RawBaseURL override the GitHub endpoints, for
	// GitHub Enterprise deployments. Both must be HTTPS. Defaults are
	// the public github.com hosts.
	APIBaseURL string `yaml:"api_base_url"`
	RawBaseURL string `yaml:"raw_base_url"`

	// TokenFile overrides the token location. Defaults to
	// $XDG_CONFIG_HOME/gitpress/token.
	TokenFile string `yaml:"token_file"`

	// CachePath overrides the snapshot cache location. Defaults to
	// $XDG_CACHE_HOME/gitpress/<owner>-<repo>.cache.
	CachePath string `yaml:"cache_path"`

	// CacheCompression selects the cache codec: "zstd" (default),
	// "lz4", or "none".
	CacheCompression string `yaml:"cache_compression"`

	// CommitMessage is the template for snapshot commit messages. The
	// placeholders {path} and {timestamp} expand to the document path
	// and the RFC 3339 write time. Defaults to
	// "update {path}: {timestamp}".
	CommitMessage string `yaml:"commit_message"`
}

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"
)

// DefaultPath returns the configuration file location: GITPRESS_CONFIG
// if set, else $XDG_CONFIG_HOME/gitpress/config.yaml, else
// ~/.config/gitpress/config.yaml.
func DefaultPath() string {
	if envPath := os.Getenv("GITPRESS_CONFIG"); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "gitpress-config.yaml")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "gitpress", "config.yaml")
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes and validates a configuration document, filling in
// defaults for absent keys.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Branch == "" {
		c.Branch = "main"
	}
	if c.Path == "" {
		c.Path = "posts.json"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.RawBaseURL == "" {
		c.RawBaseURL = defaultRawBaseURL
	}
	if c.CacheCompression == "" {
		c.CacheCompression = "zstd"
	}
	if c.CommitMessage == "" {
		c.CommitMessage = "update {path}: {timestamp}"
	}
}

// Validate checks the configuration for problems a later network call
// would otherwise surface confusingly.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	switch c.CacheCompression {
	case "zstd", "lz4", "none":
	default:
		return fmt.Errorf("unknown cache_compression %q (want zstd, lz4, or none)", c.CacheCompression)
	}
	if !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must be HTTPS (got %q)", c.APIBaseURL)
	}
	if !strings.HasPrefix(c.RawBaseURL, "https://") {
		return fmt.Errorf("raw_base_url must be HTTPS (got %q)", c.RawBaseURL)
	}
	return nil
}
