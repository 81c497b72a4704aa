// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	config, err := Parse([]byte("owner: alice\nrepo: blog-data\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if config.Branch != "main" {
		t.Errorf("Branch = %q, want main", config.Branch)
	}
	if config.Path != "posts.json" {
		t.Errorf("Path = %q, want posts.json", config.Path)
	}
	if config.APIBaseURL != "https://api.github.com" {
		t.Errorf("APIBaseURL = %q", config.APIBaseURL)
	}
	if config.RawBaseURL != "https://raw.githubusercontent.com" {
		t.Errorf("RawBaseURL = %q", config.RawBaseURL)
	}
	if config.CacheCompression != "zstd" {
		t.Errorf("CacheCompression = %q, want zstd", config.CacheCompression)
	}
	if config.CommitMessage != "update {path}: {timestamp}" {
		t.Errorf("CommitMessage = %q", config.CommitMessage)
	}
}

func TestParse_FullDocument(t *testing.T) {
	document := `
owner: alice
repo: blog-data
branch: published
path: content/posts.json
api_base_url: https://github.example.com/api/v3
raw_base_url: https://raw.github.example.com
token_file: /srv/gitpress/token
cache_path: /var/cache/gitpress/blog.cache
cache_compression: lz4
`
	config, err := Parse([]byte(document))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if config.Branch != "published" {
		t.Errorf("Branch = %q", config.Branch)
	}
	if config.Path != "content/posts.json" {
		t.Errorf("Path = %q", config.Path)
	}
	if config.APIBaseURL != "https://github.example.com/api/v3" {
		t.Errorf("APIBaseURL = %q", config.APIBaseURL)
	}
	if config.CacheCompression != "lz4" {
		t.Errorf("CacheCompression = %q", config.CacheCompression)
	}
}

func TestParse_Validation(t *testing.T) {
	cases := []struct {
		name     string
		document string
		wantErr  string
	}{
		{"missing owner", "repo: blog-data\n", "owner is required"},
		{"missing repo", "owner: alice\n", "repo is required"},
		{"bad compression", "owner: alice\nrepo: blog-data\ncache_compression: gzip\n", "cache_compression"},
		{"plain http api", "owner: alice\nrepo: blog-data\napi_base_url: http://api.github.com\n", "must be HTTPS"},
		{"malformed yaml", "owner: [\n", "parsing"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Parse([]byte(testCase.document))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), testCase.wantErr) {
				t.Errorf("error %q does not mention %q", err, testCase.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("owner: alice\nrepo: blog-data\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Owner != "alice" || config.Repo != "blog-data" {
		t.Errorf("Load = %+v", config)
	}
}

func TestDefaultPath_EnvironmentOverride(t *testing.T) {
	t.Setenv("GITPRESS_CONFIG", "/etc/gitpress.yaml")
	if path := DefaultPath(); path != "/etc/gitpress.yaml" {
		t.Errorf("DefaultPath = %q, want the GITPRESS_CONFIG value", path)
	}

	t.Setenv("GITPRESS_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/home/alice/.config")
	if path := DefaultPath(); path != "/home/alice/.config/gitpress/config.yaml" {
		t.Errorf("DefaultPath = %q, want the XDG location", path)
	}
}
