// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gitpress-project/gitpress/lib/github"
)

// TokenStore persists the personal access token between sessions.
type TokenStore interface {
	// Load returns the stored token, or "" with a nil error when no
	// token is stored.
	Load() (string, error)

	// Save durably stores the token.
	Save(token string) error

	// Clear removes the stored token. Clearing an empty store is not
	// an error.
	Clear() error
}

// DefaultTokenPath returns the token file location: GITPRESS_TOKEN_FILE
// if set, else $XDG_CONFIG_HOME/gitpress/token, else
// ~/.config/gitpress/token.
func DefaultTokenPath() string {
	if envPath := os.Getenv("GITPRESS_TOKEN_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "gitpress-token")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "gitpress", "token")
}

// FileTokenStore stores the token in a single file, written with mode
// 0600 since it holds a credential. The parent directory is created
// with mode 0700 on first save.
type FileTokenStore struct {
	// Path is the token file location. Defaults to DefaultTokenPath()
	// when empty.
	Path string
}

func (store *FileTokenStore) path() string {
	if store.Path != "" {
		return store.Path
	}
	return DefaultTokenPath()
}

// Load reads the stored token, trimming surrounding whitespace (token
// files often end with a newline). A missing file means no token.
func (store *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(store.path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("blog: reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token to the store's path with owner-only
// permissions.
func (store *FileTokenStore) Save(token string) error {
	path := store.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("blog: creating token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("blog: writing token file: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is fine.
func (store *FileTokenStore) Clear() error {
	err := os.Remove(store.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blog: removing token file: %w", err)
	}
	return nil
}

// ClientFactory builds a GitHub client for a given token. The CLI
// wires this to its configured API endpoints; tests wire it to an
// httptest server.
type ClientFactory func(token string) (*github.Client, error)

// Credentials is the credential holder: it validates tokens against
// the identity endpoint, keeps the resolved identity and the
// authenticated client for the session, and owns the durable token
// store. The store demands a resolved identity before accepting
// mutations.
type Credentials struct {
	store     TokenStore
	newClient ClientFactory
	logger    *slog.Logger

	mu       sync.Mutex
	identity *github.User
	client   *github.Client
}

// NewCredentials creates a credential holder. The logger defaults to
// slog.Default().
func NewCredentials(store TokenStore, factory ClientFactory, logger *slog.Logger) *Credentials {
	if logger == nil {
		logger = slog.Default()
	}
	return &Credentials{store: store, newClient: factory, logger: logger}
}

// Resolve validates a token against the identity endpoint. On success
// the token is saved to the store and the identity and authenticated
// client are cached for the session. On failure any stored token is
// cleared and an *AuthenticationError explains whether the token was
// rejected or GitHub was unreachable.
func (c *Credentials) Resolve(ctx context.Context, token string) (*github.User, error) {
	client, err := c.newClient(token)
	if err != nil {
		return nil, fmt.Errorf("blog: creating client: %w", err)
	}

	identity, err := client.AuthenticatedUser(ctx)
	if err != nil {
		// The old token may be just as bad — drop it so the next
		// session starts clean instead of re-failing at startup.
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Warn("clearing stored token after failed validation", "error", clearErr)
		}
		c.drop()

		reason := ReasonUnreachable
		if github.IsUnauthorized(err) || github.IsForbidden(err) {
			reason = ReasonTokenRejected
		}
		return nil, &AuthenticationError{Reason: reason, Err: err}
	}

	if err := c.store.Save(token); err != nil {
		return nil, fmt.Errorf("blog: saving token: %w", err)
	}

	c.mu.Lock()
	c.identity = identity
	c.client = client
	c.mu.Unlock()

	c.logger.Info("authenticated", "login", identity.Login)
	return identity, nil
}

// ResolveStored is the startup path: if the store holds a token,
// resolve it; if the store is empty, return (nil, nil) — an
// unauthenticated session, not an error.
func (c *Credentials) ResolveStored(ctx context.Context) (*github.User, error) {
	token, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return c.Resolve(ctx, token)
}

// Clear discards the cached identity, the authenticated client, and
// the stored token. It never fails: a token-file removal error is
// logged, not returned.
func (c *Credentials) Clear() {
	c.drop()
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("clearing stored token", "error", err)
	}
}

func (c *Credentials) drop() {
	c.mu.Lock()
	c.identity = nil
	c.client = nil
	c.mu.Unlock()
}

// Identity returns the resolved identity, or nil for an
// unauthenticated session.
func (c *Credentials) Identity() *github.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Client returns the authenticated client, or nil for an
// unauthenticated session.
func (c *Credentials) Client() *github.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Authenticated reports whether an identity has been resolved.
func (c *Credentials) Authenticated() bool {
	return c.Identity() != nil
}
