// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gitpress-project/gitpress/lib/clock"
	"github.com/gitpress-project/gitpress/lib/github"
)

// Target names the remote snapshot document: a file on a branch of a
// GitHub repository.
type Target struct {
	Owner  string
	Repo   string
	Branch string // defaults to "main"
	Path   string // defaults to "posts.json"
}

func (t Target) withDefaults() Target {
	if t.Branch == "" {
		t.Branch = "main"
	}
	if t.Path == "" {
		t.Path = "posts.json"
	}
	return t
}

// StoreConfig carries the collaborators a Store needs.
type StoreConfig struct {
	// Target names the snapshot document. Owner and Repo are required.
	Target Target

	// Public is the client used for unauthenticated reads from the raw
	// content host. Required.
	Public *github.Client

	// Credentials gates mutations and supplies the authenticated client
	// for writes. Required.
	Credentials *Credentials

	// Cache, when set, keeps the last fetched snapshot on disk so Load
	// can fall back to stale data when the remote is unreachable.
	Cache *SnapshotCache

	// CommitMessage is the template for snapshot commit messages. The
	// placeholders {path} and {timestamp} expand to the document path
	// and the RFC 3339 write time. Defaults to
	// "update {path}: {timestamp}".
	CommitMessage string

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store owns the in-memory post collection and its remote snapshot.
// Reads are unauthenticated and never fail the caller; mutations
// require a resolved identity and rewrite the whole remote document
// under a blob-SHA precondition.
//
// The mutex guards only the in-memory collection. It is never held
// across a network call, so a slow persist does not block readers.
// Overlapping mutations from one session are not serialized here;
// callers keep at most one in flight.
type Store struct {
	target        Target
	public        *github.Client
	credentials   *Credentials
	cache         *SnapshotCache
	commitMessage string
	clock         clock.Clock
	logger        *slog.Logger

	mu    sync.Mutex
	posts []Post
}

// NewStore creates a store over the given target. The collection
// starts empty; call Load to populate it.
func NewStore(config StoreConfig) (*Store, error) {
	if config.Target.Owner == "" || config.Target.Repo == "" {
		return nil, fmt.Errorf("blog: store target needs an owner and a repository")
	}
	if config.Public == nil {
		return nil, fmt.Errorf("blog: store needs a public client")
	}
	if config.Credentials == nil {
		return nil, fmt.Errorf("blog: store needs a credential holder")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CommitMessage == "" {
		config.CommitMessage = "update {path}: {timestamp}"
	}
	return &Store{
		target:        config.Target.withDefaults(),
		public:        config.Public,
		credentials:   config.Credentials,
		cache:         config.Cache,
		commitMessage: config.CommitMessage,
		clock:         config.Clock,
		logger:        config.Logger,
		posts:         []Post{},
	}, nil
}

// Target returns the remote document this store reads and writes.
func (s *Store) Target() Target { return s.target }

// Load fetches the remote snapshot and replaces the in-memory
// collection. It never returns an error: a missing document means an
// empty blog, and any other failure degrades — first to the on-disk
// cache, then to an empty collection — so the reader always gets a
// working, possibly stale, view.
func (s *Store) Load(ctx context.Context) {
	raw, err := s.public.DownloadRaw(ctx, s.target.Owner, s.target.Repo, s.target.Branch, s.target.Path)
	if err != nil {
		if github.IsNotFound(err) {
			s.logger.Info("no snapshot yet, starting empty",
				"owner", s.target.Owner, "repo", s.target.Repo, "path", s.target.Path)
			s.replace([]Post{})
			return
		}
		s.logger.Error("fetching snapshot", "error", err)
		s.loadFromCache()
		return
	}

	posts, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.Error("decoding snapshot", "error", err)
		s.loadFromCache()
		return
	}

	s.replace(posts)
	s.logger.Info("snapshot loaded", "posts", len(posts))

	if s.cache != nil {
		if err := s.cache.Put(raw, s.clock.Now()); err != nil {
			s.logger.Warn("caching snapshot", "error", err)
		}
	}
}

// loadFromCache serves the last good snapshot from disk, falling back
// to an empty collection when there is none.
func (s *Store) loadFromCache() {
	if s.cache != nil {
		raw, fetchedAt, err := s.cache.Get()
		if err == nil {
			posts, decodeErr := DecodeSnapshot(raw)
			if decodeErr == nil {
				s.replace(posts)
				s.logger.Warn("serving cached snapshot",
					"posts", len(posts), "fetched_at", fetchedAt.Format(time.RFC3339))
				return
			}
			s.logger.Warn("decoding cached snapshot", "error", decodeErr)
		}
	}
	s.replace([]Post{})
}

func (s *Store) replace(posts []Post) {
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}

// Posts returns a copy of the collection, newest first.
func (s *Store) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

// Post returns the post with the given id.
func (s *Store) Post(id int64) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, post := range s.posts {
		if post.ID == id {
			tags := append([]string(nil), post.Tags...)
			post.Tags = tags
			return post, true
		}
	}
	return Post{}, false
}

// AddPost creates a post from a draft, prepends it to the collection,
// and persists the new snapshot. On any persistence failure the
// collection is unchanged and the error explains why; a Conflict means
// someone else wrote first and the caller should reload before
// retrying.
func (s *Store) AddPost(ctx context.Context, draft Draft) (*Post, error) {
	identity := s.credentials.Identity()
	if identity == nil {
		return nil, &AuthorizationError{Op: "add post"}
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		return nil, ErrEmptyDraft
	}

	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.clock.Now()
	s.mu.Lock()
	post := Post{
		ID:      s.nextIDLocked(now),
		Title:   draft.Title,
		Content: draft.Content,
		Tags:    tags,
		Date:    now.UTC().Format(DateLayout),
		Views:   0,
		Author:  identity.Login,
	}
	updated := make([]Post, 0, len(s.posts)+1)
	updated = append(updated, post)
	updated = append(updated, clonePosts(s.posts)...)
	s.mu.Unlock()

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	s.logger.Info("post added", "id", post.ID, "title", post.Title, "author", post.Author)
	return &post, nil
}

// nextIDLocked derives a new post id from the creation time in
// milliseconds, bumped past the newest existing id so two posts
// created within the same millisecond stay distinct.
func (s *Store) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	for _, post := range s.posts {
		if post.ID >= id {
			id = post.ID + 1
		}
	}
	return id
}

// IncrementView bumps a post's view counter. An unknown id is a no-op.
// Without a resolved identity the bump applies to memory only. With
// one, the bumped snapshot is written best-effort and lands in memory
// only when the write succeeds, so a failed write leaves the
// collection at its pre-call value. The failure itself is logged and
// swallowed: losing a view count is cheaper than failing a page view.
func (s *Store) IncrementView(ctx context.Context, id int64) {
	s.mu.Lock()
	index := -1
	for i := range s.posts {
		if s.posts[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return
	}
	updated := clonePosts(s.posts)
	updated[index].Views++
	s.mu.Unlock()

	if !s.credentials.Authenticated() {
		s.replace(updated)
		return
	}
	if err := s.persist(ctx, updated); err != nil {
		s.logger.Warn("persisting view count", "id", id, "error", err)
	}
}

// Persist writes the current in-memory collection to the remote
// document.
func (s *Store) Persist(ctx context.Context) error {
	if !s.credentials.Authenticated() {
		return &AuthorizationError{Op: "persist"}
	}
	s.mu.Lock()
	posts := clonePosts(s.posts)
	s.mu.Unlock()
	return s.persist(ctx, posts)
}

// persist runs the strict read-modify-write cycle: fetch the current
// blob SHA, then write the full snapshot with that SHA as the
// precondition. On success the in-memory collection becomes the
// persisted one and the cache is refreshed; on failure memory is left
// untouched and the caller gets a *PersistenceError (or an
// *AuthorizationError when the session is unauthenticated).
func (s *Store) persist(ctx context.Context, posts []Post) error {
	client := s.credentials.Client()
	if client == nil {
		return &AuthorizationError{Op: "persist"}
	}

	// Any failure here reads as "document absent": the write then goes
	// out without a precondition, which creates the file or — if it
	// actually exists — gets rejected, surfacing as a conflict rather
	// than a silent overwrite.
	sha := ""
	descriptor, err := client.GetContent(ctx, s.target.Owner, s.target.Repo, s.target.Path, s.target.Branch)
	if err != nil {
		s.logger.Debug("no content descriptor, writing without precondition", "error", err)
	} else {
		sha = descriptor.SHA
	}

	now := s.clock.Now()
	raw, err := EncodeSnapshot(posts, now)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	message := strings.NewReplacer(
		"{path}", s.target.Path,
		"{timestamp}", now.UTC().Format(time.RFC3339),
	).Replace(s.commitMessage)

	update, err := client.PutContent(ctx, s.target.Owner, s.target.Repo, s.target.Path, github.PutContentRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(raw),
		SHA:     sha,
		Branch:  s.target.Branch,
	})
	if err != nil {
		return &PersistenceError{Err: err}
	}

	s.replace(posts)
	if s.cache != nil {
		if err := s.cache.Put(raw, now); err != nil {
			s.logger.Warn("caching snapshot", "error", err)
		}
	}
	s.logger.Info("snapshot persisted", "posts", len(posts), "commit", update.Commit.SHA)
	return nil
}
