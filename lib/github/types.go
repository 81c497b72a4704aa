// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

// User is the authenticated GitHub user profile, as returned by the
// /user endpoint. Only the fields Gitpress consumes are mapped; the
// rest of the profile is ignored on decode.
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
	Email     string `json:"email"`
}

// RepositoryContent is a file descriptor from the repository contents
// endpoint. SHA is the git blob SHA of the current file version — the
// optimistic-concurrency precondition for the next write.
type RepositoryContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Type     string `json:"type"` // "file", "dir", "symlink", "submodule"
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content,omitempty"` // base64 when Encoding is "base64"
	HTMLURL  string `json:"html_url"`
}

// PutContentRequest contains the fields for creating or updating a
// file via the contents endpoint.
type PutContentRequest struct {
	// Message is the commit message for the write.
	Message string `json:"message"`

	// Content is the new file body, base64-encoded per the API.
	Content string `json:"content"`

	// SHA is the blob SHA of the file being replaced. Required when
	// updating an existing file; omitted to create a new one. A stale
	// SHA makes the API reject the write (409 or 422).
	SHA string `json:"sha,omitempty"`

	// Branch is the target branch. Defaults to the repository's
	// default branch when empty.
	Branch string `json:"branch,omitempty"`
}

// ContentUpdate is the response from a create-or-update write: the new
// file descriptor and the commit that introduced it.
type ContentUpdate struct {
	Content *RepositoryContent `json:"content"`
	Commit  CommitInfo         `json:"commit"`
}

// CommitInfo identifies the commit produced by a contents write.
type CommitInfo struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	HTMLURL string `json:"html_url"`
}
