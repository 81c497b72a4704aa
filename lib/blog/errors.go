// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"errors"
	"fmt"

	"github.com/gitpress-project/gitpress/lib/github"
)

// AuthFailureReason classifies why token resolution failed, so callers
// can tell "fix your token" from "check your network".
type AuthFailureReason string

const (
	// ReasonTokenRejected means the identity endpoint answered and
	// refused the token (401/403): malformed, revoked, or missing a
	// required scope.
	ReasonTokenRejected AuthFailureReason = "token_rejected"

	// ReasonUnreachable means the identity endpoint could not be
	// asked: transport failure, timeout, or a server-side error.
	ReasonUnreachable AuthFailureReason = "unreachable"
)

// AuthenticationError is returned by Credentials.Resolve when a token
// cannot be validated. Any previously stored token has been cleared by
// the time the caller sees this error.
type AuthenticationError struct {
	Reason AuthFailureReason
	Err    error
}

func (e *AuthenticationError) Error() string {
	switch e.Reason {
	case ReasonTokenRejected:
		return fmt.Sprintf("blog: token rejected by GitHub: %v", e.Err)
	case ReasonUnreachable:
		return fmt.Sprintf("blog: could not reach GitHub to validate token: %v", e.Err)
	}
	return fmt.Sprintf("blog: authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// AuthorizationError is returned when a mutation is attempted without
// a resolved identity. The in-memory collection is untouched.
type AuthorizationError struct {
	// Op names the rejected operation ("persist", "add post").
	Op string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("blog: %s: login required", e.Op)
}

// IsLoginRequired reports whether err is an AuthorizationError.
func IsLoginRequired(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// PersistenceError is returned when the remote write fails. The
// in-memory collection is left at its pre-call value so the caller may
// reload and retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("blog: persisting snapshot: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Conflict reports whether the write failed because the remote file
// changed between the descriptor fetch and the write — the SHA
// precondition was rejected, meaning someone else wrote first. The
// contents endpoint signals this as 409 or as a 422 on the sha field.
func (e *PersistenceError) Conflict() bool {
	return github.IsConflict(e.Err) || github.IsValidationFailed(e.Err)
}

// ErrEmptyDraft is returned by AddPost for a draft missing its title
// or content.
var ErrEmptyDraft = errors.New("blog: a post needs both a title and content")
