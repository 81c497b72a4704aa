// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gitpress-project/gitpress/lib/netutil"
)

// GetContent fetches the content descriptor for a file. The returned
// RepositoryContent carries the blob SHA used as the precondition for
// the next PutContent. The ref selects a branch, tag, or commit;
// empty means the repository's default branch.
//
// The path is repository-relative and may contain slashes; each
// segment must already be URL-safe.
func (client *Client) GetContent(ctx context.Context, owner, repo, path, ref string) (*RepositoryContent, error) {
	requestPath := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	if ref != "" {
		requestPath += "?ref=" + url.QueryEscape(ref)
	}

	var content RepositoryContent
	if err := client.get(ctx, requestPath, &content); err != nil {
		return nil, fmt.Errorf("fetching content descriptor for %s in %s/%s: %w", path, owner, repo, err)
	}
	return &content, nil
}

// PutContent creates or updates a file via the contents endpoint. The
// request's SHA field carries the optimistic-concurrency precondition:
// set it to the blob SHA from GetContent when updating, leave it empty
// to create. A rejected precondition surfaces as an *APIError for
// which IsConflict or IsValidationFailed reports true.
func (client *Client) PutContent(ctx context.Context, owner, repo, path string, request PutContentRequest) (*ContentUpdate, error) {
	requestPath := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)

	var update ContentUpdate
	if err := client.put(ctx, requestPath, request, &update); err != nil {
		return nil, fmt.Errorf("writing %s in %s/%s: %w", path, owner, repo, err)
	}
	return &update, nil
}

// DownloadRaw fetches a file's raw bytes from the raw content host.
// No Authorization header is ever attached — this is the public,
// unauthenticated read path, and leaking a token to a second host
// would widen its exposure for no benefit.
//
// A missing file surfaces as an *APIError with status 404 (check with
// IsNotFound). The raw host does not emit rate limit headers, so these
// requests bypass the API rate limit tracker.
func (client *Client) DownloadRaw(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	if ref == "" {
		ref = "main"
	}
	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", client.rawBaseURL, owner, repo, url.PathEscape(ref), escapePath(path))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("github: creating raw request: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("github: GET %s: %w", rawURL, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Message:    netutil.ErrorBody(response.Body),
		}
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading raw response: %w", err)
	}
	return body, nil
}

// escapePath percent-encodes each segment of a repository-relative
// path, keeping the slashes that separate them.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
