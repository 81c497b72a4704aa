// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gitpress-project/gitpress/lib/clock"
	"github.com/gitpress-project/gitpress/lib/netutil"
)

// apiVersion is the GitHub REST API version header. Pinning the version
// ensures consistent behavior as GitHub evolves the API.
const apiVersion = "2022-11-28"

// defaultBaseURL is the base URL for the public GitHub API.
const defaultBaseURL = "https://api.github.com"

// defaultRawBaseURL is the base URL for unauthenticated raw content
// downloads from public repositories.
const defaultRawBaseURL = "https://raw.githubusercontent.com"

// Config holds configuration for creating a GitHub API Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// "https://api.github.com". Must use HTTPS.
	BaseURL string

	// RawBaseURL is the root URL for raw content downloads. Defaults
	// to "https://raw.githubusercontent.com". Must use HTTPS.
	RawBaseURL string

	// Token is a personal access token or fine-grained token. Optional:
	// a client without a token sends no Authorization header and is
	// limited to public reads.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations. Defaults to clock.Real().
	// Inject clock.Fake() in tests for deterministic backoff behavior.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed GitHub REST API client with token authentication,
// rate limiting, ETag caching, and structured error handling.
type Client struct {
	baseURL    string
	rawBaseURL string
	httpClient *http.Client
	authHeader string // empty when unauthenticated
	rateLimit  *rateLimitTracker
	etagCache  *etagCache
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a GitHub API client from the given configuration.
// Returns an error if a configured URL is not HTTPS.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	rawBaseURL := config.RawBaseURL
	if rawBaseURL == "" {
		rawBaseURL = defaultRawBaseURL
	}
	rawBaseURL = strings.TrimRight(rawBaseURL, "/")

	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("github: API client requires HTTPS (got %q)", baseURL)
	}
	if !strings.HasPrefix(rawBaseURL, "https://") {
		return nil, fmt.Errorf("github: raw content client requires HTTPS (got %q)", rawBaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHeader := ""
	if config.Token != "" {
		authHeader = "Bearer " + config.Token
	}

	return &Client{
		baseURL:    baseURL,
		rawBaseURL: rawBaseURL,
		httpClient: httpClient,
		authHeader: authHeader,
		rateLimit:  newRateLimitTracker(clk),
		etagCache:  newETagCache(),
		clock:      clk,
		logger:     logger,
	}, nil
}

// Authenticated reports whether the client carries a token.
func (client *Client) Authenticated() bool {
	return client.authHeader != ""
}

// do executes a GitHub API request. Handles rate limit waiting,
// authentication, ETag caching, and error parsing. The path should be
// relative to the base URL (e.g., "/repos/owner/repo/contents/posts.json").
//
// For GET requests, ETag caching is applied. For non-GET requests, the
// body is JSON-encoded from the provided value (pass nil for no body).
//
// Returns the response body as raw bytes. On non-2xx responses,
// returns an *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	return client.doWithRetry(ctx, method, path, requestBody, false)
}

// doWithRetry is the internal implementation of do with a retry flag
// to prevent infinite recursion on persistent rate limiting.
func (client *Client) doWithRetry(ctx context.Context, method, path string, requestBody any, isRetry bool) ([]byte, error) {
	// Preemptive rate limit check.
	if err := client.rateLimit.wait(ctx); err != nil {
		return nil, err
	}

	url := client.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("github: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}

	if client.authHeader != "" {
		request.Header.Set("Authorization", client.authHeader)
	}
	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", apiVersion)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// ETag for conditional GET requests.
	if method == http.MethodGet {
		if etag := client.etagCache.get(url); etag != "" {
			request.Header.Set("If-None-Match", etag)
		}
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("github: %s %s: %w", method, url, err)
	}
	defer response.Body.Close()

	// Update rate limit tracker from every response.
	client.rateLimit.update(response.Header)

	// Handle 304 Not Modified — return the cached body.
	if response.StatusCode == http.StatusNotModified {
		if cached := client.etagCache.body(url); cached != nil {
			return cached, nil
		}
		// Cache miss on 304 — should not happen, but fall through to
		// read the (empty) response body rather than failing silently.
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		// Rate limited — attempt one retry after backoff. Only retry
		// once to avoid looping on persistent rate limiting.
		if !isRetry && (response.StatusCode == 429 || (response.StatusCode == 403 && isRateLimitMessage(string(body)))) {
			retryDuration := client.rateLimit.retryAfter(response.Header)
			if retryDuration > 0 {
				client.logger.Info("rate limited, backing off",
					"duration", retryDuration,
					"method", method,
					"path", path,
				)

				select {
				case <-client.clock.After(retryDuration):
				case <-ctx.Done():
					return nil, ctx.Err()
				}

				return client.doWithRetry(ctx, method, path, requestBody, true)
			}
		}

		return nil, parseAPIError(response.StatusCode, body)
	}

	// Cache ETag for GET responses.
	if method == http.MethodGet {
		if etag := response.Header.Get("ETag"); etag != "" {
			client.etagCache.put(url, etag, body)
		}
	}

	return body, nil
}

// get is a convenience method for GET requests that return a single
// JSON object. Decodes the response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// put is a convenience method for PUT requests that return a JSON
// object. Decodes the response into result when result is non-nil.
func (client *Client) put(ctx context.Context, path string, requestBody any, result any) error {
	body, err := client.do(ctx, http.MethodPut, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}

// parseAPIError parses a GitHub API error from a status code and
// response body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Message          string            `json:"message"`
		DocumentationURL string            `json:"documentation_url"`
		Errors           []ValidationError `json:"errors"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
		apiError.DocumentationURL = wireError.DocumentationURL
		apiError.Errors = wireError.Errors
	} else {
		apiError.Message = string(body)
	}

	return apiError
}
