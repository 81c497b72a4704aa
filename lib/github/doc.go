// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

// Package github provides a typed Go client for the slice of the GitHub
// REST API that Gitpress consumes: the authenticated identity endpoint,
// the repository contents endpoint (read descriptor, create-or-update
// with a blob SHA precondition), and the unauthenticated raw-content
// host for public snapshot reads.
//
// The client authenticates with a personal access token. A client with
// no token is valid and limited to public reads — mutations fail with
// the API's own 401/404 responses. The client handles rate limiting
// (X-RateLimit-* headers with automatic backoff), conditional requests
// (ETags), and structured error mapping.
//
// All API requests are made over HTTPS. The client refuses non-HTTPS
// base URLs.
package github
