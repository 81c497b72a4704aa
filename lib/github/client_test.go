// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gitpress-project/gitpress/lib/clock"
)

// newTestClient creates a Client backed by the given httptest.Server,
// using the same server for both API and raw content requests.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		RawBaseURL: server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      clock.Real(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_HTTPSEnforcement(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://api.github.com", Token: "test"})
	if err == nil {
		t.Fatal("expected error for HTTP API URL")
	}

	_, err = NewClient(Config{RawBaseURL: "http://raw.githubusercontent.com", Token: "test"})
	if err == nil {
		t.Fatal("expected error for HTTP raw URL")
	}
}

func TestNewClient_TokenOptional(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient without token: %v", err)
	}
	if client.Authenticated() {
		t.Error("client without token reports Authenticated")
	}
}

func TestClient_AuthHeaderInjection(t *testing.T) {
	var receivedAuth string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAuth = request.Header.Get("Authorization")
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"login":"alice"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.AuthenticatedUser(context.Background()); err != nil {
		t.Fatalf("AuthenticatedUser: %v", err)
	}

	if receivedAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer test-token")
	}
}

func TestClient_GitHubHeaders(t *testing.T) {
	var receivedAccept, receivedVersion string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAccept = request.Header.Get("Accept")
		receivedVersion = request.Header.Get("X-GitHub-Api-Version")
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"login":"alice"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.AuthenticatedUser(context.Background()); err != nil {
		t.Fatalf("AuthenticatedUser: %v", err)
	}

	if receivedAccept != "application/vnd.github+json" {
		t.Errorf("Accept = %q, want %q", receivedAccept, "application/vnd.github+json")
	}
	if receivedVersion != apiVersion {
		t.Errorf("X-GitHub-Api-Version = %q, want %q", receivedVersion, apiVersion)
	}
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var sawAuthHeader bool
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "" {
			sawAuthHeader = true
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"name":"posts.json","path":"posts.json","sha":"abc","type":"file"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		RawBaseURL: server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.GetContent(context.Background(), "owner", "repo", "posts.json", ""); err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if sawAuthHeader {
		t.Error("unauthenticated client sent an Authorization header")
	}
}

func TestClient_RateLimitBackoff(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	requestCount := 0
	resetTime := fakeClock.Now().Add(30 * time.Second)

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
		if requestCount == 1 {
			writer.Header().Set("X-RateLimit-Remaining", "0")
			writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
			writer.Header().Set("Retry-After", "30")
			writer.WriteHeader(http.StatusForbidden)
			json.NewEncoder(writer).Encode(map[string]string{
				"message": "API rate limit exceeded",
			})
			return
		}
		writer.Header().Set("X-RateLimit-Remaining", "4999")
		writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Add(1*time.Hour).Unix(), 10))
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"login":"alice","id":7}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		RawBaseURL: server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      fakeClock,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// Run the request in a goroutine since it blocks on the backoff.
	done := make(chan error, 1)
	var user *User
	go func() {
		var requestErr error
		user, requestErr = client.AuthenticatedUser(context.Background())
		done <- requestErr
	}()

	// Wait for the backoff timer to register, then advance past it.
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(31 * time.Second)

	if err := <-done; err != nil {
		t.Fatalf("AuthenticatedUser: %v", err)
	}

	if requestCount != 2 {
		t.Errorf("expected 2 requests (rate limited + retry), got %d", requestCount)
	}
	if user == nil || user.Login != "alice" {
		t.Errorf("expected user alice, got %+v", user)
	}
}

func TestClient_ETagCaching(t *testing.T) {
	requestCount := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
		if request.Header.Get("If-None-Match") == `"etag-123"` {
			writer.WriteHeader(http.StatusNotModified)
			return
		}
		writer.Header().Set("ETag", `"etag-123"`)
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"name":"posts.json","path":"posts.json","sha":"abc123","type":"file"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	first, err := client.GetContent(ctx, "owner", "repo", "posts.json", "")
	if err != nil {
		t.Fatalf("first GetContent: %v", err)
	}
	if first.SHA != "abc123" {
		t.Errorf("first SHA = %q, want %q", first.SHA, "abc123")
	}

	// Second request gets 304 and must reuse the cached body.
	second, err := client.GetContent(ctx, "owner", "repo", "posts.json", "")
	if err != nil {
		t.Fatalf("second GetContent: %v", err)
	}
	if second.SHA != "abc123" {
		t.Errorf("second SHA = %q, want %q", second.SHA, "abc123")
	}

	if requestCount != 2 {
		t.Errorf("expected 2 HTTP requests, got %d", requestCount)
	}
}

func TestClient_ErrorParsing(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]any{
			"message":           "Not Found",
			"documentation_url": "https://docs.github.com/rest",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetContent(context.Background(), "owner", "repo", "missing.json", "")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got: %v", err)
	}
}

func TestClient_UnauthorizedParsing(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(writer).Encode(map[string]string{"message": "Bad credentials"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.AuthenticatedUser(context.Background())
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected IsUnauthorized, got: %v", err)
	}
}
