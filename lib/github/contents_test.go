// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetContent_RefQuery(t *testing.T) {
	var receivedPath, receivedRef string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.Path
		receivedRef = request.URL.Query().Get("ref")
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"name":"posts.json","path":"posts.json","sha":"blob-sha-1","size":42,"type":"file"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	content, err := client.GetContent(context.Background(), "alice", "blog-data", "posts.json", "main")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}

	if receivedPath != "/repos/alice/blog-data/contents/posts.json" {
		t.Errorf("request path = %q", receivedPath)
	}
	if receivedRef != "main" {
		t.Errorf("ref = %q, want %q", receivedRef, "main")
	}
	if content.SHA != "blob-sha-1" {
		t.Errorf("SHA = %q, want %q", content.SHA, "blob-sha-1")
	}
}

func TestPutContent_CarriesPrecondition(t *testing.T) {
	var received PutContentRequest
	var receivedMethod string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedMethod = request.Method
		if err := json.NewDecoder(request.Body).Decode(&received); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{
			"content": {"name":"posts.json","path":"posts.json","sha":"blob-sha-2","type":"file"},
			"commit": {"sha":"commit-sha","message":"update posts"}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	body := base64.StdEncoding.EncodeToString([]byte(`{"posts":[]}`))
	update, err := client.PutContent(context.Background(), "alice", "blog-data", "posts.json", PutContentRequest{
		Message: "update posts",
		Content: body,
		SHA:     "blob-sha-1",
		Branch:  "main",
	})
	if err != nil {
		t.Fatalf("PutContent: %v", err)
	}

	if receivedMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", receivedMethod)
	}
	if received.SHA != "blob-sha-1" {
		t.Errorf("request SHA = %q, want %q", received.SHA, "blob-sha-1")
	}
	if received.Content != body {
		t.Errorf("request content not passed through")
	}
	if update.Content.SHA != "blob-sha-2" {
		t.Errorf("updated SHA = %q, want %q", update.Content.SHA, "blob-sha-2")
	}
	if update.Commit.SHA != "commit-sha" {
		t.Errorf("commit SHA = %q", update.Commit.SHA)
	}
}

func TestPutContent_PreconditionRejected(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusConflict)
		json.NewEncoder(writer).Encode(map[string]string{
			"message": "posts.json does not match blob-sha-stale",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.PutContent(context.Background(), "alice", "blog-data", "posts.json", PutContentRequest{
		Message: "update posts",
		Content: "e30=",
		SHA:     "blob-sha-stale",
	})
	if err == nil {
		t.Fatal("expected error for 409")
	}
	if !IsConflict(err) {
		t.Errorf("expected IsConflict, got: %v", err)
	}
}

func TestDownloadRaw_NoAuthHeader(t *testing.T) {
	var receivedAuth, receivedPath string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAuth = request.Header.Get("Authorization")
		receivedPath = request.URL.Path
		writer.Write([]byte(`{"posts":[],"updated_at":"2026-05-01T09:00:00Z"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	body, err := client.DownloadRaw(context.Background(), "alice", "blog-data", "main", "posts.json")
	if err != nil {
		t.Fatalf("DownloadRaw: %v", err)
	}

	if receivedAuth != "" {
		t.Errorf("raw download sent Authorization header %q", receivedAuth)
	}
	if receivedPath != "/alice/blog-data/main/posts.json" {
		t.Errorf("raw path = %q", receivedPath)
	}
	if len(body) == 0 {
		t.Error("empty body")
	}
}

func TestDownloadRaw_EscapesPathSegments(t *testing.T) {
	var receivedPath string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.EscapedPath()
		writer.Write([]byte(`{"posts":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.DownloadRaw(context.Background(), "alice", "blog-data", "main", "blog posts/2026 draft.json"); err != nil {
		t.Fatalf("DownloadRaw: %v", err)
	}

	if receivedPath != "/alice/blog-data/main/blog%20posts/2026%20draft.json" {
		t.Errorf("raw path = %q, want each segment percent-encoded", receivedPath)
	}
}

func TestDownloadRaw_NotFound(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		writer.Write([]byte("404: Not Found"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.DownloadRaw(context.Background(), "alice", "blog-data", "main", "posts.json")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got: %v", err)
	}
}
