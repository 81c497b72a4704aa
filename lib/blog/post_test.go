// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDecodeSnapshot_Defaults(t *testing.T) {
	posts, err := DecodeSnapshot([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot of an empty document: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("expected an empty non-nil collection, got %#v", posts)
	}

	posts, err = DecodeSnapshot([]byte(`{"posts":[{"id":1,"title":"t","content":"c"}]}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Tags == nil || len(posts[0].Tags) != 0 {
		t.Errorf("absent tags should decode to an empty slice, got %#v", posts[0].Tags)
	}
	if posts[0].Views != 0 {
		t.Errorf("absent views should decode to 0, got %d", posts[0].Views)
	}
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`not json`)); err == nil {
		t.Error("expected an error for a malformed document")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := []Post{
		{ID: 1710000000001, Title: "second", Content: "body two", Tags: []string{"go", "web"}, Date: "2026-03-10", Views: 12, Author: "alice"},
		{ID: 1710000000000, Title: "first", Content: "body one", Tags: []string{}, Date: "2026-03-09", Views: 0, Author: "alice"},
	}
	updatedAt := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	raw, err := EncodeSnapshot(original, updatedAt)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	decoded, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round trip changed the collection:\n got %#v\nwant %#v", decoded, original)
	}
	if !strings.Contains(string(raw), `"updated_at": "2026-03-10T08:00:00Z"`) {
		t.Errorf("document lacks the write timestamp:\n%s", raw)
	}
}

func TestEncodeSnapshot_NilPosts(t *testing.T) {
	raw, err := EncodeSnapshot(nil, time.Now())
	if err != nil {
		t.Fatalf("EncodeSnapshot(nil): %v", err)
	}
	if !strings.Contains(string(raw), `"posts": []`) {
		t.Errorf("nil collection should serialize as an empty array:\n%s", raw)
	}
}

func TestClonePosts_Independence(t *testing.T) {
	original := []Post{{ID: 1, Title: "t", Tags: []string{"a", "b"}, Views: 1}}

	cloned := clonePosts(original)
	cloned[0].Views = 99
	cloned[0].Tags[0] = "mutated"

	if original[0].Views != 1 {
		t.Errorf("clone shares view counts: original Views = %d", original[0].Views)
	}
	if original[0].Tags[0] != "a" {
		t.Errorf("clone shares the tag backing array: original Tags = %v", original[0].Tags)
	}
}
