// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by the snapshot wire
// format. Posts carry a creation day, not a timestamp.
const DateLayout = "2006-01-02"

// Post is one blog entry. ID is an integer derived from the creation
// time in milliseconds and is unique within the collection. Date and
// Author are fixed at creation; Views is the only field mutated in
// place.
type Post struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"` // DateLayout
	Views   int      `json:"views"`
	Author  string   `json:"author"`
}

// Draft is the caller-supplied part of a new post. The store fills in
// identity, timestamps, and the view counter.
type Draft struct {
	Title   string
	Content string
	Tags    []string
}

// snapshot is the persisted document: the full ordered post collection
// (newest first) plus the time of the last write. There is no per-post
// persistence and no schema version field.
type snapshot struct {
	Posts     []Post    `json:"posts"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DecodeSnapshot parses a snapshot document into its post collection.
// Absent fields take their documented defaults: nil tags become an
// empty slice, absent views stay zero. A document with no posts field
// yields an empty collection.
func DecodeSnapshot(data []byte) ([]Post, error) {
	var document snapshot
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("blog: parsing snapshot: %w", err)
	}
	posts := document.Posts
	if posts == nil {
		posts = []Post{}
	}
	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
	return posts, nil
}

// EncodeSnapshot serializes a post collection and write time into the
// snapshot wire format. The document is indented — it lives in a git
// repository and gets read by humans in diffs.
func EncodeSnapshot(posts []Post, updatedAt time.Time) ([]byte, error) {
	if posts == nil {
		posts = []Post{}
	}
	data, err := json.MarshalIndent(snapshot{Posts: posts, UpdatedAt: updatedAt.UTC()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("blog: encoding snapshot: %w", err)
	}
	return data, nil
}

// clonePosts returns a deep-enough copy of a post collection: the
// slice and each post's tag slice are fresh, so neither side can
// mutate the other's view counts or tags through shared backing
// arrays.
func clonePosts(posts []Post) []Post {
	copied := make([]Post, len(posts))
	copy(copied, posts)
	for i := range copied {
		if copied[i].Tags != nil {
			copied[i].Tags = append([]string(nil), copied[i].Tags...)
		}
	}
	return copied
}
