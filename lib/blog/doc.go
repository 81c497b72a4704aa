// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

// Package blog implements the Gitpress core: a post collection whose
// canonical state is a single JSON snapshot document stored in a
// GitHub repository.
//
// The package has three cooperating pieces:
//
//   - Credentials holds the personal access token and the identity
//     resolved from it. Mutations require a resolved identity.
//   - Store owns the in-memory snapshot and performs the strict
//     read-modify-write cycle against the remote document: fetch the
//     current blob SHA, write the full new snapshot with that SHA as
//     an optimistic-concurrency precondition.
//   - SnapshotCache keeps the last successfully fetched snapshot on
//     disk so reads can degrade to stale data when the remote is
//     unreachable.
//
// The store never merges: every mutation rewrites the whole document.
// The SHA precondition detects a concurrent writer; it does not
// resolve the race. Retrying is the caller's decision. Overlapping
// Persist calls from one session are not serialized — callers must
// keep at most one mutation in flight.
package blog
