// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gitpress-project/gitpress/lib/clock"
)

// rateLimitTracker tracks GitHub API rate limit state from response
// headers. Every response updates the tracker with the latest remaining
// count and reset timestamp. Before a request is sent, the tracker
// blocks preemptively when the quota is exhausted, sleeping until the
// reset window.
type rateLimitTracker struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	known     bool // true after the first response with rate limit headers
	clock     clock.Clock
}

func newRateLimitTracker(clock clock.Clock) *rateLimitTracker {
	return &rateLimitTracker{clock: clock}
}

// update records rate limit state from HTTP response headers. Called
// after every API response. Responses without both headers (e.g., from
// the raw content host) are ignored.
func (tracker *rateLimitTracker) update(header http.Header) {
	remainingValue := header.Get("X-RateLimit-Remaining")
	resetValue := header.Get("X-RateLimit-Reset")
	if remainingValue == "" || resetValue == "" {
		return
	}

	remaining, err := strconv.Atoi(remainingValue)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(resetValue, 10, 64)
	if err != nil {
		return
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.remaining = remaining
	tracker.reset = time.Unix(resetUnix, 0)
	tracker.known = true
}

// wait blocks until the rate limit window resets if the tracker knows
// the quota is exhausted. Returns immediately when the quota is not
// exhausted, not yet known, or the reset time has passed.
//
// Returns an error only if the context is cancelled while waiting.
func (tracker *rateLimitTracker) wait(ctx context.Context) error {
	tracker.mu.Lock()
	if !tracker.known || tracker.remaining > 0 {
		tracker.mu.Unlock()
		return nil
	}
	sleepDuration := tracker.reset.Sub(tracker.clock.Now())
	tracker.mu.Unlock()

	if sleepDuration <= 0 {
		return nil
	}

	select {
	case <-tracker.clock.After(sleepDuration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter computes the backoff duration from a rate-limited
// response. Checks the Retry-After header first (secondary rate
// limits), then falls back to the X-RateLimit-Reset timestamp. Returns
// zero if no backoff information is available.
func (tracker *rateLimitTracker) retryAfter(header http.Header) time.Duration {
	if retryValue := header.Get("Retry-After"); retryValue != "" {
		if seconds, err := strconv.Atoi(retryValue); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	if resetValue := header.Get("X-RateLimit-Reset"); resetValue != "" {
		if resetUnix, err := strconv.ParseInt(resetValue, 10, 64); err == nil {
			duration := time.Unix(resetUnix, 0).Sub(tracker.clock.Now())
			if duration > 0 {
				return duration
			}
		}
	}

	return 0
}
