// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"fmt"
	"testing"
)

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 422, Message: "Validation Failed", Errors: []ValidationError{
		{Resource: "Content", Field: "sha", Code: "invalid"},
	}}
	want := "github: HTTP 422: Validation Failed; Content.sha: invalid"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		predicate func(error) bool
		want      bool
	}{
		{"not found", &APIError{StatusCode: 404}, IsNotFound, true},
		{"not found wrapped", fmt.Errorf("outer: %w", &APIError{StatusCode: 404}), IsNotFound, true},
		{"not found on 500", &APIError{StatusCode: 500}, IsNotFound, false},
		{"unauthorized", &APIError{StatusCode: 401}, IsUnauthorized, true},
		{"conflict", &APIError{StatusCode: 409}, IsConflict, true},
		{"validation", &APIError{StatusCode: 422}, IsValidationFailed, true},
		{"rate limit 429", &APIError{StatusCode: 429}, IsRateLimited, true},
		{"rate limit 403", &APIError{StatusCode: 403, Message: "API rate limit exceeded"}, IsRateLimited, true},
		{"permission 403 not rate limit", &APIError{StatusCode: 403, Message: "Resource not accessible"}, IsRateLimited, false},
		{"permission 403 forbidden", &APIError{StatusCode: 403, Message: "Resource not accessible"}, IsForbidden, true},
		{"rate limit 403 not forbidden", &APIError{StatusCode: 403, Message: "abuse detection triggered"}, IsForbidden, false},
		{"non-api error", fmt.Errorf("dial tcp: connection refused"), IsNotFound, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.predicate(testCase.err); got != testCase.want {
				t.Errorf("predicate = %v, want %v", got, testCase.want)
			}
		})
	}
}
