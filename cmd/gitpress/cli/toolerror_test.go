// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestToolError_WrapsAndUnwraps(t *testing.T) {
	inner := errors.New("root cause")
	wrapped := Internal("doing the thing: %w", inner)

	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is cannot see through the ToolError wrapper")
	}
	var toolErr *ToolError
	if !errors.As(fmt.Errorf("outer: %w", wrapped), &toolErr) {
		t.Fatal("errors.As cannot find the ToolError in a chain")
	}
	if toolErr.Category != CategoryInternal {
		t.Errorf("Category = %q, want internal", toolErr.Category)
	}
}

func TestToolError_ExitCodes(t *testing.T) {
	cases := []struct {
		err  *ToolError
		want int
	}{
		{Validation("bad input"), 2},
		{Forbidden("login required"), 3},
		{NotFound("no such post"), 4},
		{Conflict("concurrent write"), 5},
		{Transient("network blip"), 6},
		{Internal("bug"), 1},
	}
	for _, testCase := range cases {
		if got := testCase.err.ExitCode(); got != testCase.want {
			t.Errorf("%s: ExitCode = %d, want %d", testCase.err.Category, got, testCase.want)
		}
	}
}
