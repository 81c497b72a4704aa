// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
)

// AuthenticatedUser fetches the profile behind the client's token via
// the /user endpoint. This both resolves the identity (login, avatar,
// profile fields) and proves the token is currently valid — GitHub
// returns 401 for a malformed or revoked token.
func (client *Client) AuthenticatedUser(ctx context.Context) (*User, error) {
	var user User
	if err := client.get(ctx, "/user", &user); err != nil {
		return nil, fmt.Errorf("fetching authenticated user: %w", err)
	}
	return &user, nil
}
