// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/entities"
)

func (c *Client) CurrentEntity(ctx context.Context) (*types.Entity, error) {
	out := new(types.Entity)
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v0/entities/me", idempotent: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CompleteOnboarding(ctx context.Context) (*types.Entity, error) {
	out := new(types.Entity)
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/v0/entities/me/onboarding/complete", idempotent: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMembers(ctx context.Context) ([]*types.Member, error) {
	var out []*types.Member
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v0/entities/me/members", idempotent: true}, &out)
	return out, err
}

// InviteMember adds email to the caller's entity with role and returns the
// invitation link and code.
func (c *Client) InviteMember(ctx context.Context, email string, role types.Role) (*entities.InviteMemberResponse, error) {
	out := new(entities.InviteMemberResponse)
	req := request{
		method: http.MethodPost,
		path:   "/api/v0/entities/me/members",
		body:   entities.InviteMemberRequest{Email: email, Role: role},
	}
	if err := c.do(ctx, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveMember(ctx context.Context, identityID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/v0/entities/me/members/" + url.PathEscape(identityID), idempotent: true}, nil)
}
