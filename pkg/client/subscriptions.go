// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/subscriptions"
)

func subscriptionPath(id string, action string) string {
	p := "/api/v0/subscriptions/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) ListSubscriptions(ctx context.Context) ([]*types.Subscription, error) {
	var out []*types.Subscription
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v0/subscriptions", idempotent: true}, &out)
	return out, err
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*types.Subscription, error) {
	out := new(types.Subscription)
	if err := c.do(ctx, request{method: http.MethodGet, path: subscriptionPath(id, ""), idempotent: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubscriptionStats(ctx context.Context) (*types.SubscriptionStats, error) {
	out := new(types.SubscriptionStats)
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v0/subscriptions/stats", idempotent: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ActiveSubscriptionsForClient(ctx context.Context, clientID string) ([]*types.Subscription, error) {
	var out []*types.Subscription
	path := "/api/v0/subscriptions/client/" + url.PathEscape(clientID) + "/active"
	err := c.do(ctx, request{method: http.MethodGet, path: path, idempotent: true}, &out)
	return out, err
}

// ExpiringSubscriptions lists subscriptions of entityID expiring within days,
// zero keeps the server default window.
func (c *Client) ExpiringSubscriptions(ctx context.Context, entityID string, days int) ([]*types.Subscription, error) {
	query := url.Values{}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}

	var out []*types.Subscription
	path := "/api/v0/subscriptions/entity/" + url.PathEscape(entityID) + "/expiring"
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, idempotent: true}, &out)
	return out, err
}

func (c *Client) CreateSubscription(ctx context.Context, req subscriptions.CreateSubscriptionRequest) (*types.Subscription, error) {
	out := new(types.Subscription)
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/v0/subscriptions", body: req}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UseSession consumes one session, bookingID makes retries safe.
func (c *Client) UseSession(ctx context.Context, id, bookingID string) (*types.Subscription, error) {
	out := new(types.Subscription)
	req := request{
		method:     http.MethodPost,
		path:       subscriptionPath(id, "use-session"),
		body:       subscriptions.UseSessionRequest{BookingID: bookingID},
		idempotent: true,
	}
	if err := c.do(ctx, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelSubscription(ctx context.Context, id, reason string) error {
	req := request{
		method: http.MethodPatch,
		path:   subscriptionPath(id, "cancel"),
		body:   subscriptions.CancelRequest{Reason: reason},
	}
	return c.do(ctx, req, nil)
}

func (c *Client) PauseSubscription(ctx context.Context, id string) (*types.Subscription, error) {
	out := new(types.Subscription)
	if err := c.do(ctx, request{method: http.MethodPatch, path: subscriptionPath(id, "pause")}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ResumeSubscription(ctx context.Context, id string) (*types.Subscription, error) {
	out := new(types.Subscription)
	if err := c.do(ctx, request{method: http.MethodPatch, path: subscriptionPath(id, "resume")}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RenewSubscription(ctx context.Context, id string) (*types.Subscription, error) {
	out := new(types.Subscription)
	if err := c.do(ctx, request{method: http.MethodPost, path: subscriptionPath(id, "renew")}, out); err != nil {
		return nil, err
	}
	return out, nil
}
