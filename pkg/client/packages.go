// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/packages"
)

func (c *Client) ListPackages(ctx context.Context, filter types.PackageFilter) ([]*types.Package, error) {
	query := url.Values{}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.Recurrence != nil {
		query.Set("recurrence", string(*filter.Recurrence))
	}

	var out []*types.Package
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v0/packages", query: query, idempotent: true}, &out)
	return out, err
}

func (c *Client) GetPackage(ctx context.Context, id string) (*types.Package, error) {
	out := new(types.Package)
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v0/packages/" + url.PathEscape(id), idempotent: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePackage(ctx context.Context, req packages.CreatePackageRequest) (*types.Package, error) {
	out := new(types.Package)
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/v0/packages", body: req}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdatePackage(ctx context.Context, id string, req packages.UpdatePackageRequest) (*types.Package, error) {
	out := new(types.Package)
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/api/v0/packages/" + url.PathEscape(id), body: req, idempotent: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TogglePackageStatus(ctx context.Context, id string) (*types.Package, error) {
	out := new(types.Package)
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/api/v0/packages/" + url.PathEscape(id) + "/toggle-status"}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetPackageStatus(ctx context.Context, id string, status types.PackageStatus) (*types.Package, error) {
	out := new(types.Package)
	req := request{
		method:     http.MethodPatch,
		path:       "/api/v0/packages/" + url.PathEscape(id) + "/status",
		body:       packages.SetStatusRequest{Status: status},
		idempotent: true,
	}
	if err := c.do(ctx, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeletePackage(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/v0/packages/" + url.PathEscape(id), idempotent: true}, nil)
}
