// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/scheduling-service/internal/types"
)

type principalContextKey struct{}

// WithPrincipal returns a new context carrying the principal of the request.
func WithPrincipal(ctx context.Context, p *types.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal of the request, an
// unauthenticated one when none was attached.
func PrincipalFromContext(ctx context.Context) *types.Principal {
	if p, ok := ctx.Value(principalContextKey{}).(*types.Principal); ok && p != nil {
		return p
	}
	return &types.Principal{}
}

// GetUserID retrieves the authenticated identity ID from the context.
func GetUserID(ctx context.Context) (string, bool) {
	p := PrincipalFromContext(ctx)
	if !p.Authenticated || p.ID == "" {
		return "", false
	}
	return p.ID, true
}
