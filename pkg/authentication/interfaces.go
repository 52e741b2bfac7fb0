// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/scheduling-service/internal/types"
)

type ProviderInterface interface {
	// Verifier returns the token verifier associated with the specified OIDC issuer
	Verifier(*oidc.Config) *oidc.IDTokenVerifier
}

type TokenVerifierInterface interface {
	// VerifyToken verifies a raw JWT string and validates authorization claims
	VerifyToken(ctx context.Context, rawToken string) (*Claims, error)
}

type PrincipalResolverInterface interface {
	// Resolve builds the principal of an authenticated identity, entityID
	// selects one of its memberships and may be empty
	Resolve(ctx context.Context, identityID, entityID string) (*types.Principal, error)
}

type StorageInterface interface {
	ListMembershipsByIdentity(ctx context.Context, identityID string) ([]*types.Membership, error)
	GetEntity(ctx context.Context, id string) (*types.Entity, error)
}
