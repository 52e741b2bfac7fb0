// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/ory/hydra/v2/oauth2"

	"github.com/canonical/scheduling-service/internal/types"
)

// StorageInterface is the subset of internal/storage read by the hooks.
type StorageInterface interface {
	ListMembershipsByIdentity(ctx context.Context, identityID string) ([]*types.Membership, error)
}

// ProvisionerInterface creates an entity owned by an identity, see entities.Service.
type ProvisionerInterface interface {
	CreateEntity(ctx context.Context, name string, tier types.Tier, ownerID string) (*types.Entity, error)
}

// PrincipalResolverInterface picks role and tier of an identity, see authentication.PrincipalResolver.
type PrincipalResolverInterface interface {
	Resolve(ctx context.Context, identityID, entityID string) (*types.Principal, error)
}

// ServiceInterface defines the webhook service operations.
type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identityID, email string) error
	HandleTokenHook(ctx context.Context, req *oauth2.TokenHookRequest) (*TokenHookResponse, error)
}
