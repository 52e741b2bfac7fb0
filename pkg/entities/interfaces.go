// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package entities

import (
	"context"

	ory "github.com/ory/client-go"
	"github.com/shopspring/decimal"

	"github.com/canonical/scheduling-service/internal/types"
)

type ServiceInterface interface {
	GetEntity(ctx context.Context, entityID string) (*types.Entity, error)
	CreateEntity(ctx context.Context, name string, tier types.Tier, ownerID string) (*types.Entity, error)
	CompleteOnboarding(ctx context.Context, entityID string) (*types.Entity, error)
	ChangeTier(ctx context.Context, entityID string, tier types.Tier) (*types.Entity, error)
	InviteMember(ctx context.Context, entityID, email string, role types.Role) (string, string, error)
	ListMembers(ctx context.Context, entityID string) ([]*types.Member, error)
	RemoveMember(ctx context.Context, entityID, identityID string) error
	ListServices(ctx context.Context, entityID string) ([]*types.Service, error)
	CreateService(ctx context.Context, entityID, name string, price decimal.Decimal) (*types.Service, error)
}

type StorageInterface interface {
	CreateEntity(ctx context.Context, e *types.Entity) (*types.Entity, error)
	GetEntity(ctx context.Context, id string) (*types.Entity, error)
	UpdateEntityTier(ctx context.Context, id string, tier types.Tier) (*types.Entity, error)
	CompleteOnboarding(ctx context.Context, id string) (*types.Entity, error)
	AddMember(ctx context.Context, entityID, identityID string, role types.Role) (string, error)
	ListMembersByEntity(ctx context.Context, entityID string) ([]*types.Membership, error)
	RemoveMember(ctx context.Context, entityID, identityID string) error
	CreateService(ctx context.Context, svc *types.Service) (*types.Service, error)
	ListServices(ctx context.Context, entityID string) ([]*types.Service, error)
}

type AuthzInterface interface {
	AssignEntityOwner(ctx context.Context, entityID, userID string) error
	AssignEntityMember(ctx context.Context, entityID, userID string) error
	RemoveEntityMember(ctx context.Context, entityID, userID string) error
	AssignPlatformAdmin(ctx context.Context, userID string) error
	LinkEntityToPlatform(ctx context.Context, entityID string) error
	CheckEntityAccess(ctx context.Context, entityID, userID, relation string) (bool, error)
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email string) (string, error)
	GetIdentity(ctx context.Context, id string) (*ory.Identity, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}

// CacheInterface drops cached copies of an entity after it changed.
type CacheInterface interface {
	Invalidate(id string)
}
