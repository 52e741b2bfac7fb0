// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"time"

	"github.com/canonical/scheduling-service/internal/types"
)

// StorageInterface is implemented by the Postgres store and by the in-memory
// store used for development and tests.
type StorageInterface interface {
	CreateEntity(ctx context.Context, e *types.Entity) (*types.Entity, error)
	GetEntity(ctx context.Context, id string) (*types.Entity, error)
	ListEntities(ctx context.Context) ([]*types.Entity, error)
	UpdateEntityTier(ctx context.Context, id string, tier types.Tier) (*types.Entity, error)
	CompleteOnboarding(ctx context.Context, id string) (*types.Entity, error)

	AddMember(ctx context.Context, entityID, identityID string, role types.Role) (string, error)
	ListMembershipsByIdentity(ctx context.Context, identityID string) ([]*types.Membership, error)
	ListMembersByEntity(ctx context.Context, entityID string) ([]*types.Membership, error)
	RemoveMember(ctx context.Context, entityID, identityID string) error

	CreateService(ctx context.Context, svc *types.Service) (*types.Service, error)
	ListServices(ctx context.Context, entityID string) ([]*types.Service, error)
	GetServicesByIDs(ctx context.Context, entityID string, ids []string) ([]*types.Service, error)

	CreatePackage(ctx context.Context, p *types.Package) (*types.Package, error)
	GetPackage(ctx context.Context, id string) (*types.Package, error)
	UpdatePackage(ctx context.Context, p *types.Package) (*types.Package, error)
	UpdatePackageStatus(ctx context.Context, id string, from, to types.PackageStatus) (*types.Package, error)
	SoftDeletePackage(ctx context.Context, id string) error
	ListPackages(ctx context.Context, entityID string, filter types.PackageFilter) ([]*types.Package, error)

	CreateSubscription(ctx context.Context, sub *types.Subscription) (*types.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*types.Subscription, error)
	GetRenewal(ctx context.Context, previousID string) (*types.Subscription, error)
	ListSubscriptions(ctx context.Context, entityID string) ([]*types.Subscription, error)
	ListSubscriptionsByClient(ctx context.Context, entityID, clientID string) ([]*types.Subscription, error)
	ListSubscriptionsExpiringBetween(ctx context.Context, entityID string, from, to time.Time) ([]*types.Subscription, error)
	ListSubscriptionsDue(ctx context.Context, now time.Time, limit int) ([]*types.Subscription, error)
	ConsumeSession(ctx context.Context, entityID, id, bookingRef string, now time.Time) (*types.Subscription, error)
	TransitionSubscription(ctx context.Context, t SubscriptionTransition) (*types.Subscription, error)
}

// SubscriptionTransition is a compare-and-swap on the stored status: it only
// applies when the current status is one of From.
type SubscriptionTransition struct {
	EntityID string
	ID       string
	From     []types.SubscriptionStatus
	To       types.SubscriptionStatus
	At       time.Time
	Reason   string
}
