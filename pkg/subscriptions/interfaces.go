// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package subscriptions

import (
	"context"
	"time"

	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/types"
)

type ServiceInterface interface {
	Create(ctx context.Context, entityID, packageID, clientID string, autoRenew bool) (*types.Subscription, error)
	Get(ctx context.Context, entityID, id string) (*types.Subscription, error)
	UseSession(ctx context.Context, entityID, id, bookingRef string) (*types.Subscription, error)
	Cancel(ctx context.Context, entityID, id, reason string) (*types.Subscription, error)
	Pause(ctx context.Context, entityID, id string) (*types.Subscription, error)
	Resume(ctx context.Context, entityID, id string) (*types.Subscription, error)
	Renew(ctx context.Context, entityID, id string) (*types.Subscription, error)
	List(ctx context.Context, entityID string) ([]*types.Subscription, error)
	ListActiveByClient(ctx context.Context, entityID, clientID string) ([]*types.Subscription, error)
	ListExpiringSoon(ctx context.Context, entityID string, withinDays int) ([]*types.Subscription, error)
	Stats(ctx context.Context, entityID string) (types.SubscriptionStats, error)
}

type StorageInterface interface {
	GetPackage(ctx context.Context, id string) (*types.Package, error)
	CreateSubscription(ctx context.Context, sub *types.Subscription) (*types.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*types.Subscription, error)
	GetRenewal(ctx context.Context, previousID string) (*types.Subscription, error)
	ListSubscriptions(ctx context.Context, entityID string) ([]*types.Subscription, error)
	ListSubscriptionsByClient(ctx context.Context, entityID, clientID string) ([]*types.Subscription, error)
	ListSubscriptionsExpiringBetween(ctx context.Context, entityID string, from, to time.Time) ([]*types.Subscription, error)
	ListSubscriptionsDue(ctx context.Context, now time.Time, limit int) ([]*types.Subscription, error)
	ConsumeSession(ctx context.Context, entityID, id, bookingRef string, now time.Time) (*types.Subscription, error)
	TransitionSubscription(ctx context.Context, t storage.SubscriptionTransition) (*types.Subscription, error)
}

// ClientDirectoryInterface looks up client identities, see internal/kratos.
type ClientDirectoryInterface interface {
	IdentityExists(ctx context.Context, id string) (bool, error)
}
