// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package subscriptions is the ledger of packages purchased by clients.
//
// The functions in this file are pure: they take already fetched state and a
// clock reading. Writes go through the storage primitives, which re-check the
// same preconditions atomically.
package subscriptions

import (
	"fmt"
	"slices"
	"time"

	"github.com/canonical/scheduling-service/internal/types"
)

var transitions = map[types.SubscriptionStatus][]types.SubscriptionStatus{
	types.SubscriptionStatusActive: {
		types.SubscriptionStatusPaused,
		types.SubscriptionStatusCancelled,
		types.SubscriptionStatusExpired,
	},
	types.SubscriptionStatusPaused: {
		types.SubscriptionStatusActive,
		types.SubscriptionStatusCancelled,
		types.SubscriptionStatusExpired,
	},
}

// CanTransition reports whether the state machine has an edge from -> to,
// cancelled and expired are terminal.
func CanTransition(from, to types.SubscriptionStatus) bool {
	return slices.Contains(transitions[from], to)
}

// sources lists the states with an edge into to.
func sources(to types.SubscriptionStatus) []types.SubscriptionStatus {
	var from []types.SubscriptionStatus
	for _, s := range []types.SubscriptionStatus{types.SubscriptionStatusActive, types.SubscriptionStatusPaused} {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// EffectiveStatus is the status consumers must act on: a live subscription
// past its expiry date is expired whether or not it was reconciled.
func EffectiveStatus(sub *types.Subscription, now time.Time) types.SubscriptionStatus {
	switch sub.Status {
	case types.SubscriptionStatusActive, types.SubscriptionStatusPaused:
		if !now.Before(sub.ExpiryDate) {
			return types.SubscriptionStatusExpired
		}
	}
	return sub.Status
}

// CheckConsumable returns the reason a session cannot be used now, nil when it can.
func CheckConsumable(sub *types.Subscription, now time.Time) error {
	switch EffectiveStatus(sub, now) {
	case types.SubscriptionStatusExpired:
		return types.ErrSubscriptionExpired
	case types.SubscriptionStatusActive:
	default:
		return fmt.Errorf("%w: subscription is %s", types.ErrSubscriptionNotActive, sub.Status)
	}

	if now.Before(sub.StartDate) {
		return fmt.Errorf("%w: subscription starts on %s", types.ErrSubscriptionNotActive, sub.StartDate.Format(time.DateOnly))
	}

	if sub.SessionsUsed >= sub.SessionsTotal {
		return types.ErrSessionExhausted
	}

	return nil
}

// CheckTransition validates a move of the effective status to to.
func CheckTransition(sub *types.Subscription, to types.SubscriptionStatus, now time.Time) error {
	current := EffectiveStatus(sub, now)

	switch {
	case current == to:
		if to == types.SubscriptionStatusCancelled {
			return types.ErrAlreadyCancelled
		}
		return fmt.Errorf("%w: subscription is already %s", types.ErrInvalidTransition, to)
	case current == types.SubscriptionStatusCancelled:
		return types.ErrAlreadyCancelled
	case current == types.SubscriptionStatusExpired:
		return types.ErrSubscriptionExpired
	case !CanTransition(current, to):
		return fmt.Errorf("%w: cannot move from %s to %s", types.ErrInvalidTransition, current, to)
	}

	return nil
}

// NewSubscription opens a subscription to an active package starting at start.
func NewSubscription(pkg *types.Package, clientID string, autoRenew bool, start time.Time) (*types.Subscription, error) {
	if pkg.DeletedAt != nil || pkg.Status != types.PackageStatusActive {
		return nil, fmt.Errorf("%w: package %s is %s", types.ErrInvalidPackageState, pkg.ID, packageState(pkg))
	}

	return &types.Subscription{
		PackageID:     pkg.ID,
		ClientID:      clientID,
		EntityID:      pkg.EntityID,
		Status:        types.SubscriptionStatusActive,
		StartDate:     start,
		ExpiryDate:    start.AddDate(0, 0, pkg.ValidityDays),
		SessionsTotal: pkg.SessionsIncluded,
		SessionsUsed:  0,
		AutoRenew:     autoRenew,
	}, nil
}

// Renewal opens the follow up of prev, back to back with it when prev has
// not expired yet.
func Renewal(prev *types.Subscription, pkg *types.Package, now time.Time) (*types.Subscription, error) {
	start := now
	if prev.ExpiryDate.After(now) {
		start = prev.ExpiryDate
	}

	next, err := NewSubscription(pkg, prev.ClientID, prev.AutoRenew, start)
	if err != nil {
		return nil, err
	}
	next.RenewedFrom = prev.ID

	return next, nil
}

// ComputeStats aggregates the effectively active subscriptions.
func ComputeStats(subs []*types.Subscription, now time.Time) types.SubscriptionStats {
	var stats types.SubscriptionStats
	for _, s := range subs {
		if EffectiveStatus(s, now) != types.SubscriptionStatusActive {
			continue
		}
		stats.TotalActive++
		stats.TotalSessions += s.SessionsTotal
		stats.UsedSessions += s.SessionsUsed
	}

	if stats.TotalSessions > 0 {
		stats.UsagePercentage = float64(stats.UsedSessions) / float64(stats.TotalSessions) * 100
	}

	return stats
}

// ExpiringSoon keeps the effectively active subscriptions expiring in [now, now+within].
func ExpiringSoon(subs []*types.Subscription, now time.Time, within time.Duration) []*types.Subscription {
	until := now.Add(within)

	out := make([]*types.Subscription, 0, len(subs))
	for _, s := range subs {
		if EffectiveStatus(s, now) != types.SubscriptionStatusActive || s.ExpiryDate.After(until) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func withEffectiveStatus(now time.Time, subs ...*types.Subscription) {
	for _, s := range subs {
		s.EffectiveStatus = EffectiveStatus(s, now)
	}
}

func packageState(pkg *types.Package) string {
	if pkg.DeletedAt != nil {
		return "deleted"
	}
	return string(pkg.Status)
}
