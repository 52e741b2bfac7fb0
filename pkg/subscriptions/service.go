// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
)

const maxConsumeAttempts = 3

// MaxExpiringDays bounds the window of ListExpiringSoon.
const MaxExpiringDays = 3650

type Service struct {
	storage StorageInterface
	clients ClientDirectoryInterface

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) Create(ctx context.Context, entityID, packageID, clientID string, autoRenew bool) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Create")
	defer span.End()

	if clientID == "" {
		return nil, fmt.Errorf("%w: client id is required", types.ErrInvalidArgument)
	}

	pkg, err := s.storage.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if err := s.checkTenant(ctx, "package:"+packageID, entityID, pkg.EntityID); err != nil {
		return nil, err
	}

	if s.clients != nil {
		exists, err := s.clients.IdentityExists(ctx, clientID)
		if err != nil {
			return nil, types.NewRemoteUnavailable("lookup client identity", err)
		}
		if !exists {
			return nil, types.ErrClientNotFound
		}
	}

	draft, err := NewSubscription(pkg, clientID, autoRenew, s.now())
	if err != nil {
		s.record("create", err)
		return nil, err
	}

	sub, err := s.storage.CreateSubscription(ctx, draft)
	s.record("create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	withEffectiveStatus(s.now(), sub)

	return sub, nil
}

func (s *Service) Get(ctx context.Context, entityID, id string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Get")
	defer span.End()

	sub, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	withEffectiveStatus(s.now(), sub)

	return sub, nil
}

// UseSession consumes one session for bookingRef. Re-submitting a booking
// that was already recorded returns the subscription unchanged.
func (s *Service) UseSession(ctx context.Context, entityID, id, bookingRef string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.UseSession")
	defer span.End()

	if bookingRef == "" {
		return nil, fmt.Errorf("%w: booking reference is required", types.ErrInvalidArgument)
	}

	sub, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(sub.StartDate) {
		err := fmt.Errorf("%w: subscription starts on %s", types.ErrSubscriptionNotActive, sub.StartDate.Format(time.DateOnly))
		s.record("use_session", err)
		return nil, err
	}

	for attempt := 0; attempt < maxConsumeAttempts; attempt++ {
		updated, err := s.storage.ConsumeSession(ctx, entityID, id, bookingRef, now)
		if err == nil {
			s.record("use_session", nil)
			withEffectiveStatus(now, updated)
			return updated, nil
		}

		if !errors.Is(err, storage.ErrPreconditionFailed) {
			s.record("use_session", err)
			return nil, err
		}

		// the guarded increment matched nothing, tell the caller why
		current, err := s.storage.GetSubscription(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := CheckConsumable(current, now); err != nil {
			s.record("use_session", err)
			return nil, err
		}
	}

	err = fmt.Errorf("%w: subscription changed concurrently", types.ErrSubscriptionNotActive)
	s.record("use_session", err)

	return nil, err
}

// Cancel is not idempotent, cancelling twice reports ErrAlreadyCancelled.
func (s *Service) Cancel(ctx context.Context, entityID, id, reason string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Cancel")
	defer span.End()

	return s.transition(ctx, "cancel", entityID, id, types.SubscriptionStatusCancelled, reason)
}

func (s *Service) Pause(ctx context.Context, entityID, id string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Pause")
	defer span.End()

	return s.transition(ctx, "pause", entityID, id, types.SubscriptionStatusPaused, "")
}

func (s *Service) Resume(ctx context.Context, entityID, id string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Resume")
	defer span.End()

	return s.transition(ctx, "resume", entityID, id, types.SubscriptionStatusActive, "")
}

// Renew is idempotent, a subscription that was already renewed returns its
// existing follow up.
func (s *Service) Renew(ctx context.Context, entityID, id string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Renew")
	defer span.End()

	prev, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	next, _, err := renew(ctx, s.storage, prev, s.now())
	s.record("renew", err)
	if err != nil {
		return nil, err
	}

	withEffectiveStatus(s.now(), next)

	return next, nil
}

func (s *Service) List(ctx context.Context, entityID string) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.List")
	defer span.End()

	if err := s.checkTenant(ctx, "subscription", entityID, entityID); err != nil {
		return nil, err
	}

	subs, err := s.storage.ListSubscriptions(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	withEffectiveStatus(s.now(), subs...)

	return subs, nil
}

// ListActiveByClient never fails on absence, a client without subscriptions
// gets an empty list.
func (s *Service) ListActiveByClient(ctx context.Context, entityID, clientID string) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.ListActiveByClient")
	defer span.End()

	if err := s.checkTenant(ctx, "subscription", entityID, entityID); err != nil {
		return nil, err
	}

	subs, err := s.storage.ListSubscriptionsByClient(ctx, entityID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client subscriptions: %w", err)
	}

	now := s.now()
	active := make([]*types.Subscription, 0, len(subs))
	for _, sub := range subs {
		if EffectiveStatus(sub, now) == types.SubscriptionStatusActive {
			active = append(active, sub)
		}
	}

	withEffectiveStatus(now, active...)

	return active, nil
}

func (s *Service) ListExpiringSoon(ctx context.Context, entityID string, withinDays int) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.ListExpiringSoon")
	defer span.End()

	if withinDays < 0 || withinDays > MaxExpiringDays {
		return nil, fmt.Errorf("%w: days must be between 0 and %d", types.ErrInvalidArgument, MaxExpiringDays)
	}

	if err := s.checkTenant(ctx, "subscription", entityID, entityID); err != nil {
		return nil, err
	}

	now := s.now()
	within := time.Duration(withinDays) * 24 * time.Hour

	subs, err := s.storage.ListSubscriptionsExpiringBetween(ctx, entityID, now, now.Add(within))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	expiring := ExpiringSoon(subs, now, within)
	withEffectiveStatus(now, expiring...)

	return expiring, nil
}

func (s *Service) Stats(ctx context.Context, entityID string) (types.SubscriptionStats, error) {
	ctx, span := s.tracer.Start(ctx, "subscriptions.Service.Stats")
	defer span.End()

	if err := s.checkTenant(ctx, "subscription", entityID, entityID); err != nil {
		return types.SubscriptionStats{}, err
	}

	subs, err := s.storage.ListSubscriptions(ctx, entityID)
	if err != nil {
		return types.SubscriptionStats{}, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return ComputeStats(subs, s.now()), nil
}

func (s *Service) transition(ctx context.Context, op, entityID, id string, to types.SubscriptionStatus, reason string) (*types.Subscription, error) {
	sub, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := CheckTransition(sub, to, now); err != nil {
		s.record(op, err)
		return nil, err
	}

	updated, err := s.storage.TransitionSubscription(ctx, storage.SubscriptionTransition{
		EntityID: entityID,
		ID:       id,
		From:     sources(to),
		To:       to,
		At:       now,
		Reason:   reason,
	})
	if errors.Is(err, storage.ErrPreconditionFailed) {
		// lost a race, report against the state that won
		current, gerr := s.storage.GetSubscription(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if err = CheckTransition(current, to, now); err == nil {
			err = fmt.Errorf("%w: subscription changed concurrently", types.ErrInvalidTransition)
		}
	}

	s.record(op, err)
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("subscription %s moved from %s to %s", id, sub.Status, to)
	withEffectiveStatus(now, updated)

	return updated, nil
}

func (s *Service) load(ctx context.Context, entityID, id string) (*types.Subscription, error) {
	sub, err := s.storage.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkTenant(ctx, "subscription:"+id, entityID, sub.EntityID); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *Service) checkTenant(ctx context.Context, resource, callerEntityID, resourceEntityID string) error {
	err := types.CheckTenant(resource, callerEntityID, resourceEntityID)
	if err != nil {
		userID, _ := authentication.GetUserID(ctx)
		s.logger.Security().AuthzTenantMismatch(userID, resource, callerEntityID, resourceEntityID)
	}
	return err
}

func (s *Service) record(op string, err error) {
	recordTransition(s.monitor, s.logger, op, err)
}

func recordTransition(monitor monitoring.MonitorInterface, logger logging.LoggerInterface, op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, types.ErrRemoteUnavailable):
		result = "unavailable"
	case types.IsDomainError(err):
		result = "rejected"
	default:
		result = "error"
	}

	if merr := monitor.IncLedgerTransition(map[string]string{"operation": op, "result": result}); merr != nil {
		logger.Debugf("failed to record ledger metric: %v", merr)
	}
}

// renew opens the follow up subscription of prev on the same package. A
// subscription is renewed once, asking again returns the existing follow up
// with created set to false.
func renew(ctx context.Context, s StorageInterface, prev *types.Subscription, now time.Time) (next *types.Subscription, created bool, err error) {
	next, err = s.GetRenewal(ctx, prev.ID)
	switch {
	case err == nil:
		return next, false, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, err
	}

	pkg, err := s.GetPackage(ctx, prev.PackageID)
	if err != nil {
		return nil, false, err
	}

	draft, err := Renewal(prev, pkg, now)
	if err != nil {
		return nil, false, err
	}

	next, err = s.CreateSubscription(ctx, draft)
	if errors.Is(err, storage.ErrDuplicateKey) {
		// renewed concurrently
		next, err = s.GetRenewal(ctx, prev.ID)
		if err != nil {
			return nil, false, err
		}
		return next, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create renewal: %w", err)
	}

	return next, true, nil
}

func NewService(
	storage StorageInterface,
	clients ClientDirectoryInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		clients: clients,
		now:     func() time.Time { return time.Now().UTC() },
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
