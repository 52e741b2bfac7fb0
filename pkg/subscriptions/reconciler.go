// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package subscriptions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

const DefaultBatchSize = 100

type Report struct {
	Expired int `json:"expired"`
	Renewed int `json:"renewed"`
}

// Reconciler persists the expiry of subscriptions whose effective status is
// already expired and renews the monthly ones flagged for auto renewal.
type Reconciler struct {
	storage   StorageInterface
	interval  time.Duration
	batchSize int

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Reconcile drains the due subscriptions in batches.
func (r *Reconciler) Reconcile(ctx context.Context) (Report, error) {
	ctx, span := r.tracer.Start(ctx, "subscriptions.Reconciler.Reconcile")
	defer span.End()

	var report Report
	now := r.now()

	for {
		due, err := r.storage.ListSubscriptionsDue(ctx, now, r.batchSize)
		if err != nil {
			return report, err
		}

		for _, sub := range due {
			if err := r.expire(ctx, sub, now, &report); err != nil {
				return report, err
			}
		}

		if len(due) < r.batchSize {
			return report, nil
		}
	}
}

func (r *Reconciler) expire(ctx context.Context, sub *types.Subscription, now time.Time, report *Report) error {
	expired, err := r.storage.TransitionSubscription(ctx, storage.SubscriptionTransition{
		ID:   sub.ID,
		From: sources(types.SubscriptionStatusExpired),
		To:   types.SubscriptionStatusExpired,
		At:   now,
	})
	if errors.Is(err, storage.ErrPreconditionFailed) {
		// cancelled or expired by someone else in the meantime
		return nil
	}

	recordTransition(r.monitor, r.logger, "expire", err)
	if err != nil {
		return err
	}
	report.Expired++

	if !expired.AutoRenew {
		return nil
	}

	pkg, err := r.storage.GetPackage(ctx, expired.PackageID)
	if err != nil {
		r.logger.Warnf("skipping renewal of subscription %s: %v", expired.ID, err)
		return nil
	}

	if pkg.Recurrence != types.RecurrenceMonthly {
		return nil
	}

	next, created, err := renew(ctx, r.storage, expired, now)
	if err != nil {
		recordTransition(r.monitor, r.logger, "auto_renew", err)
		r.logger.Warnf("failed to renew subscription %s: %v", expired.ID, err)
		return nil
	}

	if !created {
		r.logger.Debugf("subscription %s was already renewed as %s", expired.ID, next.ID)
		return nil
	}
	recordTransition(r.monitor, r.logger, "auto_renew", nil)

	r.logger.Infof("subscription %s renewed as %s", expired.ID, next.ID)
	report.Renewed++

	return nil
}

// Start runs Reconcile immediately and then on every tick, call it in a goroutine.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// Stop ends the loop started by Start, it is safe to call more than once.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Reconciler) run(ctx context.Context) {
	report, err := r.Reconcile(ctx)
	if err != nil {
		r.logger.Warnf("subscription reconciliation failed after %d expirations: %v", report.Expired, err)
		return
	}

	if report.Expired > 0 {
		r.logger.Infof("subscription reconciliation expired %d and renewed %d", report.Expired, report.Renewed)
	}
}

func NewReconciler(
	storage StorageInterface,
	interval time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Reconciler {
	return &Reconciler{
		storage:   storage,
		interval:  interval,
		batchSize: DefaultBatchSize,
		now:       func() time.Time { return time.Now().UTC() },
		stop:      make(chan struct{}),
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}
