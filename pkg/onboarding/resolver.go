// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/canonical/scheduling-service/internal/db"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

const defaultLoadTimeout = 10 * time.Second

var _ EntityLoaderInterface = (*EntityResolver)(nil)

// EntityResolver caches entities for a short time and coalesces concurrent
// loads of the same entity into one storage call.
type EntityResolver struct {
	storage EntityLoaderInterface
	cache   *expirable.LRU[string, *types.Entity]
	group   singleflight.Group

	// versions counts invalidations per entity, a load only fills the cache
	// when no invalidation happened while it ran
	mu       sync.Mutex
	versions map[string]uint64

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// GetEntity returns as soon as ctx is done, the shared load keeps running
// for the other waiters and fills the cache.
func (r *EntityResolver) GetEntity(ctx context.Context, id string) (*types.Entity, error) {
	ctx, span := r.tracer.Start(ctx, "onboarding.EntityResolver.GetEntity")
	defer span.End()

	if e, ok := r.cache.Get(id); ok {
		c := *e
		return &c, nil
	}

	ch := r.group.DoChan(id, func() (interface{}, error) {
		// the load outlives the caller, it must not touch its transaction
		loadCtx, cancel := context.WithTimeout(db.WithoutTx(context.WithoutCancel(ctx)), defaultLoadTimeout)
		defer cancel()

		version := r.version(id)

		e, err := r.storage.GetEntity(loadCtx, id)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.versions[id] == version {
			r.cache.Add(id, e)
		}
		r.mu.Unlock()

		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		c := *res.Val.(*types.Entity)
		return &c, nil
	}
}

func (r *EntityResolver) version(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.versions[id]
}

// Invalidate drops a cached entity after it changed. A load already running
// still answers its waiters but leaves the cache alone.
func (r *EntityResolver) Invalidate(id string) {
	r.mu.Lock()
	r.versions[id]++
	r.cache.Remove(id)
	r.mu.Unlock()

	r.group.Forget(id)
}

func NewEntityResolver(
	storage EntityLoaderInterface,
	size int,
	ttl time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *EntityResolver {
	return &EntityResolver{
		storage:  storage,
		cache:    expirable.NewLRU[string, *types.Entity](size, nil, ttl),
		versions: make(map[string]uint64),
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
