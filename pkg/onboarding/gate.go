// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
)

const (
	DefaultEntityTimeout = 2 * time.Second

	// UnresolvedHeader is set on responses let through without a resolved entity.
	UnresolvedHeader = "X-Onboarding-Unresolved"
)

// Warning describes a request let through because its entity could not be
// resolved in time.
type Warning struct {
	PrincipalID string
	EntityID    string
	Err         error
}

type checkedKey struct{}

type Gate struct {
	entities  EntityLoaderInterface
	timeout   time.Duration
	onWarning func(context.Context, Warning)

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Check loads the entity of the principal, waiting at most the configured
// timeout, and applies CheckOnboarding. It never blocks indefinitely and
// fails open.
func (g *Gate) Check(ctx context.Context, p *types.Principal, currentPath string) Result {
	ctx, span := g.tracer.Start(ctx, "onboarding.Gate.Check")
	defer span.End()

	if currentPath == Path || !p.HasEntity() || !p.Authenticated {
		return CheckOnboarding(p, EntityState{}, currentPath)
	}

	waitCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	entity, err := g.entities.GetEntity(waitCtx, p.EntityID)

	result := CheckOnboarding(p, EntityState{Loaded: err == nil, Entity: entity}, currentPath)
	if result.Unresolved {
		if err == nil {
			err = errors.New("entity not loaded")
		}
		g.onWarning(ctx, Warning{PrincipalID: p.ID, EntityID: p.EntityID, Err: err})
	}

	return result
}

// Middleware redirects principals of entities that did not finish
// onboarding, unauthenticated requests are left to the guards. It is meant to
// be chained after the guards with guard.Middleware.Then and checks a
// request once however many guards a route stacks.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(checkedKey{}) != nil {
			next.ServeHTTP(w, r)
			return
		}

		principal := authentication.PrincipalFromContext(r.Context())

		result := g.Check(r.Context(), principal, r.URL.Path)

		if result.Unresolved {
			w.Header().Set(UnresolvedHeader, "true")
		}

		if !result.Block {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), checkedKey{}, true)))
			return
		}

		if strings.Contains(r.Header.Get("Accept"), "text/html") {
			http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
			return
		}

		httptypes.WriteJSON(w, http.StatusForbidden, httptypes.ErrorResponse{
			Status:     http.StatusForbidden,
			Message:    "entity onboarding is not complete",
			RedirectTo: result.RedirectTo,
		})
	})
}

type Option func(*Gate)

func WithTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithWarningHandler replaces the default handler, which logs the warning.
func WithWarningHandler(fn func(context.Context, Warning)) Option {
	return func(g *Gate) {
		if fn != nil {
			g.onWarning = fn
		}
	}
}

func NewGate(
	entities EntityLoaderInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
	opts ...Option,
) *Gate {
	g := &Gate{
		entities: entities,
		timeout:  DefaultEntityTimeout,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}

	g.onWarning = func(_ context.Context, w Warning) {
		g.logger.Warnf("onboarding check skipped for principal %s, entity %s unresolved: %v", w.PrincipalID, w.EntityID, w.Err)
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}
