// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"net/http"
	"strings"

	"github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	internal "github.com/canonical/scheduling-service/internal/types"
)

const (
	// EntityHeader selects which membership of the caller the request acts for.
	EntityHeader = "X-Entity-Id"
	// IdentityHeader carries the identity authenticated by a trusted gateway.
	IdentityHeader = "X-Kratos-Authenticated-Identity-Id"
)

// Middleware attaches a principal to every request. It never rejects: an
// absent or invalid token yields an unauthenticated principal and the guards
// decide what that means for the route.
type Middleware struct {
	verifier            TokenVerifierInterface
	resolver            PrincipalResolverInterface
	trustIdentityHeader bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			principal, err := m.principal(ctx, r)
			if err != nil {
				types.WriteError(w, m.logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

func (m *Middleware) principal(ctx context.Context, r *http.Request) (*internal.Principal, error) {
	identityID, hintedEntityID := m.identity(ctx, r)
	if identityID == "" {
		return &internal.Principal{}, nil
	}

	entityID := r.Header.Get(EntityHeader)
	if entityID == "" {
		entityID = hintedEntityID
	}

	return m.resolver.Resolve(ctx, identityID, entityID)
}

func (m *Middleware) identity(ctx context.Context, r *http.Request) (string, string) {
	if m.trustIdentityHeader {
		if id := r.Header.Get(IdentityHeader); id != "" {
			return id, ""
		}
	}

	token, found := m.getBearerToken(r.Header)
	if !found {
		return "", ""
	}

	claims, err := m.verifier.VerifyToken(ctx, token)
	if err != nil {
		m.logger.Debugf("JWT verification failed: %v", err)
		m.logger.Security().AuthnTokenInvalid(err.Error())
		return "", ""
	}

	return claims.Subject, claims.EntityID
}

func (m *Middleware) getBearerToken(headers http.Header) (string, bool) {
	bearer := headers.Get("Authorization")

	// Only "Bearer <token>" is supported (RFC 6750)
	token, ok := strings.CutPrefix(bearer, "Bearer ")
	if !ok || token == "" {
		return "", false
	}

	return token, true
}

func NewMiddleware(
	verifier TokenVerifierInterface,
	resolver PrincipalResolverInterface,
	trustIdentityHeader bool,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Middleware {
	return &Middleware{
		verifier:            verifier,
		resolver:            resolver,
		trustIdentityHeader: trustIdentityHeader,
		tracer:              tracer,
		monitor:             monitor,
		logger:              logger,
	}
}
