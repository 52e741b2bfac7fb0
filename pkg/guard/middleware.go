// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package guard

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/plans"
)

// Middleware renders guard decisions over HTTP. Browsers are redirected,
// API clients receive the same decision as a JSON error.
type Middleware struct {
	then []func(http.Handler) http.Handler

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (m *Middleware) Require(req Requirement) func(http.Handler) http.Handler {
	return m.enforce("guard.Middleware.Require", req.Name, func(s Session, path string) Decision {
		return Authorize(s, req, path)
	})
}

func (m *Middleware) RequireCapability(capability plans.Capability) func(http.Handler) http.Handler {
	return m.enforce("guard.Middleware.RequireCapability", string(capability), func(s Session, path string) Decision {
		return AuthorizeCapability(s, capability, path)
	})
}

// Then returns a copy of m whose allowed requests pass through mws before
// reaching the route handler.
func (m *Middleware) Then(mws ...func(http.Handler) http.Handler) *Middleware {
	c := *m
	c.then = append(slices.Clone(m.then), mws...)
	return &c
}

func (m *Middleware) enforce(spanName, resource string, decide func(Session, string) Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(m.then) - 1; i >= 0; i-- {
			next = m.then[i](next)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), spanName)
			defer span.End()

			principal := authentication.PrincipalFromContext(ctx)
			d := decide(Session{Principal: principal}, r.URL.Path)

			if d.Allowed() {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if d.Kind == KindRedirect {
				m.logger.Security().AuthzFailure(principal.ID, resource)
			}

			m.render(w, r, d)
		})
	}
}

func (m *Middleware) render(w http.ResponseWriter, r *http.Request, d Decision) {
	if d.Kind == KindLoading {
		w.Header().Set("Retry-After", "1")
		httptypes.WriteJSON(w, http.StatusServiceUnavailable, httptypes.ErrorResponse{
			Status:  http.StatusServiceUnavailable,
			Message: "session is being resolved",
		})
		return
	}

	target := d.Target
	if d.Kind == KindUnauthenticated {
		target = d.Target + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
	}

	if wantsHTML(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	status := http.StatusForbidden
	if d.Kind == KindUnauthenticated {
		status = http.StatusUnauthorized
	}

	httptypes.WriteJSON(w, status, httptypes.ErrorResponse{
		Status:     status,
		Message:    message(d),
		RedirectTo: target,
	})
}

func message(d Decision) string {
	switch {
	case d.Kind == KindUnauthenticated:
		return "authentication required"
	case d.RequiredTier != "":
		return fmt.Sprintf("this feature requires the %s plan", plans.TierDisplayName(d.RequiredTier))
	case d.Reason == ReasonTier:
		return "your plan does not include this feature"
	}

	return d.Err().Error()
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func NewMiddleware(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
