// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package guard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/plans"
)

func newTestMiddleware() *Middleware {
	logger := logging.NewNoopLogger()
	return NewMiddleware(tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestMiddleware_Require(t *testing.T) {
	tests := []struct {
		name             string
		principal        *types.Principal
		accept           string
		req              Requirement
		expectedStatus   int
		expectedLocation string
		expectedRedirect string
	}{
		{
			name:           "allowed",
			principal:      principal(types.RoleOwner, types.TierBusiness),
			req:            BusinessTier(),
			expectedStatus: http.StatusOK,
		},
		{
			name:             "unauthenticated API client",
			principal:        nil,
			req:              BusinessTier(),
			expectedStatus:   http.StatusUnauthorized,
			expectedRedirect: "/login?next=%2Fapi%2Fv0%2Fpackages",
		},
		{
			name:             "unauthenticated browser",
			principal:        nil,
			accept:           "text/html,application/xhtml+xml",
			req:              BusinessTier(),
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/login?next=%2Fapi%2Fv0%2Fpackages",
		},
		{
			name:             "wrong role",
			principal:        principal(types.RoleAttendant, types.TierBusiness),
			req:              BusinessTier(),
			expectedStatus:   http.StatusForbidden,
			expectedRedirect: UnauthorizedPath,
		},
		{
			name:             "wrong tier in a browser",
			principal:        principal(types.RoleOwner, types.TierSimple),
			accept:           "text/html",
			req:              BusinessTier(),
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: UpgradePath,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v0/packages", nil)
			if test.principal != nil {
				req = req.WithContext(authentication.WithPrincipal(req.Context(), test.principal))
			}
			if test.accept != "" {
				req.Header.Set("Accept", test.accept)
			}
			rr := httptest.NewRecorder()

			newTestMiddleware().Require(test.req)(handler).ServeHTTP(rr, req)

			if rr.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d", test.expectedStatus, rr.Code)
			}

			if test.expectedLocation != "" && rr.Header().Get("Location") != test.expectedLocation {
				t.Fatalf("expected location %q, got %q", test.expectedLocation, rr.Header().Get("Location"))
			}

			if test.expectedRedirect != "" {
				var body httptypes.ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}

				if body.RedirectTo != test.expectedRedirect || body.Status != test.expectedStatus {
					t.Fatalf("unexpected body %+v", body)
				}
			}
		})
	}
}

func TestMiddleware_RequireCapability(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v0/subscriptions/stats", nil)
	req = req.WithContext(authentication.WithPrincipal(req.Context(), principal(types.RoleOwner, types.TierSimple)))
	rr := httptest.NewRecorder()

	newTestMiddleware().RequireCapability(plans.ViewAnalytics)(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var body httptypes.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.RedirectTo != UpgradePath || body.Message != "this feature requires the Individual plan" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestMiddleware_Then(t *testing.T) {
	var order []string

	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusOK)
	})

	base := newTestMiddleware()
	chained := base.Then(mark("first"), mark("second"))

	tests := []struct {
		name          string
		principal     *types.Principal
		expectedOrder []string
	}{
		{
			name:          "allowed requests run the chain",
			principal:     principal(types.RoleOwner, types.TierBusiness),
			expectedOrder: []string{"first", "second", "handler"},
		},
		{
			name:          "denied requests skip the chain",
			principal:     principal(types.RoleAttendant, types.TierBusiness),
			expectedOrder: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			order = nil

			req := httptest.NewRequest(http.MethodGet, "/api/v0/packages", nil)
			req = req.WithContext(authentication.WithPrincipal(req.Context(), test.principal))

			chained.Require(BusinessTier())(handler).ServeHTTP(httptest.NewRecorder(), req)

			if len(order) != len(test.expectedOrder) {
				t.Fatalf("expected %v, got %v", test.expectedOrder, order)
			}
			for i := range order {
				if order[i] != test.expectedOrder[i] {
					t.Fatalf("expected %v, got %v", test.expectedOrder, order)
				}
			}
		})
	}

	order = nil
	req := httptest.NewRequest(http.MethodGet, "/api/v0/packages", nil)
	req = req.WithContext(authentication.WithPrincipal(req.Context(), principal(types.RoleOwner, types.TierBusiness)))
	base.Require(BusinessTier())(handler).ServeHTTP(httptest.NewRecorder(), req)

	if len(order) != 1 {
		t.Fatalf("expected the base middleware to be unchanged, got %v", order)
	}
}
