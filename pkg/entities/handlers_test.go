// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package entities

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/guard"
)

func newRouter(service ServiceInterface) *chi.Mux {
	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	api := NewAPI(service, guard.NewMiddleware(tracer, monitor, logger), tracer, monitor, logger)

	mux := chi.NewMux()
	api.RegisterEndpoints(mux)
	api.RegisterServiceEndpoints(mux)

	return mux
}

func asPrincipal(r *http.Request, p *types.Principal) *http.Request {
	if p == nil {
		return r
	}
	return r.WithContext(authentication.WithPrincipal(r.Context(), p))
}

func TestAPI(t *testing.T) {
	owner := &types.Principal{ID: "user-1", Role: types.RoleOwner, Tier: types.TierIndividual, EntityID: "entity-1", Authenticated: true}
	professional := &types.Principal{ID: "user-2", Role: types.RoleProfessional, Tier: types.TierBusiness, EntityID: "entity-1", Authenticated: true}
	simpleOwner := &types.Principal{ID: "user-3", Role: types.RoleOwner, Tier: types.TierSimple, EntityID: "entity-1", Authenticated: true}
	admin := &types.Principal{ID: "admin-1", Role: types.RolePlatformAdmin, Authenticated: true}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		principal      *types.Principal
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name:      "current entity",
			method:    http.MethodGet,
			path:      "/api/v0/entities/me",
			principal: professional,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().GetEntity(gomock.Any(), "entity-1").Return(&types.Entity{ID: "entity-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "current entity unauthenticated",
			method:         http.MethodGet,
			path:           "/api/v0/entities/me",
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:      "owner completes onboarding",
			method:    http.MethodPost,
			path:      "/api/v0/entities/me/onboarding/complete",
			principal: owner,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().CompleteOnboarding(gomock.Any(), "entity-1").Return(&types.Entity{ID: "entity-1", OnboardingComplete: true}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "professional cannot complete onboarding",
			method:         http.MethodPost,
			path:           "/api/v0/entities/me/onboarding/complete",
			principal:      professional,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "invite member",
			method:    http.MethodPost,
			path:      "/api/v0/entities/me/members",
			body:      `{"email":"pro@example.com","role":"professional"}`,
			principal: owner,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().InviteMember(gomock.Any(), "entity-1", "pro@example.com", types.RoleProfessional).Return("https://link", "123", nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invite member with bad email",
			method:         http.MethodPost,
			path:           "/api/v0/entities/me/members",
			body:           `{"email":"nope","role":"professional"}`,
			principal:      owner,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "owner removes member",
			method:    http.MethodDelete,
			path:      "/api/v0/entities/me/members/user-2",
			principal: owner,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().RemoveMember(gomock.Any(), "entity-1", "user-2").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "professional cannot remove members",
			method:         http.MethodDelete,
			path:           "/api/v0/entities/me/members/user-1",
			principal:      professional,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "admin creates entity",
			method:    http.MethodPost,
			path:      "/api/v0/entities",
			body:      `{"name":"Studio","tier":"business","ownerId":"user-9"}`,
			principal: admin,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().CreateEntity(gomock.Any(), "Studio", types.TierBusiness, "user-9").Return(&types.Entity{ID: "entity-9"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "owner cannot create entities",
			method:         http.MethodPost,
			path:           "/api/v0/entities",
			body:           `{"name":"Studio"}`,
			principal:      owner,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "admin changes tier",
			method:    http.MethodPatch,
			path:      "/api/v0/entities/entity-1/tier",
			body:      `{"tier":"individual"}`,
			principal: admin,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().ChangeTier(gomock.Any(), "entity-1", types.TierIndividual).Return(&types.Entity{ID: "entity-1", Tier: types.TierIndividual}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "staff lists services",
			method:    http.MethodGet,
			path:      "/api/v0/services",
			principal: professional,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().ListServices(gomock.Any(), "entity-1").Return([]*types.Service{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "owner creates service",
			method:    http.MethodPost,
			path:      "/api/v0/services",
			body:      `{"name":"Massage","price":"45.50"}`,
			principal: owner,
			setupMocks: func(m *MockServiceInterface) {
				m.EXPECT().CreateService(gomock.Any(), "entity-1", "Massage", decimal.RequireFromString("45.50")).Return(&types.Service{ID: "svc-1"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "simple tier cannot create services",
			method:         http.MethodPost,
			path:           "/api/v0/services",
			body:           `{"name":"Massage","price":"45.50"}`,
			principal:      simpleOwner,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockServiceInterface(ctrl)
			test.setupMocks(service)

			req := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
			req = asPrincipal(req, test.principal)
			w := httptest.NewRecorder()

			newRouter(service).ServeHTTP(w, req)

			if w.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", test.expectedStatus, w.Code, w.Body.String())
			}

			if w.Code == http.StatusCreated || w.Code == http.StatusOK {
				var body any
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Errorf("expected JSON body: %v", err)
				}
			}
		})
	}
}
