// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_verifier.go -source=./interfaces.go

func TestMiddleware_Authenticate(t *testing.T) {
	owner := &types.Principal{ID: "user-123", Role: types.RoleOwner, Tier: types.TierBusiness, EntityID: "entity-1", Authenticated: true}

	tests := []struct {
		name                string
		headers             map[string]string
		trustIdentityHeader bool
		setupMocks          func(*MockTokenVerifierInterface, *MockPrincipalResolverInterface)
		expectedStatusCode  int
		expectedPrincipal   *types.Principal
	}{
		{
			name:               "missing token yields an unauthenticated principal",
			setupMocks:         func(*MockTokenVerifierInterface, *MockPrincipalResolverInterface) {},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  &types.Principal{},
		},
		{
			name:               "token without bearer prefix is ignored",
			headers:            map[string]string{"Authorization": "InvalidToken"},
			setupMocks:         func(*MockTokenVerifierInterface, *MockPrincipalResolverInterface) {},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  &types.Principal{},
		},
		{
			name:    "failed verification yields an unauthenticated principal",
			headers: map[string]string{"Authorization": "Bearer invalid-token"},
			setupMocks: func(v *MockTokenVerifierInterface, _ *MockPrincipalResolverInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "invalid-token").Return(nil, errors.New("token is expired"))
			},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  &types.Principal{},
		},
		{
			name:    "valid token resolves the principal from the token hint",
			headers: map[string]string{"Authorization": "Bearer valid-token"},
			setupMocks: func(v *MockTokenVerifierInterface, r *MockPrincipalResolverInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return(&Claims{Subject: "user-123", EntityID: "entity-1"}, nil)
				r.EXPECT().Resolve(gomock.Any(), "user-123", "entity-1").Return(owner, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  owner,
		},
		{
			name:    "entity header wins over the token hint",
			headers: map[string]string{"Authorization": "Bearer valid-token", EntityHeader: "entity-2"},
			setupMocks: func(v *MockTokenVerifierInterface, r *MockPrincipalResolverInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return(&Claims{Subject: "user-123", EntityID: "entity-1"}, nil)
				r.EXPECT().Resolve(gomock.Any(), "user-123", "entity-2").Return(owner, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  owner,
		},
		{
			name:                "trusted identity header skips the token",
			headers:             map[string]string{IdentityHeader: "user-123"},
			trustIdentityHeader: true,
			setupMocks: func(_ *MockTokenVerifierInterface, r *MockPrincipalResolverInterface) {
				r.EXPECT().Resolve(gomock.Any(), "user-123", "").Return(owner, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  owner,
		},
		{
			name:               "identity header is ignored unless trusted",
			headers:            map[string]string{IdentityHeader: "user-123"},
			setupMocks:         func(*MockTokenVerifierInterface, *MockPrincipalResolverInterface) {},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  &types.Principal{},
		},
		{
			name:    "resolution failure is retryable",
			headers: map[string]string{"Authorization": "Bearer valid-token"},
			setupMocks: func(v *MockTokenVerifierInterface, r *MockPrincipalResolverInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return(&Claims{Subject: "user-123"}, nil)
				r.EXPECT().Resolve(gomock.Any(), "user-123", "").Return(nil, types.NewRemoteUnavailable("list memberships", errors.New("connection refused")))
			},
			expectedStatusCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockVerifier := NewMockTokenVerifierInterface(ctrl)
			mockResolver := NewMockPrincipalResolverInterface(ctrl)
			tt.setupMocks(mockVerifier, mockResolver)

			logger := logging.NewNoopLogger()
			middleware := NewMiddleware(
				mockVerifier,
				mockResolver,
				tt.trustIdentityHeader,
				tracing.NewNoopTracer(),
				monitoring.NewNoopMonitor("test", logger),
				logger,
			)

			var got *types.Principal
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v0/packages", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			middleware.Authenticate()(handler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatusCode {
				t.Fatalf("expected status %d, got %d", tt.expectedStatusCode, rr.Code)
			}

			if tt.expectedPrincipal == nil {
				return
			}

			if got == nil || *got != *tt.expectedPrincipal {
				t.Fatalf("expected principal %+v, got %+v", tt.expectedPrincipal, got)
			}
		})
	}
}

func TestMiddleware_GetBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		expectedToken string
		expectedFound bool
	}{
		{name: "No Authorization header"},
		{name: "Bearer token", authHeader: "Bearer my-token-123", expectedToken: "my-token-123", expectedFound: true},
		{name: "Empty bearer token", authHeader: "Bearer "},
		{name: "Raw token without Bearer prefix", authHeader: "my-token-123"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := &Middleware{}

			headers := http.Header{}
			if test.authHeader != "" {
				headers.Set("Authorization", test.authHeader)
			}

			token, found := m.getBearerToken(headers)

			if token != test.expectedToken {
				t.Errorf("expected token %q, got %q", test.expectedToken, token)
			}
			if found != test.expectedFound {
				t.Errorf("expected found %v, got %v", test.expectedFound, found)
			}
		})
	}
}
