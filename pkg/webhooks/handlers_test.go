// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ory/hydra/v2/oauth2"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_logger.go -source=../../internal/logging/interfaces.go

func TestAPI_Registration(t *testing.T) {
	tests := []struct {
		name           string
		body           []byte
		setupMocks     func(*MockServiceInterface, *MockLoggerInterface)
		expectedStatus int
	}{
		{
			name: "success",
			body: mustJSON(t, KratosIdentity{ID: "user-1", Email: "ada@example.com"}),
			setupMocks: func(s *MockServiceInterface, l *MockLoggerInterface) {
				l.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
				s.EXPECT().HandleRegistration(gomock.Any(), "user-1", "ada@example.com").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid body",
			body: []byte("{"),
			setupMocks: func(s *MockServiceInterface, l *MockLoggerInterface) {
				l.EXPECT().Errorf(gomock.Any(), gomock.Any()).Times(1)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service error",
			body: mustJSON(t, KratosIdentity{ID: "user-1", Email: "ada@example.com"}),
			setupMocks: func(s *MockServiceInterface, l *MockLoggerInterface) {
				l.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
				l.EXPECT().Errorf(gomock.Any(), gomock.Any()).Times(1)
				s.EXPECT().HandleRegistration(gomock.Any(), "user-1", "ada@example.com").Return(errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockServiceInterface(ctrl)
			logger := NewMockLoggerInterface(ctrl)
			tt.setupMocks(service, logger)

			mux := chi.NewMux()
			NewAPI(service, logger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/webhooks/registration", bytes.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestAPI_TokenHook(t *testing.T) {
	claims := map[string]interface{}{ClaimEntityID: "entity-1", ClaimRole: "owner"}

	tests := []struct {
		name           string
		body           []byte
		setupMocks     func(*MockServiceInterface, *MockLoggerInterface)
		expectedStatus int
	}{
		{
			name: "success",
			body: mustJSON(t, oauth2.TokenHookRequest{Session: oauth2.NewSession("user-1")}),
			setupMocks: func(s *MockServiceInterface, l *MockLoggerInterface) {
				resp := new(TokenHookResponse)
				resp.Session.IDToken = claims
				resp.Session.AccessToken = claims
				s.EXPECT().HandleTokenHook(gomock.Any(), gomock.Any()).Return(resp, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid body",
			body: []byte("not json"),
			setupMocks: func(s *MockServiceInterface, l *MockLoggerInterface) {
				l.EXPECT().Errorf(gomock.Any(), gomock.Any()).Times(1)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service error",
			body: mustJSON(t, oauth2.TokenHookRequest{Session: oauth2.NewSession("user-1")}),
			setupMocks: func(s *MockServiceInterface, l *MockLoggerInterface) {
				l.EXPECT().Errorf(gomock.Any(), gomock.Any()).Times(1)
				s.EXPECT().HandleTokenHook(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockServiceInterface(ctrl)
			logger := NewMockLoggerInterface(ctrl)
			tt.setupMocks(service, logger)

			mux := chi.NewMux()
			NewAPI(service, logger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/webhooks/token", bytes.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var resp TokenHookResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Session.AccessToken[ClaimEntityID] != "entity-1" {
					t.Errorf("expected entity claim, got %v", resp.Session.AccessToken)
				}
			}
		})
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return b
}
