// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/types"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "bad request", err: NewBadRequest("missing id"), expected: http.StatusBadRequest},
		{name: "unauthenticated", err: types.ErrUnauthenticated, expected: http.StatusUnauthorized},
		{name: "forbidden", err: &types.ForbiddenError{Reason: "tier"}, expected: http.StatusForbidden},
		{name: "tenant mismatch", err: types.NewTenantMismatch("package", "a", "b"), expected: http.StatusForbidden},
		{name: "not found", err: fmt.Errorf("get: %w", storage.ErrNotFound), expected: http.StatusNotFound},
		{name: "invalid package state", err: types.ErrInvalidPackageState, expected: http.StatusConflict},
		{name: "session exhausted", err: types.ErrSessionExhausted, expected: http.StatusConflict},
		{name: "already cancelled", err: types.ErrAlreadyCancelled, expected: http.StatusConflict},
		{name: "price exceeds original", err: types.ErrPriceExceedsOriginal, expected: http.StatusUnprocessableEntity},
		{name: "empty service set", err: types.ErrEmptyServiceSet, expected: http.StatusUnprocessableEntity},
		{name: "remote unavailable", err: types.NewRemoteUnavailable("get package", errors.New("dial tcp")), expected: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := StatusFor(test.err); got != test.expected {
				t.Fatalf("expected %d, got %d", test.expected, got)
			}
		})
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, logging.NewNoopLogger(), errors.New("pq: password authentication failed"))

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.Status != http.StatusInternalServerError || strings.Contains(body.Message, "password") {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteErrorRetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, logging.NewNoopLogger(), types.NewRemoteUnavailable("list", errors.New("timeout")))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}

	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
		Days int    `json:"days" validate:"gte=1"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"ten classes","days":30}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "unknown field", body: `{"name":"a","days":1,"extra":true}`, wantErr: true},
		{name: "missing required", body: `{"days":1}`, wantErr: true},
		{name: "out of range", body: `{"name":"a","days":0}`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(test.body))

			var p payload
			err := DecodeJSON(req, &p)

			if test.wantErr {
				var badRequest *BadRequestError
				if !errors.As(err, &badRequest) {
					t.Fatalf("expected a BadRequestError, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}
