// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	ory "github.com/ory/client-go"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

const identityJSON = `{"id":"client-1","schema_id":"default","schema_url":"http://kratos/schemas/default","traits":{"email":"ana@example.com"}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logging.NewNoopLogger()
	return NewClient(srv.URL, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestIdentityExists(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expected    bool
		expectedErr error
	}{
		{name: "found", status: http.StatusOK, body: identityJSON, expected: true},
		{name: "not found", status: http.StatusNotFound, body: `{"error":{"code":404,"message":"not found"}}`, expected: false},
		{name: "kratos down", status: http.StatusInternalServerError, body: `{"error":{"code":500,"message":"boom"}}`, expectedErr: types.ErrRemoteUnavailable},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/identities/client-1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			})

			exists, err := c.IdentityExists(context.Background(), "client-1")

			if !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected error %v, got %v", test.expectedErr, err)
			}
			if exists != test.expected {
				t.Errorf("expected %v, got %v", test.expected, exists)
			}
		})
	}
}

func TestGetIdentityIDByEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("credentials_identifier") == "ana@example.com" {
			w.Write([]byte("[" + identityJSON + "]"))
			return
		}
		w.Write([]byte("[]"))
	})

	id, err := c.GetIdentityIDByEmail(context.Background(), "ana@example.com")
	if err != nil || id != "client-1" {
		t.Fatalf("expected client-1, got %q %v", id, err)
	}

	id, err = c.GetIdentityIDByEmail(context.Background(), "nobody@example.com")
	if err != nil || id != "" {
		t.Fatalf("expected no identity, got %q %v", id, err)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name     string
		identity *ory.Identity
		expected string
	}{
		{name: "nil", identity: nil, expected: ""},
		{name: "email trait", identity: &ory.Identity{Traits: map[string]interface{}{"email": "ana@example.com"}}, expected: "ana@example.com"},
		{name: "no traits", identity: &ory.Identity{}, expected: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Email(test.identity); got != test.expected {
				t.Errorf("expected %q, got %q", test.expected, got)
			}
		})
	}
}
