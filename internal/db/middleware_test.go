// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/scheduling-service/internal/logging"
)

// commitDB runs fn and then reports commitErr as the outcome of the commit.
type commitDB struct {
	commitErr error
	calls     int
}

func (d *commitDB) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder
}

func (d *commitDB) BeginTx(ctx context.Context) (context.Context, TxInterface, error) {
	return ctx, stubTx{}, nil
}

func (d *commitDB) WithTx(ctx context.Context, fn func(context.Context) error) error {
	d.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	if d.commitErr != nil {
		return fmt.Errorf("failed to commit transaction: %w", d.commitErr)
	}
	return nil
}

func (d *commitDB) Ping(context.Context) error { return nil }

func (d *commitDB) Close() {}

func TestTransactionMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		handlerStatus  int
		commitErr      error
		expectedStatus int
		expectedBody   string
		expectedTx     bool
	}{
		{
			name:           "committed write",
			method:         http.MethodPost,
			handlerStatus:  http.StatusCreated,
			expectedStatus: http.StatusCreated,
			expectedBody:   "created",
			expectedTx:     true,
		},
		{
			name:           "failed write keeps the handler answer",
			method:         http.MethodPost,
			handlerStatus:  http.StatusConflict,
			expectedStatus: http.StatusConflict,
			expectedBody:   "created",
			expectedTx:     true,
		},
		{
			name:           "lost commit",
			method:         http.MethodPost,
			handlerStatus:  http.StatusOK,
			commitErr:      errors.New("connection reset"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "failed to commit transaction",
			expectedTx:     true,
		},
		{
			name:           "read",
			method:         http.MethodGet,
			handlerStatus:  http.StatusOK,
			commitErr:      errors.New("unused"),
			expectedStatus: http.StatusOK,
			expectedBody:   "created",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := &commitDB{commitErr: test.commitErr}

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.handlerStatus)
				_, _ = w.Write([]byte("created"))
			})

			req := httptest.NewRequest(test.method, "/api/v0/packages", nil)
			rr := httptest.NewRecorder()

			TransactionMiddleware(d, logging.NewNoopLogger())(handler).ServeHTTP(rr, req)

			if rr.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d", test.expectedStatus, rr.Code)
			}

			if !strings.Contains(rr.Body.String(), test.expectedBody) {
				t.Fatalf("expected body to contain %q, got %q", test.expectedBody, rr.Body.String())
			}

			if test.commitErr != nil && test.expectedTx && strings.Contains(rr.Body.String(), "created") {
				t.Fatal("expected the uncommitted answer to be withheld")
			}

			if (d.calls == 1) != test.expectedTx {
				t.Fatalf("expected transaction %v, got %d calls", test.expectedTx, d.calls)
			}
		})
	}
}
