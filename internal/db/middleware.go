// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/canonical/scheduling-service/internal/logging"
)

var errRequestFailed = errors.New("request failed")

// TransactionMiddleware runs every mutating request in a single transaction,
// rolled back when the handler answers with a status >= 400. The response is
// held back until the commit, a failed commit answers 503 instead.
func TransactionMiddleware(db DBClientInterface, logger logging.LoggerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			rw := &bufferedResponse{ResponseWriter: w, statusCode: http.StatusOK}

			err := db.WithTx(r.Context(), func(txCtx context.Context) error {
				next.ServeHTTP(rw, r.WithContext(txCtx))

				if rw.statusCode >= http.StatusBadRequest {
					return fmt.Errorf("%w with status %d", errRequestFailed, rw.statusCode)
				}

				return nil
			})

			switch {
			case err == nil:
			case errors.Is(err, errRequestFailed):
				logger.Debugf("transaction for %s %s not committed: %v", r.Method, r.URL.Path, err)
			default:
				logger.Errorf("transaction for %s %s lost: %v", r.Method, r.URL.Path, err)
				writeUnavailable(w)
				return
			}

			rw.flush()
		})
	}
}

func writeUnavailable(w http.ResponseWriter) {
	h := w.Header()
	h.Del("Content-Length")
	h.Del("Location")
	h.Set("Content-Type", "application/json")
	h.Set("Retry-After", "1")
	w.WriteHeader(http.StatusServiceUnavailable)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  http.StatusServiceUnavailable,
		"message": "failed to commit transaction",
	})
}

// bufferedResponse keeps status and body until flush, headers go straight to
// the wrapped writer since they are only sent with the status.
type bufferedResponse struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *bufferedResponse) WriteHeader(code int) {
	rw.statusCode = code
}

func (rw *bufferedResponse) Write(b []byte) (int, error) {
	return rw.body.Write(b)
}

func (rw *bufferedResponse) flush() {
	rw.ResponseWriter.WriteHeader(rw.statusCode)
	_, _ = rw.body.WriteTo(rw.ResponseWriter)
}
