// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/types"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse is the body of every non 2xx answer.
type ErrorResponse struct {
	Status     int    `json:"status"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// BadRequestError marks malformed or invalid input.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return e.Err.Error()
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

func NewBadRequest(format string, args ...interface{}) error {
	return &BadRequestError{Err: fmt.Errorf(format, args...)}
}

// DecodeJSON reads a JSON body into v and validates its `validate` tags.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return NewBadRequest("request body is required")
		}
		return NewBadRequest("malformed request body: %v", err)
	}

	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return NewBadRequest("invalid field %s: failed on %s", fe.Field(), fe.Tag())
		}
		return NewBadRequest("invalid request body: %v", err)
	}

	return nil
}

// StatusFor maps an error of the service taxonomy to an HTTP status.
func StatusFor(err error) int {
	var badRequest *BadRequestError

	switch {
	case errors.As(err, &badRequest), errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrForbidden), errors.Is(err, types.ErrTenantMismatch):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidPackageState),
		errors.Is(err, types.ErrSubscriptionExpired),
		errors.Is(err, types.ErrSubscriptionNotActive),
		errors.Is(err, types.ErrSessionExhausted),
		errors.Is(err, types.ErrAlreadyCancelled),
		errors.Is(err, types.ErrInvalidTransition),
		errors.Is(err, storage.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, types.ErrPriceExceedsOriginal),
		errors.Is(err, types.ErrInvalidPrice),
		errors.Is(err, types.ErrEmptyServiceSet),
		errors.Is(err, types.ErrClientNotFound),
		errors.Is(err, storage.ErrForeignKeyViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err, internal errors are logged and never leaked.
func WriteError(w http.ResponseWriter, logger logging.LoggerInterface, err error) {
	status := StatusFor(err)
	message := err.Error()

	switch status {
	case http.StatusInternalServerError:
		logger.Errorf("unhandled error: %v", err)
		message = http.StatusText(status)
	case http.StatusServiceUnavailable:
		logger.Warnf("dependency unavailable: %v", err)
		w.Header().Set("Retry-After", "1")
	case http.StatusNotFound:
		message = "resource not found"
	}

	WriteJSON(w, status, ErrorResponse{Status: status, Message: message})
}
