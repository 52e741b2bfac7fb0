// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidPackageState   = errors.New("package is not in a valid state for this operation")
	ErrPriceExceedsOriginal  = errors.New("package price exceeds the original price of its services")
	ErrInvalidPrice          = errors.New("package price must be greater than zero")
	ErrEmptyServiceSet       = errors.New("package must include at least one service")
	ErrSubscriptionExpired   = errors.New("subscription has expired")
	ErrSubscriptionNotActive = errors.New("subscription is not active")
	ErrSessionExhausted      = errors.New("no sessions left on subscription")
	ErrAlreadyCancelled      = errors.New("subscription is already cancelled")
	ErrInvalidTransition     = errors.New("subscription status change not allowed")
	ErrTenantMismatch        = errors.New("resource belongs to another entity")
	ErrRemoteUnavailable     = errors.New("remote data service unavailable")
	ErrClientNotFound        = errors.New("client identity not found")
	ErrInvalidArgument       = errors.New("invalid argument")
)

// ForbiddenError reports which dimension of the principal was rejected,
// either "role" or "tier".
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s not allowed", e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// TenantMismatchError is a security error, callers must never swallow it.
type TenantMismatchError struct {
	Resource string
	Expected string
	Actual   string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("tenant mismatch on %s: caller entity %q, resource entity %q", e.Resource, e.Expected, e.Actual)
}

func (e *TenantMismatchError) Unwrap() error {
	return ErrTenantMismatch
}

// NewTenantMismatch builds a TenantMismatchError for the given resource.
func NewTenantMismatch(resource, expected, actual string) error {
	return &TenantMismatchError{Resource: resource, Expected: expected, Actual: actual}
}

// RemoteUnavailableError marks a transport or storage failure the caller may retry.
type RemoteUnavailableError struct {
	Op  string
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() []error {
	return []error{ErrRemoteUnavailable, e.Err}
}

func NewRemoteUnavailable(op string, err error) error {
	return &RemoteUnavailableError{Op: op, Err: err}
}

// CheckTenant returns a TenantMismatchError when the resource is not owned by the caller entity.
func CheckTenant(resource, callerEntityID, resourceEntityID string) error {
	if callerEntityID == "" || callerEntityID != resourceEntityID {
		return NewTenantMismatch(resource, callerEntityID, resourceEntityID)
	}
	return nil
}

var domainErrors = []error{
	ErrInvalidPackageState,
	ErrPriceExceedsOriginal,
	ErrInvalidPrice,
	ErrEmptyServiceSet,
	ErrSubscriptionExpired,
	ErrSubscriptionNotActive,
	ErrSessionExhausted,
	ErrAlreadyCancelled,
	ErrInvalidTransition,
	ErrClientNotFound,
	ErrInvalidArgument,
}

// IsDomainError reports whether err is a business rule violation, as opposed
// to an access, transport or internal failure.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
