// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/canonical/scheduling-service/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "nil", err: nil, expected: nil},
		{name: "no rows", err: sql.ErrNoRows, expected: ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, expected: ErrDuplicateKey},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, expected: ErrForeignKeyViolation},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), expected: types.ErrRemoteUnavailable},
		{name: "connection done", err: sql.ErrConnDone, expected: types.ErrRemoteUnavailable},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := classify(test.err, "test")

			if test.expected == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}

			if !errors.Is(err, test.expected) {
				t.Fatalf("expected %v, got %v", test.expected, err)
			}
		})
	}
}

func TestClassifyKeepsUnknownErrors(t *testing.T) {
	cause := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}

	err := classify(cause, "get package")

	if errors.Is(err, types.ErrRemoteUnavailable) || errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected classification %v", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected the driver error to be wrapped, got %v", err)
	}
}
