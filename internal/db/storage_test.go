// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/scheduling-service/internal/logging"
)

type stubTx struct {
	sq.BaseRunner
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func newTestClient() *DBClient {
	return &DBClient{logger: logging.NewNoopLogger()}
}

func TestWithoutTx(t *testing.T) {
	d := newTestClient()

	err := d.WithTx(context.Background(), func(ctx context.Context) error {
		if lazyTxFromContext(ctx) == nil {
			t.Fatal("expected a transaction in context")
		}

		detached := WithoutTx(ContextWithTx(ctx, stubTx{}))

		if lazyTxFromContext(detached) != nil {
			t.Fatal("expected the lazy transaction to be stripped")
		}
		if TxFromContext(detached) != nil {
			t.Fatal("expected the explicit transaction to be stripped")
		}

		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAfterCommit(t *testing.T) {
	failed := errors.New("handler failed")

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "committed", expected: true},
		{name: "rolled back", err: failed, expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := newTestClient()
			ran := false

			err := d.WithTx(context.Background(), func(ctx context.Context) error {
				AfterCommit(ctx, func() { ran = true })

				if ran {
					t.Fatal("expected the hook to wait for the commit")
				}

				return test.err
			})

			if !errors.Is(err, test.err) {
				t.Fatalf("expected %v, got %v", test.err, err)
			}

			if ran != test.expected {
				t.Fatalf("expected hook run %v, got %v", test.expected, ran)
			}
		})
	}
}

func TestAfterCommitWithoutTransaction(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func() { ran = true })

	if !ran {
		t.Fatal("expected the hook to run immediately")
	}
}
