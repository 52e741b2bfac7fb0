// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"testing"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
)

func TestTupleKeys(t *testing.T) {
	tuple := NewTuple("user:1", "owner", "entity:2")

	u, r, o := "user:1", "owner", "entity:2"

	key := tuple.ToOpenFGATupleKey()
	if key.User != u || key.Relation != r || key.Object != o {
		t.Fatalf("unexpected key %+v", key)
	}

	plain := tuple.ToOpenFGATupleKeyWithoutCondition()
	if plain.User != u || plain.Relation != r || plain.Object != o {
		t.Fatalf("unexpected key %+v", plain)
	}

	if keys := contextualKeys(nil); keys != nil {
		t.Fatalf("expected nil contextual keys, got %v", keys)
	}

	if keys := contextualKeys([]Tuple{*tuple}); len(keys) != 1 || keys[0].Object != "entity:2" {
		t.Fatalf("unexpected contextual keys %v", keys)
	}
}

func TestConfigApiURL(t *testing.T) {
	logger := logging.NewNoopLogger()

	tests := []struct {
		scheme   string
		expected string
	}{
		{scheme: "", expected: "https://fga.internal:8080"},
		{scheme: "http", expected: "http://fga.internal:8080"},
	}

	for _, test := range tests {
		cfg := NewConfig(test.scheme, "fga.internal:8080", "store", "token", "model", false, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
		if got := cfg.ApiURL(); got != test.expected {
			t.Errorf("expected %s, got %s", test.expected, got)
		}
	}
}

func TestNoopClientAllows(t *testing.T) {
	logger := logging.NewNoopLogger()
	c := NewNoopClient(tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	ok, err := c.Check(context.Background(), "user:1", "can_view", "entity:1")
	if err != nil || !ok {
		t.Fatalf("expected allowed, got %v %v", ok, err)
	}

	if err := c.WriteTuple(context.Background(), "user:1", "owner", "entity:1"); err != nil {
		t.Fatalf("expected noop write, got %v", err)
	}
}
