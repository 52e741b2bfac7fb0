// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/canonical/scheduling-service/internal/logging"
)

func TestMonitorLedgerTransitions(t *testing.T) {
	m := NewMonitorWithRegisterer("scheduling-service", prometheus.NewRegistry(), logging.NewNoopLogger())

	for i := 0; i < 3; i++ {
		if err := m.IncLedgerTransition(map[string]string{"operation": "use_session", "result": "ok"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := testutil.ToFloat64(m.ledgerTransitions.WithLabelValues("use_session", "ok"))
	if got != 3 {
		t.Errorf("expected 3 transitions, got %v", got)
	}
}

func TestMonitorLedgerTransitionsInvalidLabels(t *testing.T) {
	m := NewMonitorWithRegisterer("scheduling-service", prometheus.NewRegistry(), logging.NewNoopLogger())

	if err := m.IncLedgerTransition(map[string]string{"unknown": "x"}); err == nil {
		t.Error("expected an error for unknown labels")
	}
}

func TestMonitorResponseTime(t *testing.T) {
	m := NewMonitorWithRegisterer("scheduling-service", prometheus.NewRegistry(), logging.NewNoopLogger())

	if err := m.SetResponseTimeMetric(map[string]string{"route": "GET/api/v0/packages", "status": "200"}, 0.2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := testutil.CollectAndCount(m.responseTime); n != 1 {
		t.Errorf("expected 1 series, got %d", n)
	}
}
