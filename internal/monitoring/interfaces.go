// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

type MonitorInterface interface {
	GetService() string
	SetResponseTimeMetric(map[string]string, float64) error
	SetDependencyAvailability(map[string]string, float64) error
	// IncLedgerTransition counts subscription ledger operations, labels are
	// "operation" and "result"
	IncLedgerTransition(map[string]string) error
}
