// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime      *prometheus.HistogramVec
	dependencies      *prometheus.GaugeVec
	ledgerTransitions *prometheus.CounterVec
	registerer        prometheus.Registerer

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	if m.responseTime == nil {
		return fmt.Errorf("metric not initialized")
	}

	m.responseTime.With(tags).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	if m.dependencies == nil {
		return fmt.Errorf("metric not initialized")
	}

	m.dependencies.With(tags).Set(value)

	return nil
}

func (m *Monitor) IncLedgerTransition(tags map[string]string) error {
	if m.ledgerTransitions == nil {
		return fmt.Errorf("metric not initialized")
	}

	c, err := m.ledgerTransitions.GetMetricWith(tags)
	if err != nil {
		return err
	}
	c.Inc()

	return nil
}

func (m *Monitor) registerHistograms() {
	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "http_response_time_seconds",
			ConstLabels: prometheus.Labels{
				"service": m.service,
			},
		},
		[]string{"route", "status"},
	)

	if err := m.registerer.Register(m.responseTime); err != nil {
		m.logger.Debugf("metric already registered: %v", err)
	}
}

func (m *Monitor) registerGauges() {
	m.dependencies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_available",
			Help: "dependency_available",
			ConstLabels: prometheus.Labels{
				"service": m.service,
			},
		},
		[]string{"component"},
	)

	if err := m.registerer.Register(m.dependencies); err != nil {
		m.logger.Debugf("metric already registered: %v", err)
	}
}

func (m *Monitor) registerCounters() {
	m.ledgerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_ledger_operations_total",
			Help: "subscription ledger operations by outcome",
			ConstLabels: prometheus.Labels{
				"service": m.service,
			},
		},
		[]string{"operation", "result"},
	)

	if err := m.registerer.Register(m.ledgerTransitions); err != nil {
		m.logger.Debugf("metric already registered: %v", err)
	}
}

// NewMonitor registers the service metrics on the default prometheus registry
func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	return NewMonitorWithRegisterer(service, prometheus.DefaultRegisterer, logger)
}

func NewMonitorWithRegisterer(service string, registerer prometheus.Registerer, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.registerer = registerer
	m.logger = logger

	m.registerHistograms()
	m.registerGauges()
	m.registerCounters()

	return m
}
