// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	securityLevelInfo     = "INFO"
	securityLevelWarn     = "WARN"
	securityLevelCritical = "CRITICAL"
)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.event(securityLevelInfo, "sys_startup", "scheduling service started")
}

func (s *SecurityLogger) SystemShutdown() {
	s.event(securityLevelInfo, "sys_shutdown", "scheduling service stopped")
}

func (s *SecurityLogger) AuthnTokenInvalid(reason string) {
	s.event(securityLevelWarn, "authn_token_invalid", fmt.Sprintf("invalid bearer token: %s", reason))
}

func (s *SecurityLogger) AuthzFailure(userID, resource string) {
	s.event(
		securityLevelCritical,
		fmt.Sprintf("authz_fail:%s,%s", userID, resource),
		fmt.Sprintf("user %s attempted to access %s without entitlement", userID, resource),
	)
}

func (s *SecurityLogger) AuthzTenantMismatch(userID, resource, expected, actual string) {
	s.event(
		securityLevelCritical,
		fmt.Sprintf("authz_tenant_mismatch:%s,%s", userID, resource),
		fmt.Sprintf("user %s of entity %s attempted to access %s owned by entity %s", userID, expected, resource, actual),
	)
}

func (s *SecurityLogger) event(level, event, description string) {
	s.l.Warn(
		description,
		zap.String("type", "security"),
		zap.String("level", level),
		zap.String("event", event),
	)
}

func newSecurityLogger(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: l}
}
