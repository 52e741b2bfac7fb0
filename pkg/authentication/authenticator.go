// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
)

type JWTConfig struct {
	Issuer          string
	JWKSURL         string
	AllowedSubjects []string
	RequiredScope   string
}

// NewJWTAuthenticator builds the token verifier, through OIDC discovery
// unless a JWKS URL is configured.
func NewJWTAuthenticator(
	ctx context.Context,
	cfg JWTConfig,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (*JWTVerifier, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required for JWT authentication")
	}

	if cfg.JWKSURL != "" {
		logger.Infof("JWT authentication enabled, keys from %s", cfg.JWKSURL)
		return NewJWTVerifierDirect(NewKeySetVerifier(ctx, cfg.Issuer, cfg.JWKSURL), cfg, tracer, monitor, logger), nil
	}

	provider, err := NewProvider(ctx, cfg.Issuer)
	if err != nil {
		monitor.SetDependencyAvailability(map[string]string{"component": "oidc"}, 0)
		return nil, err
	}
	monitor.SetDependencyAvailability(map[string]string{"component": "oidc"}, 1)

	logger.Infof("JWT authentication enabled, discovered issuer %s", cfg.Issuer)

	return NewJWTVerifier(provider, cfg, tracer, monitor, logger), nil
}
