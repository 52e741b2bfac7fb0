// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
)

// Claims is what the service reads from an access token. EntityID comes from
// the token hook and is only a hint, memberships stay authoritative.
type Claims struct {
	Subject  string
	EntityID string
}

type tokenClaims struct {
	Subject  string   `json:"sub"`
	Scope    string   `json:"scope"`
	Scopes   []string `json:"scp"`
	EntityID string   `json:"entity_id"`
	Ext      struct {
		EntityID string `json:"entity_id"`
	} `json:"ext"`
}

func (c *tokenClaims) hasScope(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope) || slices.Contains(c.Scopes, scope)
}

func (c *tokenClaims) entityID() string {
	if c.EntityID != "" {
		return c.EntityID
	}
	return c.Ext.EntityID
}

type JWTVerifier struct {
	verifier        *oidc.IDTokenVerifier
	allowedSubjects []string
	requiredScope   string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (*Claims, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		v.logger.Debugf("failed to extract claims: %v", err)
		return nil, err
	}

	if err := v.authorize(&claims); err != nil {
		v.logger.Security().AuthzFailure(claims.Subject, "jwt_api_access")
		return nil, err
	}

	return &Claims{Subject: claims.Subject, EntityID: claims.entityID()}, nil
}

// authorize accepts the token when either the subject is allow-listed or the
// required scope is granted. With neither configured every subject passes.
func (v *JWTVerifier) authorize(c *tokenClaims) error {
	if len(v.allowedSubjects) == 0 && v.requiredScope == "" {
		return nil
	}

	if slices.Contains(v.allowedSubjects, c.Subject) {
		return nil
	}

	if v.requiredScope != "" && c.hasScope(v.requiredScope) {
		return nil
	}

	return errors.New("unauthorized: missing required scope or subject not allowed")
}

func NewJWTVerifier(
	provider ProviderInterface,
	cfg JWTConfig,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return NewJWTVerifierDirect(provider.Verifier(verifierConfig), cfg, tracer, monitor, logger)
}

func NewJWTVerifierDirect(
	verifier *oidc.IDTokenVerifier,
	cfg JWTConfig,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return &JWTVerifier{
		verifier:        verifier,
		allowedSubjects: cfg.AllowedSubjects,
		requiredScope:   cfg.RequiredScope,
		tracer:          tracer,
		monitor:         monitor,
		logger:          logger,
	}
}
