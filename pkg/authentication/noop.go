// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"strings"
)

type NoopVerifier struct{}

// NewNoopVerifier returns a no-op token verifier that accepts every token.
func NewNoopVerifier() *NoopVerifier {
	return &NoopVerifier{}
}

// VerifyToken treats the token as "<user ID>[:<entity ID>]" for development purposes.
func (n *NoopVerifier) VerifyToken(ctx context.Context, rawToken string) (*Claims, error) {
	subject, entityID, _ := strings.Cut(rawToken, ":")
	return &Claims{Subject: subject, EntityID: entityID}, nil
}
