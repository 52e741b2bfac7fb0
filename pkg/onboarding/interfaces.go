// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"

	"github.com/canonical/scheduling-service/internal/types"
)

type EntityLoaderInterface interface {
	GetEntity(ctx context.Context, id string) (*types.Entity, error)
}
