// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"github.com/canonical/scheduling-service/internal/types"
)

const Path = "/onboarding"

// EntityState is the entity of the principal as far as it is known, Loaded
// is false while it is still being fetched or could not be fetched.
type EntityState struct {
	Loaded bool
	Entity *types.Entity
}

type Result struct {
	Block      bool
	RedirectTo string
	// Unresolved reports that the entity could not be loaded in time and the
	// request was let through, the host may force re-authentication.
	Unresolved bool
}

// CheckOnboarding decides whether the principal must finish onboarding
// before reaching currentPath. It only runs after authorization allowed the
// route, so letting an unresolved entity through never widens access.
func CheckOnboarding(p *types.Principal, state EntityState, currentPath string) Result {
	if currentPath == Path {
		return Result{}
	}

	if p == nil || !p.Authenticated || !p.HasEntity() {
		return Result{}
	}

	if !state.Loaded || state.Entity == nil {
		return Result{Unresolved: true}
	}

	if !state.Entity.OnboardingComplete {
		return Result{Block: true, RedirectTo: Path}
	}

	return Result{}
}
