// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"testing"

	"github.com/canonical/scheduling-service/internal/types"
)

func TestCheckOnboarding(t *testing.T) {
	member := &types.Principal{ID: "user-1", Role: types.RoleOwner, Tier: types.TierSimple, EntityID: "entity-1", Authenticated: true}
	incomplete := &types.Entity{ID: "entity-1", OnboardingComplete: false}
	complete := &types.Entity{ID: "entity-1", OnboardingComplete: true}

	tests := []struct {
		name      string
		principal *types.Principal
		state     EntityState
		path      string
		expected  Result
	}{
		{
			name:      "incomplete entity is blocked",
			principal: member,
			state:     EntityState{Loaded: true, Entity: incomplete},
			path:      "/packages",
			expected:  Result{Block: true, RedirectTo: Path},
		},
		{
			name:      "onboarding page is never blocked",
			principal: member,
			state:     EntityState{Loaded: true, Entity: incomplete},
			path:      Path,
			expected:  Result{},
		},
		{
			name:      "complete entity passes",
			principal: member,
			state:     EntityState{Loaded: true, Entity: complete},
			path:      "/packages",
			expected:  Result{},
		},
		{
			name:      "entity still loading fails open",
			principal: member,
			state:     EntityState{},
			path:      "/packages",
			expected:  Result{Unresolved: true},
		},
		{
			name:      "unauthenticated principal is left to the guard",
			principal: &types.Principal{EntityID: "entity-1"},
			state:     EntityState{Loaded: true, Entity: incomplete},
			path:      "/packages",
			expected:  Result{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CheckOnboarding(test.principal, test.state, test.path); got != test.expected {
				t.Fatalf("expected %+v, got %+v", test.expected, got)
			}
		})
	}
}

func TestCheckOnboardingWithoutEntityNeverBlocks(t *testing.T) {
	principals := []*types.Principal{
		{ID: "admin", Role: types.RolePlatformAdmin, Authenticated: true},
		{ID: "user-1", Role: types.RoleOwner, Tier: types.TierBusiness, Authenticated: true},
	}

	states := []EntityState{
		{},
		{Loaded: false, Entity: &types.Entity{ID: "entity-1"}},
		{Loaded: true, Entity: nil},
		{Loaded: true, Entity: &types.Entity{ID: "entity-1", OnboardingComplete: false}},
		{Loaded: true, Entity: &types.Entity{ID: "entity-1", OnboardingComplete: true}},
	}

	for _, p := range principals {
		for _, s := range states {
			for _, path := range []string{"/", "/packages", Path} {
				got := CheckOnboarding(p, s, path)

				if got.Block || got.Unresolved {
					t.Fatalf("principal %s without entity got %+v for state %+v at %s", p.ID, got, s, path)
				}
			}
		}
	}
}
