// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package guard

import (
	"slices"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/plans"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	UpgradePath      = "/upgrade"
)

type Kind string

const (
	KindAllow           Kind = "allow"
	KindRedirect        Kind = "redirect"
	KindUnauthenticated Kind = "unauthenticated"
	// KindLoading asks the caller to suspend until the principal is resolved,
	// it is never a final answer.
	KindLoading Kind = "loading"
)

const (
	ReasonRole       = "role"
	ReasonTier       = "tier"
	ReasonOwner      = "owner"
	ReasonCapability = "capability"
)

type Decision struct {
	Kind   Kind
	Target string
	Reason string
	// RequiredTier is set on capability denials for upgrade messaging.
	RequiredTier types.Tier
}

func (d Decision) Allowed() bool {
	return d.Kind == KindAllow
}

// Err converts a denial into the error taxonomy, nil when allowed or loading.
func (d Decision) Err() error {
	switch d.Kind {
	case KindUnauthenticated:
		return types.ErrUnauthenticated
	case KindRedirect:
		return &types.ForbiddenError{Reason: d.Reason}
	}
	return nil
}

// Requirement declares who may reach a route; empty fields do not constrain.
type Requirement struct {
	Name             string
	AllowedRoles     []types.Role
	AllowedTiers     []types.Tier
	RequireOwnerRole bool
}

// Session is the principal as seen by the guard, Resolving is true while a
// login or session restore is in flight.
type Session struct {
	Principal *types.Principal
	Resolving bool
}

func Allow() Decision {
	return Decision{Kind: KindAllow}
}

func RedirectTo(target, reason string) Decision {
	return Decision{Kind: KindRedirect, Target: target, Reason: reason}
}

func Unauthenticated() Decision {
	return Decision{Kind: KindUnauthenticated, Target: LoginPath}
}

// Authorize evaluates the requirement against the session, first match wins.
// It never fails: a missing principal is the unauthenticated branch.
func Authorize(s Session, req Requirement, currentPath string) Decision {
	if s.Resolving {
		return Decision{Kind: KindLoading}
	}

	p := s.Principal
	if p == nil || !p.Authenticated {
		return Unauthenticated()
	}

	if len(req.AllowedRoles) > 0 && !slices.Contains(req.AllowedRoles, p.Role) {
		return RedirectTo(UnauthorizedPath, ReasonRole)
	}

	if len(req.AllowedTiers) > 0 && !slices.Contains(req.AllowedTiers, p.Tier) {
		// already on the upgrade page, redirecting again would loop
		if currentPath == UpgradePath {
			return Allow()
		}
		return RedirectTo(UpgradePath, ReasonTier)
	}

	if req.RequireOwnerRole && p.Role != types.RoleOwner {
		return RedirectTo(UnauthorizedPath, ReasonOwner)
	}

	return Allow()
}

// AuthorizeCapability is the feature level check composed after Authorize.
func AuthorizeCapability(s Session, capability plans.Capability, currentPath string) Decision {
	if s.Resolving {
		return Decision{Kind: KindLoading}
	}

	p := s.Principal
	if p == nil || !p.Authenticated {
		return Unauthenticated()
	}

	if plans.HasCapability(p.Tier, capability) || currentPath == UpgradePath {
		return Allow()
	}

	d := RedirectTo(UpgradePath, ReasonCapability)
	d.RequiredTier, _ = plans.RequiredTierFor(capability)

	return d
}
