// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

var _ PrincipalResolverInterface = (*PrincipalResolver)(nil)

// PrincipalResolver derives role and tier of an identity from its
// memberships, the tier always comes from the entity record.
type PrincipalResolver struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (r *PrincipalResolver) Resolve(ctx context.Context, identityID, entityID string) (*types.Principal, error) {
	ctx, span := r.tracer.Start(ctx, "authentication.PrincipalResolver.Resolve")
	defer span.End()

	principal := &types.Principal{ID: identityID, Authenticated: true}

	memberships, err := r.storage.ListMembershipsByIdentity(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	m := selectMembership(memberships, entityID)
	if m == nil {
		if entityID != "" {
			r.logger.Security().AuthzFailure(identityID, "entity:"+entityID)
		}
		return principal, nil
	}

	principal.Role = m.Role

	if m.EntityID == "" {
		return principal, nil
	}

	entity, err := r.storage.GetEntity(ctx, m.EntityID)
	if errors.Is(err, storage.ErrNotFound) {
		r.logger.Warnf("membership %s points to missing entity %s", m.ID, m.EntityID)
		principal.Role = ""
		return principal, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entity: %w", err)
	}

	principal.EntityID = entity.ID
	principal.Tier = entity.Tier

	return principal, nil
}

// selectMembership picks the membership for the requested entity. Without
// one, a platform membership wins over the oldest entity membership.
func selectMembership(memberships []*types.Membership, entityID string) *types.Membership {
	if entityID != "" {
		for _, m := range memberships {
			if m.EntityID == entityID {
				return m
			}
		}
		return nil
	}

	var first *types.Membership
	for _, m := range memberships {
		if m.EntityID == "" {
			return m
		}
		if first == nil {
			first = m
		}
	}

	return first
}

func NewPrincipalResolver(s StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *PrincipalResolver {
	return &PrincipalResolver{
		storage: s,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
