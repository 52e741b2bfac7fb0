// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package entities

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/canonical/scheduling-service/internal/authorization"
	"github.com/canonical/scheduling-service/internal/db"
	"github.com/canonical/scheduling-service/internal/kratos"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
)

var _ ServiceInterface = (*Service)(nil)

// invitableRoles are the staff roles an owner may hand out.
var invitableRoles = []types.Role{
	types.RoleAdmin,
	types.RoleManager,
	types.RoleProfessional,
	types.RoleAttendant,
}

type Service struct {
	storage            StorageInterface
	authz              AuthzInterface
	kratos             KratosClientInterface
	cache              CacheInterface
	invitationLifetime string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) GetEntity(ctx context.Context, entityID string) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.GetEntity")
	defer span.End()

	if entityID == "" {
		return nil, storage.ErrNotFound
	}

	return s.storage.GetEntity(ctx, entityID)
}

// CreateEntity provisions an entity with onboarding pending. A non empty
// ownerID becomes its owner both in storage and in the authorization model.
func (s *Service) CreateEntity(ctx context.Context, name string, tier types.Tier, ownerID string) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.CreateEntity")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: entity name is required", types.ErrInvalidArgument)
	}
	if tier == "" {
		tier = types.TierSimple
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", types.ErrInvalidArgument, tier)
	}

	entity, err := s.storage.CreateEntity(ctx, &types.Entity{Name: name, Tier: tier})
	if err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	if err := s.authz.LinkEntityToPlatform(ctx, entity.ID); err != nil {
		return nil, fmt.Errorf("failed to link entity to platform: %w", err)
	}

	if ownerID == "" {
		return entity, nil
	}

	if _, err := s.storage.AddMember(ctx, entity.ID, ownerID, types.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}

	if err := s.authz.AssignEntityOwner(ctx, entity.ID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to assign entity owner in authz: %w", err)
	}

	s.logger.Infof("created entity %s owned by %s", entity.ID, ownerID)

	return entity, nil
}

// CompleteOnboarding is idempotent, completing twice returns the entity unchanged.
func (s *Service) CompleteOnboarding(ctx context.Context, entityID string) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.CompleteOnboarding")
	defer span.End()

	if userID, ok := authentication.GetUserID(ctx); ok {
		allowed, err := s.authz.CheckEntityAccess(ctx, entityID, userID, authorization.CAN_EDIT_PERMISSION)
		if err != nil {
			return nil, fmt.Errorf("failed to check entity access: %w", err)
		}
		if !allowed {
			s.logger.Security().AuthzFailure(userID, authorization.EntityTuple(entityID))
			return nil, &types.ForbiddenError{Reason: "owner"}
		}
	}

	entity, err := s.storage.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity.OnboardingComplete {
		return entity, nil
	}

	entity, err = s.storage.CompleteOnboarding(ctx, entityID)
	if err != nil {
		return nil, err
	}

	db.AfterCommit(ctx, func() { s.cache.Invalidate(entityID) })

	return entity, nil
}

func (s *Service) ChangeTier(ctx context.Context, entityID string, tier types.Tier) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.ChangeTier")
	defer span.End()

	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", types.ErrInvalidArgument, tier)
	}

	entity, err := s.storage.UpdateEntityTier(ctx, entityID, tier)
	if err != nil {
		return nil, err
	}

	db.AfterCommit(ctx, func() { s.cache.Invalidate(entityID) })
	s.logger.Infof("entity %s moved to tier %s", entityID, tier)

	return entity, nil
}

// InviteMember makes sure an identity exists for email, adds it to the
// entity and returns a recovery link and code the invitee can log in with.
func (s *Service) InviteMember(ctx context.Context, entityID, email string, role types.Role) (string, string, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.InviteMember")
	defer span.End()

	if !slices.Contains(invitableRoles, role) {
		return "", "", fmt.Errorf("%w: role %q cannot be invited", types.ErrInvalidArgument, role)
	}
	if s.kratos == nil {
		return "", "", fmt.Errorf("%w: identity directory is not configured", types.ErrRemoteUnavailable)
	}

	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("failed to check identity existence: %v", err)
		return "", "", fmt.Errorf("%w: failed to check identity", types.ErrRemoteUnavailable)
	}

	if identityID == "" {
		s.logger.Infof("creating new identity for an invitation to %s", entityID)
		identityID, err = s.kratos.CreateIdentity(ctx, email)
		if err != nil {
			s.logger.Errorf("failed to create identity: %v", err)
			return "", "", fmt.Errorf("%w: failed to provision user", types.ErrRemoteUnavailable)
		}
	}

	// an existing member is re-invited, the link doubles as a password reset
	if _, err := s.storage.AddMember(ctx, entityID, identityID, role); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return "", "", fmt.Errorf("failed to add member: %w", err)
	}

	if err := s.authz.AssignEntityMember(ctx, entityID, identityID); err != nil {
		return "", "", fmt.Errorf("failed to assign permissions: %w", err)
	}

	link, code, err := s.kratos.CreateRecoveryLink(ctx, identityID, s.invitationLifetime)
	if err != nil {
		s.logger.Errorf("failed to create recovery link: %v", err)
		return "", "", fmt.Errorf("%w: failed to generate invitation link", types.ErrRemoteUnavailable)
	}

	return link, code, nil
}

func (s *Service) ListMembers(ctx context.Context, entityID string) ([]*types.Member, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.ListMembers")
	defer span.End()

	memberships, err := s.storage.ListMembersByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]*types.Member, 0, len(memberships))
	for _, m := range memberships {
		member := &types.Member{IdentityID: m.IdentityID, Role: m.Role}

		if s.kratos != nil {
			identity, err := s.kratos.GetIdentity(ctx, m.IdentityID)
			if err != nil {
				// the identity may be gone from the directory while the membership remains
				s.logger.Warnf("failed to get identity %s: %v", m.IdentityID, err)
			} else {
				member.Email = kratos.Email(identity)
			}
		}

		members = append(members, member)
	}

	return members, nil
}

// RemoveMember takes a staff member out of the entity. Owners stay, an entity
// without its owner could never be managed again.
func (s *Service) RemoveMember(ctx context.Context, entityID, identityID string) error {
	ctx, span := s.tracer.Start(ctx, "entities.Service.RemoveMember")
	defer span.End()

	memberships, err := s.storage.ListMembersByEntity(ctx, entityID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	idx := slices.IndexFunc(memberships, func(m *types.Membership) bool { return m.IdentityID == identityID })
	if idx < 0 {
		return storage.ErrNotFound
	}
	if memberships[idx].Role == types.RoleOwner {
		return fmt.Errorf("%w: owners cannot be removed", types.ErrInvalidArgument)
	}

	if err := s.storage.RemoveMember(ctx, entityID, identityID); err != nil {
		return err
	}

	if err := s.authz.RemoveEntityMember(ctx, entityID, identityID); err != nil {
		return fmt.Errorf("failed to revoke permissions: %w", err)
	}

	s.logger.Infof("removed %s from entity %s", identityID, entityID)

	return nil
}

// GrantPlatformAdmin gives an identity the platform admin role. Granting it
// twice is not an error.
func (s *Service) GrantPlatformAdmin(ctx context.Context, identityID string) error {
	ctx, span := s.tracer.Start(ctx, "entities.Service.GrantPlatformAdmin")
	defer span.End()

	if identityID == "" {
		return fmt.Errorf("%w: identity ID is required", types.ErrInvalidArgument)
	}

	if _, err := s.storage.AddMember(ctx, "", identityID, types.RolePlatformAdmin); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return fmt.Errorf("failed to add platform membership: %w", err)
	}

	if err := s.authz.AssignPlatformAdmin(ctx, identityID); err != nil {
		return fmt.Errorf("failed to assign platform admin in authz: %w", err)
	}

	s.logger.Infof("granted platform admin to %s", identityID)

	return nil
}

func (s *Service) ListServices(ctx context.Context, entityID string) ([]*types.Service, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.ListServices")
	defer span.End()

	services, err := s.storage.ListServices(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []*types.Service{}
	}

	return services, nil
}

func (s *Service) CreateService(ctx context.Context, entityID, name string, price decimal.Decimal) (*types.Service, error) {
	ctx, span := s.tracer.Start(ctx, "entities.Service.CreateService")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: service name is required", types.ErrInvalidArgument)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: service price must not be negative", types.ErrInvalidArgument)
	}

	return s.storage.CreateService(ctx, &types.Service{
		EntityID: entityID,
		Name:     name,
		Price:    price.Round(2),
		Active:   true,
	})
}

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	kratos KratosClientInterface,
	cache CacheInterface,
	invitationLifetime string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:            storage,
		authz:              authz,
		kratos:             kratos,
		cache:              cache,
		invitationLifetime: invitationLifetime,
		tracer:             tracer,
		monitor:            monitor,
		logger:             logger,
	}
}
