// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"fmt"

	"github.com/ory/hydra/v2/oauth2"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage     StorageInterface
	provisioner ProvisionerInterface
	resolver    PrincipalResolverInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	provisioner ProvisionerInterface,
	resolver PrincipalResolverInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:     storage,
		provisioner: provisioner,
		resolver:    resolver,
		tracer:      tracer,
		monitor:     monitor,
		logger:      logger,
	}
}

// HandleRegistration gives a newly registered identity its own entity on the
// simple tier with onboarding pending. Kratos retries hooks, an identity
// that already has a membership is left alone.
func (s *Service) HandleRegistration(ctx context.Context, identityID, email string) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	if identityID == "" || email == "" {
		return fmt.Errorf("identity ID or email is empty")
	}

	memberships, err := s.storage.ListMembershipsByIdentity(ctx, identityID)
	if err != nil {
		return fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) > 0 {
		s.logger.Debugf("identity %s already provisioned", identityID)
		return nil
	}

	entity, err := s.provisioner.CreateEntity(ctx, fmt.Sprintf("%s's Studio", email), types.TierSimple, identityID)
	if err != nil {
		return fmt.Errorf("failed to provision entity: %w", err)
	}

	s.logger.Infof("provisioned entity %s for identity %s", entity.ID, identityID)
	return nil
}

// HandleTokenHook adds the entity, role and tier of the subject to both
// tokens. Subjects without a membership get no extra claims.
func (s *Service) HandleTokenHook(ctx context.Context, req *oauth2.TokenHookRequest) (*TokenHookResponse, error) {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleTokenHook")
	defer span.End()

	if req == nil || req.Session == nil || req.Session.DefaultSession == nil {
		return nil, fmt.Errorf("token hook request has no session")
	}

	subject := req.Session.GetSubject()
	if subject == "" {
		return nil, fmt.Errorf("token hook session has no subject")
	}

	resp := new(TokenHookResponse)

	principal, err := s.resolver.Resolve(ctx, subject, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	if principal.Role == "" {
		s.logger.Debugf("no membership for subject %s", subject)
		return resp, nil
	}

	memberships, err := s.storage.ListMembershipsByIdentity(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	entities := make([]string, 0, len(memberships))
	for _, m := range memberships {
		if m.EntityID != "" {
			entities = append(entities, m.EntityID)
		}
	}

	claims := map[string]interface{}{
		ClaimRole: string(principal.Role),
	}
	if principal.EntityID != "" {
		claims[ClaimEntityID] = principal.EntityID
		claims[ClaimTier] = string(principal.Tier)
	}
	if len(entities) > 0 {
		claims[ClaimEntities] = entities
	}

	resp.Session.IDToken = claims
	resp.Session.AccessToken = claims

	return resp, nil
}
