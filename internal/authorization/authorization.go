// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/openfga"
	"github.com/canonical/scheduling-service/internal/tracing"
)

var ErrInvalidAuthModel = fmt.Errorf("invalid authorization model schema")

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, user string, relation string, object string, contextualTuples ...openfga.Tuple) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	return a.client.Check(ctx, user, relation, object, contextualTuples...)
}

func (a *Authorizer) ValidateModel(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ValidateModel")
	defer span.End()

	model, err := NewAuthorizationModelProvider("v0").GetModel()
	if err != nil {
		return err
	}

	eq, err := a.client.CompareModel(ctx, *model)
	if err != nil {
		return err
	}
	if !eq {
		return ErrInvalidAuthModel
	}
	return nil
}

func (a *Authorizer) AssignEntityOwner(ctx context.Context, entityId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignEntityOwner")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), OWNER_RELATION, EntityTuple(entityId))
}

func (a *Authorizer) AssignEntityMember(ctx context.Context, entityId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignEntityMember")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), MEMBER_RELATION, EntityTuple(entityId))
}

func (a *Authorizer) AssignPlatformAdmin(ctx context.Context, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignPlatformAdmin")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), ADMIN_RELATION, PlatformTuple(PlatformID))
}

func (a *Authorizer) LinkEntityToPlatform(ctx context.Context, entityId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.LinkEntityToPlatform")
	defer span.End()

	return a.client.WriteTuple(ctx, PlatformTuple(PlatformID), PLATFORM_RELATION, EntityTuple(entityId))
}

func (a *Authorizer) RemoveEntityMember(ctx context.Context, entityId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveEntityMember")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(userId), MEMBER_RELATION, EntityTuple(entityId))
}

func (a *Authorizer) CheckEntityAccess(ctx context.Context, entityId, userId, relation string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckEntityAccess")
	defer span.End()

	return a.Check(ctx, UserTuple(userId), relation, EntityTuple(entityId))
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
