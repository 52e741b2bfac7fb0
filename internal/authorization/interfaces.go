// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	fga "github.com/openfga/go-sdk"

	"github.com/canonical/scheduling-service/internal/openfga"
)

type AuthorizerInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	ValidateModel(context.Context) error

	AssignEntityOwner(context.Context, string, string) error
	AssignEntityMember(context.Context, string, string) error
	RemoveEntityMember(context.Context, string, string) error
	// AssignPlatformAdmin makes a user owner of every entity linked to the platform.
	AssignPlatformAdmin(context.Context, string) error
	// LinkEntityToPlatform lets platform admins reach the entity.
	LinkEntityToPlatform(context.Context, string) error
	CheckEntityAccess(context.Context, string, string, string) (bool, error)
}

type AuthzClientInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	CompareModel(context.Context, fga.AuthorizationModel) (bool, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}
