// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import "github.com/canonical/scheduling-service/internal/types"

const (
	OWNER_RELATION  = "owner"
	MEMBER_RELATION = "member"

	PLATFORM_RELATION = "platform"
	ADMIN_RELATION    = "admin"

	CAN_VIEW_PERMISSION   = "can_view"
	CAN_EDIT_PERMISSION   = "can_edit"
	CAN_MANAGE_PERMISSION = "can_manage"

	// PlatformID names the single platform object entities are linked to.
	PlatformID = "global"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func EntityTuple(entityId string) string {
	return "entity:" + entityId
}

func PlatformTuple(platformId string) string {
	return "platform:" + platformId
}

// RelationFor maps a membership role onto the relation stored in OpenFGA,
// only owners are distinguished from the other staff roles.
func RelationFor(role types.Role) string {
	if role == types.RoleOwner {
		return OWNER_RELATION
	}
	return MEMBER_RELATION
}
