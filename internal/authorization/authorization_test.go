// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/openfga"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_interfaces.go -source=./interfaces.go -exclude_interfaces=AuthorizerInterface

func newTestAuthorizer(c AuthzClientInterface) *Authorizer {
	logger := logging.NewNoopLogger()
	return NewAuthorizer(c, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestAuthorizer_Check(t *testing.T) {
	user := "user:123"
	relation := "member"
	object := "entity:456"
	contextualTuples := []openfga.Tuple{*openfga.NewTuple("user:789", "owner", "entity:456")}

	testCases := []struct {
		name           string
		setupMocks     func(*MockAuthzClientInterface)
		expectedResult bool
		expectedErr    bool
	}{
		{
			name: "success - allowed",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), user, relation, object, contextualTuples).Return(true, nil)
			},
			expectedResult: true,
		},
		{
			name: "success - not allowed",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), user, relation, object, contextualTuples).Return(false, nil)
			},
			expectedResult: false,
		},
		{
			name: "error - client error",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), user, relation, object, contextualTuples).Return(false, errors.New("client error"))
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			tc.setupMocks(mockClient)

			result, err := newTestAuthorizer(mockClient).Check(context.Background(), user, relation, object, contextualTuples...)

			if tc.expectedErr {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if result != tc.expectedResult {
				t.Errorf("expected result %v, got %v", tc.expectedResult, result)
			}
		})
	}
}

func TestAuthorizer_ValidateModel(t *testing.T) {
	clientErr := errors.New("client error")

	testCases := []struct {
		name        string
		setupMocks  func(*MockAuthzClientInterface)
		expectedErr error
	}{
		{
			name: "success - models match",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().CompareModel(gomock.Any(), gomock.Any()).Return(true, nil)
			},
		},
		{
			name: "error - models do not match",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().CompareModel(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			expectedErr: ErrInvalidAuthModel,
		},
		{
			name: "error - client error",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().CompareModel(gomock.Any(), gomock.Any()).Return(false, clientErr)
			},
			expectedErr: clientErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			tc.setupMocks(mockClient)

			err := newTestAuthorizer(mockClient).ValidateModel(context.Background())

			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestAuthorizationModelProvider(t *testing.T) {
	model, err := NewAuthorizationModelProvider("v0").GetModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if model.SchemaVersion != "1.1" {
		t.Errorf("expected schema 1.1, got %s", model.SchemaVersion)
	}

	var names []string
	for _, td := range model.TypeDefinitions {
		names = append(names, td.Type)
	}
	for _, expected := range []string{"user", "platform", "entity"} {
		if !slices.Contains(names, expected) {
			t.Errorf("expected type %s in %v", expected, names)
		}
	}

	if _, err := NewAuthorizationModelProvider("v9").GetModel(); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestAuthorizer_Tuples(t *testing.T) {
	entityID := "entity-1"
	userID := "user-1"
	writeErr := errors.New("write error")

	testCases := []struct {
		name        string
		call        func(*Authorizer) error
		setupMocks  func(*MockAuthzClientInterface)
		expectedErr error
	}{
		{
			name: "assign owner",
			call: func(a *Authorizer) error { return a.AssignEntityOwner(context.Background(), entityID, userID) },
			setupMocks: func(c *MockAuthzClientInterface) {
				c.EXPECT().WriteTuple(gomock.Any(), "user:user-1", OWNER_RELATION, "entity:entity-1").Return(nil)
			},
		},
		{
			name: "assign member",
			call: func(a *Authorizer) error { return a.AssignEntityMember(context.Background(), entityID, userID) },
			setupMocks: func(c *MockAuthzClientInterface) {
				c.EXPECT().WriteTuple(gomock.Any(), "user:user-1", MEMBER_RELATION, "entity:entity-1").Return(writeErr)
			},
			expectedErr: writeErr,
		},
		{
			name: "remove member",
			call: func(a *Authorizer) error { return a.RemoveEntityMember(context.Background(), entityID, userID) },
			setupMocks: func(c *MockAuthzClientInterface) {
				c.EXPECT().DeleteTuple(gomock.Any(), "user:user-1", MEMBER_RELATION, "entity:entity-1").Return(nil)
			},
		},
		{
			name: "assign platform admin",
			call: func(a *Authorizer) error { return a.AssignPlatformAdmin(context.Background(), userID) },
			setupMocks: func(c *MockAuthzClientInterface) {
				c.EXPECT().WriteTuple(gomock.Any(), "user:user-1", ADMIN_RELATION, "platform:global").Return(nil)
			},
		},
		{
			name: "link entity to platform",
			call: func(a *Authorizer) error { return a.LinkEntityToPlatform(context.Background(), entityID) },
			setupMocks: func(c *MockAuthzClientInterface) {
				c.EXPECT().WriteTuple(gomock.Any(), "platform:global", PLATFORM_RELATION, "entity:entity-1").Return(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			tc.setupMocks(mockClient)

			if err := tc.call(newTestAuthorizer(mockClient)); !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestAuthorizer_CheckEntityAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockAuthzClientInterface(ctrl)
	mockClient.EXPECT().Check(gomock.Any(), "user:user-1", CAN_EDIT_PERMISSION, "entity:entity-1").Return(true, nil)

	ok, err := newTestAuthorizer(mockClient).CheckEntityAccess(context.Background(), "entity-1", "user-1", CAN_EDIT_PERMISSION)
	if err != nil || !ok {
		t.Fatalf("expected access, got %v %v", ok, err)
	}
}

func TestRelationFor(t *testing.T) {
	if RelationFor(types.RoleOwner) != OWNER_RELATION {
		t.Error("owners map to the owner relation")
	}
	for _, r := range []types.Role{types.RoleAdmin, types.RoleManager, types.RoleProfessional, types.RoleAttendant} {
		if RelationFor(r) != MEMBER_RELATION {
			t.Errorf("%s should map to the member relation", r)
		}
	}
}
