// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"testing"

	"github.com/ory/hydra/v2/oauth2"
	"go.uber.org/mock/gomock"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_webhooks.go -source=./interfaces.go

func newTestService(ctrl *gomock.Controller) (*Service, *MockStorageInterface, *MockProvisionerInterface, *MockPrincipalResolverInterface) {
	logger := logging.NewNoopLogger()
	storage := NewMockStorageInterface(ctrl)
	provisioner := NewMockProvisionerInterface(ctrl)
	resolver := NewMockPrincipalResolverInterface(ctrl)

	s := NewService(storage, provisioner, resolver, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	return s, storage, provisioner, resolver
}

func TestService_HandleRegistration(t *testing.T) {
	tests := []struct {
		name       string
		identityID string
		email      string
		setupMocks func(*MockStorageInterface, *MockProvisionerInterface)
		wantErr    bool
	}{
		{
			name:       "provisions a studio",
			identityID: "user-1",
			email:      "ada@example.com",
			setupMocks: func(s *MockStorageInterface, p *MockProvisionerInterface) {
				s.EXPECT().ListMembershipsByIdentity(gomock.Any(), "user-1").Return(nil, nil)
				p.EXPECT().CreateEntity(gomock.Any(), "ada@example.com's Studio", types.TierSimple, "user-1").
					Return(&types.Entity{ID: "entity-1"}, nil)
			},
		},
		{
			name:       "already provisioned",
			identityID: "user-1",
			email:      "ada@example.com",
			setupMocks: func(s *MockStorageInterface, p *MockProvisionerInterface) {
				s.EXPECT().ListMembershipsByIdentity(gomock.Any(), "user-1").
					Return([]*types.Membership{{EntityID: "entity-1", IdentityID: "user-1", Role: types.RoleOwner}}, nil)
			},
		},
		{
			name:       "missing email",
			identityID: "user-1",
			setupMocks: func(*MockStorageInterface, *MockProvisionerInterface) {},
			wantErr:    true,
		},
		{
			name:       "storage failure",
			identityID: "user-1",
			email:      "ada@example.com",
			setupMocks: func(s *MockStorageInterface, p *MockProvisionerInterface) {
				s.EXPECT().ListMembershipsByIdentity(gomock.Any(), "user-1").Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name:       "provisioning failure",
			identityID: "user-1",
			email:      "ada@example.com",
			setupMocks: func(s *MockStorageInterface, p *MockProvisionerInterface) {
				s.EXPECT().ListMembershipsByIdentity(gomock.Any(), "user-1").Return(nil, nil)
				p.EXPECT().CreateEntity(gomock.Any(), gomock.Any(), types.TierSimple, "user-1").Return(nil, errors.New("fga down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, storage, provisioner, _ := newTestService(ctrl)
			tt.setupMocks(storage, provisioner)

			err := s.HandleRegistration(context.Background(), tt.identityID, tt.email)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandleRegistration() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_HandleTokenHook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, storage, _, resolver := newTestService(ctrl)

	resolver.EXPECT().Resolve(gomock.Any(), "user-1", "").
		Return(&types.Principal{ID: "user-1", Role: types.RoleOwner, Tier: types.TierBusiness, EntityID: "entity-1", Authenticated: true}, nil)
	storage.EXPECT().ListMembershipsByIdentity(gomock.Any(), "user-1").
		Return([]*types.Membership{{EntityID: "entity-1"}, {EntityID: "entity-2"}}, nil)

	resp, err := s.HandleTokenHook(context.Background(), &oauth2.TokenHookRequest{Session: oauth2.NewSession("user-1")})
	if err != nil {
		t.Fatalf("HandleTokenHook() error = %v", err)
	}

	for _, claims := range []map[string]interface{}{resp.Session.IDToken, resp.Session.AccessToken} {
		if claims[ClaimEntityID] != "entity-1" {
			t.Errorf("expected entity claim entity-1, got %v", claims[ClaimEntityID])
		}
		if claims[ClaimRole] != "owner" {
			t.Errorf("expected role claim owner, got %v", claims[ClaimRole])
		}
		if claims[ClaimTier] != "business" {
			t.Errorf("expected tier claim business, got %v", claims[ClaimTier])
		}
		if entities, ok := claims[ClaimEntities].([]string); !ok || len(entities) != 2 {
			t.Errorf("expected two entities, got %v", claims[ClaimEntities])
		}
	}
}

func TestService_HandleTokenHook_NoMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, _, resolver := newTestService(ctrl)

	resolver.EXPECT().Resolve(gomock.Any(), "user-1", "").
		Return(&types.Principal{ID: "user-1", Authenticated: true}, nil)

	resp, err := s.HandleTokenHook(context.Background(), &oauth2.TokenHookRequest{Session: oauth2.NewSession("user-1")})
	if err != nil {
		t.Fatalf("HandleTokenHook() error = %v", err)
	}
	if resp.Session.IDToken != nil || resp.Session.AccessToken != nil {
		t.Errorf("expected no claims, got %v", resp.Session)
	}
}

func TestService_HandleTokenHook_InvalidSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, _, _ := newTestService(ctrl)

	for _, req := range []*oauth2.TokenHookRequest{nil, {}, {Session: oauth2.NewSession("")}} {
		if _, err := s.HandleTokenHook(context.Background(), req); err == nil {
			t.Errorf("expected error for %+v", req)
		}
	}
}

func TestService_HandleTokenHook_ResolveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, _, resolver := newTestService(ctrl)

	resolver.EXPECT().Resolve(gomock.Any(), "user-1", "").Return(nil, errors.New("db down"))

	if _, err := s.HandleTokenHook(context.Background(), &oauth2.TokenHookRequest{Session: oauth2.NewSession("user-1")}); err == nil {
		t.Fatal("expected error")
	}
}
