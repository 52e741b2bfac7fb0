// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package entities

import (
	"context"
	"errors"
	"testing"

	ory "github.com/ory/client-go"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/canonical/scheduling-service/internal/authorization"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
)

//go:generate mockgen -build_flags=--mod=mod -package entities -destination ./mock_entities.go -source=./interfaces.go

type mocks struct {
	authz  *MockAuthzInterface
	kratos *MockKratosClientInterface
	cache  *MockCacheInterface
}

func newTestService(t *testing.T, store StorageInterface, withKratos bool) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		authz:  NewMockAuthzInterface(ctrl),
		kratos: NewMockKratosClientInterface(ctrl),
		cache:  NewMockCacheInterface(ctrl),
	}

	var directory KratosClientInterface
	if withKratos {
		directory = m.kratos
	}

	logger := logging.NewNoopLogger()
	s := NewService(store, m.authz, directory, m.cache, "1h", tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	return s, m
}

func ownerContext(entityID string) context.Context {
	return authentication.WithPrincipal(context.Background(), &types.Principal{
		ID: "owner-1", Role: types.RoleOwner, EntityID: entityID, Tier: types.TierSimple, Authenticated: true,
	})
}

func TestServiceCreateEntity(t *testing.T) {
	store := storage.NewMemoryStore()
	s, m := newTestService(t, store, false)

	m.authz.EXPECT().LinkEntityToPlatform(gomock.Any(), gomock.Any()).Return(nil)
	m.authz.EXPECT().AssignEntityOwner(gomock.Any(), gomock.Any(), "owner-1").Return(nil)

	entity, err := s.CreateEntity(context.Background(), "  Studio Lumen ", "", "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entity.Name != "Studio Lumen" || entity.Tier != types.TierSimple || entity.OnboardingComplete {
		t.Errorf("unexpected entity %+v", entity)
	}

	members, err := store.ListMembersByEntity(context.Background(), entity.ID)
	if err != nil || len(members) != 1 || members[0].Role != types.RoleOwner || members[0].IdentityID != "owner-1" {
		t.Fatalf("expected owner membership, got %v %v", members, err)
	}
}

func TestServiceCreateEntityRejections(t *testing.T) {
	tests := []struct {
		name string
		ent  string
		tier types.Tier
	}{
		{name: "blank name", ent: "  ", tier: types.TierBusiness},
		{name: "unknown tier", ent: "Studio", tier: "platinum"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, _ := newTestService(t, storage.NewMemoryStore(), false)

			if _, err := s.CreateEntity(context.Background(), test.ent, test.tier, ""); !errors.Is(err, types.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestServiceCreateEntityAuthzFailure(t *testing.T) {
	s, m := newTestService(t, storage.NewMemoryStore(), false)

	m.authz.EXPECT().LinkEntityToPlatform(gomock.Any(), gomock.Any()).Return(errors.New("fga down"))

	if _, err := s.CreateEntity(context.Background(), "Studio", types.TierBusiness, "owner-1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestServiceCompleteOnboarding(t *testing.T) {
	store := storage.NewMemoryStore()
	entity, _ := store.CreateEntity(context.Background(), &types.Entity{Name: "Studio", Tier: types.TierSimple})

	s, m := newTestService(t, store, false)
	ctx := ownerContext(entity.ID)

	m.authz.EXPECT().CheckEntityAccess(gomock.Any(), entity.ID, "owner-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil).Times(2)
	m.cache.EXPECT().Invalidate(entity.ID).Times(1)

	completed, err := s.CompleteOnboarding(ctx, entity.ID)
	if err != nil || !completed.OnboardingComplete {
		t.Fatalf("expected completed entity, got %+v %v", completed, err)
	}

	// a second completion is a no-op and keeps the cache
	again, err := s.CompleteOnboarding(ctx, entity.ID)
	if err != nil || !again.OnboardingComplete {
		t.Fatalf("expected completed entity, got %+v %v", again, err)
	}
}

func TestServiceCompleteOnboardingDenied(t *testing.T) {
	store := storage.NewMemoryStore()
	entity, _ := store.CreateEntity(context.Background(), &types.Entity{Name: "Studio", Tier: types.TierSimple})

	s, m := newTestService(t, store, false)

	m.authz.EXPECT().CheckEntityAccess(gomock.Any(), entity.ID, "owner-1", authorization.CAN_EDIT_PERMISSION).Return(false, nil)

	_, err := s.CompleteOnboarding(ownerContext(entity.ID), entity.ID)
	if !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, _ := store.GetEntity(context.Background(), entity.ID)
	if stored.OnboardingComplete {
		t.Error("onboarding must stay pending")
	}
}

func TestServiceChangeTier(t *testing.T) {
	store := storage.NewMemoryStore()
	entity, _ := store.CreateEntity(context.Background(), &types.Entity{Name: "Studio", Tier: types.TierSimple})

	s, m := newTestService(t, store, false)
	m.cache.EXPECT().Invalidate(entity.ID)

	updated, err := s.ChangeTier(context.Background(), entity.ID, types.TierBusiness)
	if err != nil || updated.Tier != types.TierBusiness {
		t.Fatalf("expected business tier, got %+v %v", updated, err)
	}

	if _, err := s.ChangeTier(context.Background(), entity.ID, "gold"); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	if _, err := s.ChangeTier(context.Background(), "missing", types.TierIndividual); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceInviteMember(t *testing.T) {
	store := storage.NewMemoryStore()
	entity, _ := store.CreateEntity(context.Background(), &types.Entity{Name: "Studio", Tier: types.TierBusiness})

	tests := []struct {
		name        string
		role        types.Role
		setupMocks  func(mocks)
		expectedErr error
	}{
		{
			name: "new identity",
			role: types.RoleProfessional,
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "pro@example.com").Return("", nil)
				m.kratos.EXPECT().CreateIdentity(gomock.Any(), "pro@example.com").Return("identity-9", nil)
				m.authz.EXPECT().AssignEntityMember(gomock.Any(), entity.ID, "identity-9").Return(nil)
				m.kratos.EXPECT().CreateRecoveryLink(gomock.Any(), "identity-9", "1h").Return("https://link", "123456", nil)
			},
		},
		{
			name: "existing member is re-invited",
			role: types.RoleProfessional,
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "pro@example.com").Return("identity-9", nil)
				m.authz.EXPECT().AssignEntityMember(gomock.Any(), entity.ID, "identity-9").Return(nil)
				m.kratos.EXPECT().CreateRecoveryLink(gomock.Any(), "identity-9", "1h").Return("https://link", "654321", nil)
			},
		},
		{
			name:        "owner cannot be invited",
			role:        types.RoleOwner,
			setupMocks:  func(mocks) {},
			expectedErr: types.ErrInvalidArgument,
		},
		{
			name: "directory down",
			role: types.RoleManager,
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "pro@example.com").Return("", errors.New("timeout"))
			},
			expectedErr: types.ErrRemoteUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, m := newTestService(t, store, true)
			test.setupMocks(m)

			link, code, err := s.InviteMember(context.Background(), entity.ID, "pro@example.com", test.role)

			if !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected error %v, got %v", test.expectedErr, err)
			}
			if test.expectedErr == nil && (link == "" || code == "") {
				t.Errorf("expected link and code, got %q %q", link, code)
			}
		})
	}

	members, _ := store.ListMembersByEntity(context.Background(), entity.ID)
	if len(members) != 1 {
		t.Errorf("expected a single membership after re-invite, got %d", len(members))
	}
}

func TestServiceInviteMemberWithoutDirectory(t *testing.T) {
	s, _ := newTestService(t, storage.NewMemoryStore(), false)

	if _, _, err := s.InviteMember(context.Background(), "entity-1", "pro@example.com", types.RoleProfessional); !errors.Is(err, types.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestServiceListMembers(t *testing.T) {
	store := storage.NewMemoryStore()
	entity, _ := store.CreateEntity(context.Background(), &types.Entity{Name: "Studio", Tier: types.TierBusiness})
	store.AddMember(context.Background(), entity.ID, "owner-1", types.RoleOwner)
	store.AddMember(context.Background(), entity.ID, "gone-1", types.RoleAttendant)

	s, m := newTestService(t, store, true)
	m.kratos.EXPECT().GetIdentity(gomock.Any(), "owner-1").Return(&ory.Identity{Id: "owner-1", Traits: map[string]interface{}{"email": "owner@example.com"}}, nil)
	m.kratos.EXPECT().GetIdentity(gomock.Any(), "gone-1").Return(nil, errors.New("not found"))

	members, err := s.ListMembers(context.Background(), entity.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emails := map[string]string{}
	for _, member := range members {
		emails[member.IdentityID] = member.Email
	}

	if len(members) != 2 || emails["owner-1"] != "owner@example.com" || emails["gone-1"] != "" {
		t.Errorf("unexpected members %v", emails)
	}
}

func TestServiceCatalogue(t *testing.T) {
	store := storage.NewMemoryStore()
	entity, _ := store.CreateEntity(context.Background(), &types.Entity{Name: "Studio", Tier: types.TierBusiness})

	s, _ := newTestService(t, store, false)

	empty, err := s.ListServices(context.Background(), entity.ID)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non nil list, got %v %v", empty, err)
	}

	svc, err := s.CreateService(context.Background(), entity.ID, "Massage", decimal.RequireFromString("45.555"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Price.Equal(decimal.RequireFromString("45.56")) || !svc.Active {
		t.Errorf("unexpected service %+v", svc)
	}

	if _, err := s.CreateService(context.Background(), entity.ID, "Massage", decimal.NewFromInt(-1)); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	listed, _ := s.ListServices(context.Background(), entity.ID)
	if len(listed) != 1 || listed[0].ID != svc.ID {
		t.Errorf("unexpected catalogue %v", listed)
	}
}

func TestServiceRemoveMember(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s, m := newTestService(t, store, false)

	entity, _ := store.CreateEntity(ctx, &types.Entity{Name: "studio", Tier: types.TierBusiness})
	store.AddMember(ctx, entity.ID, "owner-1", types.RoleOwner)
	store.AddMember(ctx, entity.ID, "pro-1", types.RoleProfessional)

	m.authz.EXPECT().RemoveEntityMember(gomock.Any(), entity.ID, "pro-1").Return(nil)

	if err := s.RemoveMember(ctx, entity.ID, "pro-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.RemoveMember(ctx, entity.ID, "pro-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found on second removal, got %v", err)
	}

	if err := s.RemoveMember(ctx, entity.ID, "owner-1"); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("expected owners to stay, got %v", err)
	}

	members, _ := store.ListMembersByEntity(ctx, entity.ID)
	if len(members) != 1 || members[0].IdentityID != "owner-1" {
		t.Errorf("expected only the owner left, got %v", members)
	}
}

func TestServiceGrantPlatformAdmin(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s, m := newTestService(t, store, false)

	m.authz.EXPECT().AssignPlatformAdmin(gomock.Any(), "admin-1").Return(nil).Times(2)

	for range 2 {
		if err := s.GrantPlatformAdmin(ctx, "admin-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	memberships, _ := store.ListMembershipsByIdentity(ctx, "admin-1")
	if len(memberships) != 1 || memberships[0].Role != types.RolePlatformAdmin || memberships[0].EntityID != "" {
		t.Errorf("expected a single platform membership, got %v", memberships)
	}

	if err := s.GrantPlatformAdmin(ctx, ""); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}
