// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package packages

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package packages -destination ./mock_packages.go -source=./interfaces.go

type fixture struct {
	store    *storage.MemoryStore
	service  *Service
	entityID string
	cut      *types.Service
	color    *types.Service
}

func newService(s StorageInterface) *Service {
	logger := logging.NewNoopLogger()
	return NewService(s, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store := storage.NewMemoryStore()

	e, err := store.CreateEntity(ctx, &types.Entity{Name: "salon", Tier: types.TierBusiness, OnboardingComplete: true})
	if err != nil {
		t.Fatalf("create entity: %v", err)
	}

	cut, err := store.CreateService(ctx, &types.Service{EntityID: e.ID, Name: "Cut", Price: decimal.NewFromInt(30), Active: true})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	color, err := store.CreateService(ctx, &types.Service{EntityID: e.ID, Name: "Color", Price: decimal.NewFromInt(40), Active: true})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	return &fixture{store: store, service: newService(store), entityID: e.ID, cut: cut, color: color}
}

func (f *fixture) draft(price string) *types.Package {
	return &types.Package{
		Name: "Monthly care",
		Services: []types.PackageService{
			{ServiceID: f.cut.ID, Quantity: 2},
			{ServiceID: f.color.ID, Quantity: 1},
		},
		Pricing:          types.Pricing{PackagePrice: decimal.RequireFromString(price)},
		Recurrence:       types.RecurrenceMonthly,
		ValidityDays:     30,
		SessionsIncluded: 3,
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.service.Create(ctx, f.entityID, f.draft("80"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if !p.Pricing.OriginalPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected original price 100, got %s", p.Pricing.OriginalPrice)
	}

	if !p.Pricing.DiscountPercent.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount 20, got %s", p.Pricing.DiscountPercent)
	}

	if p.Status != types.PackageStatusDraft || p.Pricing.Currency != DefaultCurrency || p.EntityID != f.entityID {
		t.Fatalf("unexpected defaults %+v", p)
	}

	if p.Services[0].Name != "Cut" || !p.Services[0].UnitPrice.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected resolved services, got %+v", p.Services)
	}

	if _, err := f.service.Create(ctx, f.entityID, f.draft("120")); !errors.Is(err, types.ErrPriceExceedsOriginal) {
		t.Fatalf("expected ErrPriceExceedsOriginal, got %v", err)
	}
}

func TestService_CreateRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		entityID    string
		mutate      func(*types.Package)
		expectedErr error
	}{
		{
			name:        "empty service set",
			mutate:      func(p *types.Package) { p.Services = nil },
			expectedErr: types.ErrEmptyServiceSet,
		},
		{
			name:        "only unknown services",
			mutate:      func(p *types.Package) { p.Services = []types.PackageService{{ServiceID: "gone", Quantity: 1}} },
			expectedErr: types.ErrEmptyServiceSet,
		},
		{
			name:        "zero price",
			mutate:      func(p *types.Package) { p.Pricing.PackagePrice = decimal.Zero },
			expectedErr: types.ErrInvalidPrice,
		},
		{
			name:        "zero validity",
			mutate:      func(p *types.Package) { p.ValidityDays = 0 },
			expectedErr: types.ErrInvalidArgument,
		},
		{
			name:        "zero sessions",
			mutate:      func(p *types.Package) { p.SessionsIncluded = 0 },
			expectedErr: types.ErrInvalidArgument,
		},
		{
			name:        "draft for another entity",
			mutate:      func(p *types.Package) { p.EntityID = "someone-else" },
			expectedErr: types.ErrTenantMismatch,
		},
		{
			name:        "caller without entity",
			entityID:    "-",
			mutate:      func(*types.Package) {},
			expectedErr: types.ErrTenantMismatch,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entityID := f.entityID
			if test.entityID == "-" {
				entityID = ""
			}

			draft := f.draft("80")
			test.mutate(draft)

			if _, err := f.service.Create(ctx, entityID, draft); !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected %v, got %v", test.expectedErr, err)
			}
		})
	}
}

func TestService_UpdateRevalidatesAgainstCurrentPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.service.Create(ctx, f.entityID, f.draft("90"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	// the cut becomes cheaper, the stored price is now above the original
	if err := f.store.UpdateService(f.cut.ID, func(s *types.Service) { s.Price = decimal.NewFromInt(20) }); err != nil {
		t.Fatalf("update service: %v", err)
	}

	name := "Renamed"
	if _, err := f.service.Update(ctx, f.entityID, p.ID, types.PackagePatch{Name: &name}); !errors.Is(err, types.ErrPriceExceedsOriginal) {
		t.Fatalf("expected ErrPriceExceedsOriginal, got %v", err)
	}

	price := decimal.NewFromInt(60)
	updated, err := f.service.Update(ctx, f.entityID, p.ID, types.PackagePatch{Name: &name, PackagePrice: &price})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if updated.Name != name || !updated.Pricing.OriginalPrice.Equal(decimal.NewFromInt(80)) || !updated.Pricing.DiscountPercent.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestService_UpdateDropsStaleServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.service.Create(ctx, f.entityID, f.draft("50"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if err := f.store.UpdateService(f.color.ID, func(s *types.Service) { s.Active = false }); err != nil {
		t.Fatalf("update service: %v", err)
	}

	updated, err := f.service.Update(ctx, f.entityID, p.ID, types.PackagePatch{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(updated.Services) != 1 || updated.Services[0].ServiceID != f.cut.ID {
		t.Fatalf("expected only the active service, got %+v", updated.Services)
	}

	if !updated.Pricing.OriginalPrice.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected original price 60, got %s", updated.Pricing.OriginalPrice)
	}
}

func TestService_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.service.Create(ctx, f.entityID, f.draft("80"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := f.service.ToggleStatus(ctx, f.entityID, p.ID); !errors.Is(err, types.ErrInvalidPackageState) {
		t.Fatalf("expected drafts not to toggle, got %v", err)
	}

	active, err := f.service.SetStatus(ctx, f.entityID, p.ID, types.PackageStatusActive)
	if err != nil || active.Status != types.PackageStatusActive {
		t.Fatalf("expected active package, got %v %v", active, err)
	}

	inactive, err := f.service.ToggleStatus(ctx, f.entityID, p.ID)
	if err != nil || inactive.Status != types.PackageStatusInactive {
		t.Fatalf("expected inactive package, got %v %v", inactive, err)
	}

	again, err := f.service.ToggleStatus(ctx, f.entityID, p.ID)
	if err != nil || again.Status != types.PackageStatusActive {
		t.Fatalf("expected active package, got %v %v", again, err)
	}

	if _, err := f.service.SetStatus(ctx, f.entityID, p.ID, types.PackageStatusDraft); !errors.Is(err, types.ErrInvalidPackageState) {
		t.Fatalf("expected no way back to draft, got %v", err)
	}
}

func TestService_DeleteAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	monthly, err := f.service.Create(ctx, f.entityID, f.draft("80"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	oneTime := f.draft("70")
	oneTime.Recurrence = types.RecurrenceOneTime
	oneTime.Status = types.PackageStatusActive
	if _, err := f.service.Create(ctx, f.entityID, oneTime); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	active := types.PackageStatusActive
	listed, err := f.service.ListByEntity(ctx, f.entityID, types.PackageFilter{Status: &active})
	if err != nil || len(listed) != 1 || listed[0].Recurrence != types.RecurrenceOneTime {
		t.Fatalf("expected the active one time package, got %v %v", listed, err)
	}

	if err := f.service.Delete(ctx, f.entityID, monthly.ID); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := f.service.Get(ctx, f.entityID, monthly.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected deleted package to be gone, got %v", err)
	}

	if err := f.service.Delete(ctx, f.entityID, monthly.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}

	all, err := f.service.ListByEntity(ctx, f.entityID, types.PackageFilter{})
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one live package, got %v %v", all, err)
	}
}

func TestService_TenantMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetPackage(gomock.Any(), "package-1").Return(&types.Package{ID: "package-1", EntityID: "entity-2"}, nil).Times(4)

	s := newService(mockStorage)
	ctx := context.Background()

	if _, err := s.Get(ctx, "entity-1", "package-1"); !errors.Is(err, types.ErrTenantMismatch) {
		t.Fatalf("expected tenant mismatch on get, got %v", err)
	}

	if _, err := s.ToggleStatus(ctx, "entity-1", "package-1"); !errors.Is(err, types.ErrTenantMismatch) {
		t.Fatalf("expected tenant mismatch on toggle, got %v", err)
	}

	if _, err := s.Update(ctx, "entity-1", "package-1", types.PackagePatch{}); !errors.Is(err, types.ErrTenantMismatch) {
		t.Fatalf("expected tenant mismatch on update, got %v", err)
	}

	if err := s.Delete(ctx, "entity-1", "package-1"); !errors.Is(err, types.ErrTenantMismatch) {
		t.Fatalf("expected tenant mismatch on delete, got %v", err)
	}
}

func TestService_ConcurrentStatusChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetPackage(gomock.Any(), "package-1").Return(&types.Package{ID: "package-1", EntityID: "entity-1", Status: types.PackageStatusActive}, nil)
	mockStorage.EXPECT().UpdatePackageStatus(gomock.Any(), "package-1", types.PackageStatusActive, types.PackageStatusInactive).Return(nil, storage.ErrPreconditionFailed)

	_, err := newService(mockStorage).ToggleStatus(context.Background(), "entity-1", "package-1")
	if !errors.Is(err, types.ErrInvalidPackageState) {
		t.Fatalf("expected ErrInvalidPackageState, got %v", err)
	}
}
