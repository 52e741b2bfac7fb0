// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package packages

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
)

type Service struct {
	storage StorageInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (s *Service) Create(ctx context.Context, entityID string, draft *types.Package) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "packages.Service.Create")
	defer span.End()

	owner := draft.EntityID
	if owner == "" {
		owner = entityID
	}

	if err := s.checkTenant(ctx, "package", entityID, owner); err != nil {
		return nil, err
	}

	p := *draft
	p.ID = ""
	p.EntityID = entityID
	p.DeletedAt = nil

	if p.Status == "" {
		p.Status = types.PackageStatusDraft
	}

	if err := validateTerms(&p); err != nil {
		return nil, err
	}

	if err := s.price(ctx, &p, p.Services, p.Pricing.PackagePrice, p.Pricing.Currency); err != nil {
		return nil, err
	}

	created, err := s.storage.CreatePackage(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, entityID, id string) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "packages.Service.Get")
	defer span.End()

	return s.load(ctx, entityID, id)
}

// Update re-validates the price against the current prices of the services,
// which may have changed since the package was created.
func (s *Service) Update(ctx context.Context, entityID, id string, patch types.PackagePatch) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "packages.Service.Update")
	defer span.End()

	p, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Recurrence != nil {
		p.Recurrence = *patch.Recurrence
	}
	if patch.ValidityDays != nil {
		p.ValidityDays = *patch.ValidityDays
	}
	if patch.SessionsIncluded != nil {
		p.SessionsIncluded = *patch.SessionsIncluded
	}

	lines := p.Services
	if patch.Services != nil {
		lines = patch.Services
	}

	packagePrice := p.Pricing.PackagePrice
	if patch.PackagePrice != nil {
		packagePrice = *patch.PackagePrice
	}

	currency := p.Pricing.Currency
	if patch.Currency != nil {
		currency = *patch.Currency
	}

	if err := validateTerms(p); err != nil {
		return nil, err
	}

	if err := s.price(ctx, p, lines, packagePrice, currency); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdatePackage(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	return updated, nil
}

// ToggleStatus flips between active and inactive, drafts must be published
// through SetStatus first.
func (s *Service) ToggleStatus(ctx context.Context, entityID, id string) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "packages.Service.ToggleStatus")
	defer span.End()

	p, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	var next types.PackageStatus
	switch p.Status {
	case types.PackageStatusActive:
		next = types.PackageStatusInactive
	case types.PackageStatusInactive:
		next = types.PackageStatusActive
	default:
		return nil, fmt.Errorf("%w: cannot toggle a %s package", types.ErrInvalidPackageState, p.Status)
	}

	return s.transition(ctx, p, next)
}

// SetStatus is the explicit transition, a published package never goes back to draft.
func (s *Service) SetStatus(ctx context.Context, entityID, id string, status types.PackageStatus) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "packages.Service.SetStatus")
	defer span.End()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown package status %q", types.ErrInvalidArgument, status)
	}

	p, err := s.load(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	if p.Status == status {
		return p, nil
	}

	if status == types.PackageStatusDraft {
		return nil, fmt.Errorf("%w: a %s package cannot return to draft", types.ErrInvalidPackageState, p.Status)
	}

	return s.transition(ctx, p, status)
}

// Delete is a soft delete, subscriptions keep referencing the package row.
func (s *Service) Delete(ctx context.Context, entityID, id string) error {
	ctx, span := s.tracer.Start(ctx, "packages.Service.Delete")
	defer span.End()

	if _, err := s.load(ctx, entityID, id); err != nil {
		return err
	}

	if err := s.storage.SoftDeletePackage(ctx, id); err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}

	return nil
}

func (s *Service) ListByEntity(ctx context.Context, entityID string, filter types.PackageFilter) ([]*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "packages.Service.ListByEntity")
	defer span.End()

	if err := s.checkTenant(ctx, "package", entityID, entityID); err != nil {
		return nil, err
	}

	packages, err := s.storage.ListPackages(ctx, entityID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}

	return packages, nil
}

func (s *Service) load(ctx context.Context, entityID, id string) (*types.Package, error) {
	p, err := s.storage.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkTenant(ctx, "package:"+id, entityID, p.EntityID); err != nil {
		return nil, err
	}

	if p.DeletedAt != nil {
		return nil, storage.ErrNotFound
	}

	return p, nil
}

func (s *Service) transition(ctx context.Context, p *types.Package, to types.PackageStatus) (*types.Package, error) {
	updated, err := s.storage.UpdatePackageStatus(ctx, p.ID, p.Status, to)
	if err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			return nil, fmt.Errorf("%w: package changed concurrently", types.ErrInvalidPackageState)
		}
		return nil, fmt.Errorf("failed to update package status: %w", err)
	}

	s.logger.Debugf("package %s moved from %s to %s", p.ID, p.Status, to)

	return updated, nil
}

// price resolves the service lines against the live catalogue and sets the
// derived pricing on p.
func (s *Service) price(ctx context.Context, p *types.Package, lines []types.PackageService, packagePrice decimal.Decimal, currency string) error {
	if len(lines) == 0 {
		return types.ErrEmptyServiceSet
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: service %s quantity must be positive", types.ErrInvalidArgument, l.ServiceID)
		}
		ids = append(ids, l.ServiceID)
	}

	live, err := s.storage.GetServicesByIDs(ctx, p.EntityID, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve services: %w", err)
	}

	resolved, stale := resolveLines(lines, live)
	if stale > 0 {
		s.logger.Warnf("package %q references %d unavailable services, they were dropped", p.Name, stale)
	}

	pricing, err := ComputePricing(resolved, packagePrice, currency)
	if err != nil {
		return err
	}

	p.Services = resolved
	p.Pricing = pricing

	return nil
}

func (s *Service) checkTenant(ctx context.Context, resource, callerEntityID, resourceEntityID string) error {
	err := types.CheckTenant(resource, callerEntityID, resourceEntityID)
	if err != nil {
		userID, _ := authentication.GetUserID(ctx)
		s.logger.Security().AuthzTenantMismatch(userID, resource, callerEntityID, resourceEntityID)
	}
	return err
}

func validateTerms(p *types.Package) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: package name is required", types.ErrInvalidArgument)
	case !p.Recurrence.Valid():
		return fmt.Errorf("%w: unknown recurrence %q", types.ErrInvalidArgument, p.Recurrence)
	case p.ValidityDays <= 0:
		return fmt.Errorf("%w: validity days must be positive", types.ErrInvalidArgument)
	case p.SessionsIncluded <= 0:
		return fmt.Errorf("%w: sessions included must be positive", types.ErrInvalidArgument)
	case !p.Status.Valid():
		return fmt.Errorf("%w: unknown package status %q", types.ErrInvalidArgument, p.Status)
	}
	return nil
}
