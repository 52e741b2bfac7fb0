// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package packages

import (
	"context"

	"github.com/canonical/scheduling-service/internal/types"
)

type ServiceInterface interface {
	Create(ctx context.Context, entityID string, draft *types.Package) (*types.Package, error)
	Get(ctx context.Context, entityID, id string) (*types.Package, error)
	Update(ctx context.Context, entityID, id string, patch types.PackagePatch) (*types.Package, error)
	ToggleStatus(ctx context.Context, entityID, id string) (*types.Package, error)
	SetStatus(ctx context.Context, entityID, id string, status types.PackageStatus) (*types.Package, error)
	Delete(ctx context.Context, entityID, id string) error
	ListByEntity(ctx context.Context, entityID string, filter types.PackageFilter) ([]*types.Package, error)
}

type StorageInterface interface {
	GetServicesByIDs(ctx context.Context, entityID string, ids []string) ([]*types.Service, error)
	CreatePackage(ctx context.Context, p *types.Package) (*types.Package, error)
	GetPackage(ctx context.Context, id string) (*types.Package, error)
	UpdatePackage(ctx context.Context, p *types.Package) (*types.Package, error)
	UpdatePackageStatus(ctx context.Context, id string, from, to types.PackageStatus) (*types.Package, error)
	SoftDeletePackage(ctx context.Context, id string) error
	ListPackages(ctx context.Context, entityID string, filter types.PackageFilter) ([]*types.Package, error)
}
