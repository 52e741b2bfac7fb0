// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package packages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/guard"
)

type ServiceLine struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type PricingRequest struct {
	PackagePrice decimal.Decimal `json:"packagePrice"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
}

type CreatePackageRequest struct {
	EntityID         string              `json:"entityId,omitempty"`
	Name             string              `json:"name" validate:"required,max=200"`
	Description      string              `json:"description,omitempty" validate:"max=2000"`
	Services         []ServiceLine       `json:"services" validate:"dive"`
	Pricing          PricingRequest      `json:"pricing"`
	Recurrence       types.Recurrence    `json:"recurrence" validate:"required,oneof=one_time monthly"`
	ValidityDays     int                 `json:"validityDays" validate:"required,gt=0"`
	SessionsIncluded int                 `json:"sessionsIncluded" validate:"required,gt=0"`
	Status           types.PackageStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active inactive"`
}

type PricingPatch struct {
	PackagePrice *decimal.Decimal `json:"packagePrice,omitempty"`
	Currency     *string          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

type UpdatePackageRequest struct {
	Name             *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string           `json:"description,omitempty" validate:"omitempty,max=2000"`
	Services         []ServiceLine     `json:"services,omitempty" validate:"dive"`
	Pricing          *PricingPatch     `json:"pricing,omitempty"`
	Recurrence       *types.Recurrence `json:"recurrence,omitempty" validate:"omitempty,oneof=one_time monthly"`
	ValidityDays     *int              `json:"validityDays,omitempty" validate:"omitempty,gt=0"`
	SessionsIncluded *int              `json:"sessionsIncluded,omitempty" validate:"omitempty,gt=0"`
}

type SetStatusRequest struct {
	Status types.PackageStatus `json:"status" validate:"required,oneof=draft active inactive"`
}

func lines(in []ServiceLine) []types.PackageService {
	if in == nil {
		return nil
	}

	out := make([]types.PackageService, 0, len(in))
	for _, l := range in {
		out = append(out, types.PackageService{ServiceID: l.ServiceID, Quantity: l.Quantity})
	}
	return out
}

type API struct {
	service ServiceInterface
	guards  *guard.Middleware

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	staff := a.guards.Require(guard.ProfessionalRole(false))
	managers := a.guards.Require(guard.BusinessTier())

	mux.With(staff).Get("/api/v0/packages", a.listPackages)
	mux.With(staff).Get("/api/v0/packages/{id}", a.getPackage)
	mux.With(managers).Post("/api/v0/packages", a.createPackage)
	mux.With(managers).Patch("/api/v0/packages/{id}", a.updatePackage)
	mux.With(managers).Patch("/api/v0/packages/{id}/toggle-status", a.toggleStatus)
	mux.With(managers).Patch("/api/v0/packages/{id}/status", a.setStatus)
	mux.With(managers).Delete("/api/v0/packages/{id}", a.deletePackage)
}

func (a *API) listPackages(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.listPackages")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)
	query := r.URL.Query()

	// an explicit entityId must name the caller's own entity
	if requested := query.Get("entityId"); requested != "" && requested != principal.EntityID {
		a.logger.Security().AuthzTenantMismatch(principal.ID, "package", principal.EntityID, requested)
		httptypes.WriteError(w, a.logger, types.NewTenantMismatch("package", principal.EntityID, requested))
		return
	}

	var filter types.PackageFilter
	if v := query.Get("status"); v != "" {
		status := types.PackageStatus(v)
		if !status.Valid() {
			httptypes.WriteError(w, a.logger, httptypes.NewBadRequest("unknown status %q", v))
			return
		}
		filter.Status = &status
	}
	if v := query.Get("recurrence"); v != "" {
		recurrence := types.Recurrence(v)
		if !recurrence.Valid() {
			httptypes.WriteError(w, a.logger, httptypes.NewBadRequest("unknown recurrence %q", v))
			return
		}
		filter.Recurrence = &recurrence
	}

	packages, err := a.service.ListByEntity(ctx, principal.EntityID, filter)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, packages)
}

func (a *API) getPackage(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.getPackage")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	p, err := a.service.Get(ctx, principal.EntityID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

func (a *API) createPackage(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.createPackage")
	defer span.End()

	var req CreatePackageRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	principal := authentication.PrincipalFromContext(ctx)

	draft := &types.Package{
		EntityID:    req.EntityID,
		Name:        req.Name,
		Description: req.Description,
		Services:    lines(req.Services),
		Pricing: types.Pricing{
			PackagePrice: req.Pricing.PackagePrice,
			Currency:     req.Pricing.Currency,
		},
		Recurrence:       req.Recurrence,
		ValidityDays:     req.ValidityDays,
		SessionsIncluded: req.SessionsIncluded,
		Status:           req.Status,
	}

	p, err := a.service.Create(ctx, principal.EntityID, draft)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, p)
}

func (a *API) updatePackage(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.updatePackage")
	defer span.End()

	var req UpdatePackageRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	patch := types.PackagePatch{
		Name:             req.Name,
		Description:      req.Description,
		Services:         lines(req.Services),
		Recurrence:       req.Recurrence,
		ValidityDays:     req.ValidityDays,
		SessionsIncluded: req.SessionsIncluded,
	}
	if req.Pricing != nil {
		patch.PackagePrice = req.Pricing.PackagePrice
		patch.Currency = req.Pricing.Currency
	}

	principal := authentication.PrincipalFromContext(ctx)

	p, err := a.service.Update(ctx, principal.EntityID, chi.URLParam(r, "id"), patch)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

func (a *API) toggleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.toggleStatus")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	p, err := a.service.ToggleStatus(ctx, principal.EntityID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

func (a *API) setStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.setStatus")
	defer span.End()

	var req SetStatusRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	principal := authentication.PrincipalFromContext(ctx)

	p, err := a.service.SetStatus(ctx, principal.EntityID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, p)
}

func (a *API) deletePackage(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "packages.API.deletePackage")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	if err := a.service.Delete(ctx, principal.EntityID, chi.URLParam(r, "id")); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func NewAPI(
	service ServiceInterface,
	guards *guard.Middleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service: service,
		guards:  guards,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
