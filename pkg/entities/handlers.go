// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package entities

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
	"github.com/canonical/scheduling-service/pkg/plans"
)

type CreateEntityRequest struct {
	Name    string     `json:"name" validate:"required,max=200"`
	Tier    types.Tier `json:"tier,omitempty" validate:"omitempty,oneof=simple individual business"`
	OwnerID string     `json:"ownerId,omitempty"`
}

type ChangeTierRequest struct {
	Tier types.Tier `json:"tier" validate:"required,oneof=simple individual business"`
}

type InviteMemberRequest struct {
	Email string     `json:"email" validate:"required,email"`
	Role  types.Role `json:"role" validate:"required"`
}

type InviteMemberResponse struct {
	Status string `json:"status"`
	Link   string `json:"link"`
	Code   string `json:"code"`
}

type CreateServiceRequest struct {
	Name  string          `json:"name" validate:"required,max=200"`
	Price decimal.Decimal `json:"price"`
}

type API struct {
	service ServiceInterface
	guards  *guard.Middleware

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	authenticated := a.guards.Require(guard.Authenticated())
	owners := a.guards.Require(guard.OwnerOnly())
	admins := a.guards.Require(guard.AdminOnly())

	mux.With(authenticated).Get("/api/v0/entities/me", a.getMyEntity)
	mux.With(owners).Post("/api/v0/entities/me/onboarding/complete", a.completeOnboarding)
	mux.With(owners).Get("/api/v0/entities/me/members", a.listMembers)
	mux.With(owners).Post("/api/v0/entities/me/members", a.inviteMember)
	mux.With(owners).Delete("/api/v0/entities/me/members/{identityId}", a.removeMember)
	mux.With(admins).Post("/api/v0/entities", a.createEntity)
	mux.With(admins).Patch("/api/v0/entities/{id}/tier", a.changeTier)
}

// RegisterServiceEndpoints exposes the service catalogue, these routes sit
// behind the onboarding gate unlike the entity routes.
func (a *API) RegisterServiceEndpoints(mux chi.Router) {
	staff := a.guards.Require(guard.ProfessionalRole(false))
	managers := a.guards.Require(guard.BusinessTier())

	mux.With(staff).Get("/api/v0/services", a.listServices)
	mux.With(managers, a.guards.RequireCapability(plans.ManageServices)).Post("/api/v0/services", a.createService)
}

func (a *API) getMyEntity(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.getMyEntity")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	entity, err := a.service.GetEntity(ctx, principal.EntityID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, entity)
}

func (a *API) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.completeOnboarding")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	entity, err := a.service.CompleteOnboarding(ctx, principal.EntityID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, entity)
}

func (a *API) listMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.listMembers")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	members, err := a.service.ListMembers(ctx, principal.EntityID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, members)
}

func (a *API) inviteMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.inviteMember")
	defer span.End()

	var req InviteMemberRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	principal := authentication.PrincipalFromContext(ctx)

	link, code, err := a.service.InviteMember(ctx, principal.EntityID, req.Email, req.Role)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, InviteMemberResponse{Status: "invited", Link: link, Code: code})
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.removeMember")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	if err := a.service.RemoveMember(ctx, principal.EntityID, chi.URLParam(r, "identityId")); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) createEntity(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.createEntity")
	defer span.End()

	var req CreateEntityRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	entity, err := a.service.CreateEntity(ctx, req.Name, req.Tier, req.OwnerID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, entity)
}

func (a *API) changeTier(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.changeTier")
	defer span.End()

	var req ChangeTierRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	entity, err := a.service.ChangeTier(ctx, chi.URLParam(r, "id"), req.Tier)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, entity)
}

func (a *API) listServices(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.listServices")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	services, err := a.service.ListServices(ctx, principal.EntityID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, services)
}

func (a *API) createService(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "entities.API.createService")
	defer span.End()

	var req CreateServiceRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	principal := authentication.PrincipalFromContext(ctx)

	svc, err := a.service.CreateService(ctx, principal.EntityID, req.Name, req.Price)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, svc)
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
