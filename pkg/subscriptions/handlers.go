// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package subscriptions

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/guard"
	"github.com/canonical/scheduling-service/pkg/plans"
)

const DefaultExpiringWindowDays = 7

type CreateSubscriptionRequest struct {
	PackageID string `json:"packageId" validate:"required"`
	ClientID  string `json:"clientId" validate:"required"`
	AutoRenew bool   `json:"autoRenew"`
}

type UseSessionRequest struct {
	BookingID string `json:"bookingId" validate:"required,max=200"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

type API struct {
	service      ServiceInterface
	guards       *guard.Middleware
	expiringDays int
	tracer       tracing.TracingInterface
	monitor      monitoring.MonitorInterface
	logger       logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	staff := a.guards.Require(guard.ProfessionalRole(false))
	managers := a.guards.Require(guard.BusinessTier())

	mux.With(staff).Get("/api/v0/subscriptions", a.listSubscriptions)
	mux.With(managers, a.guards.RequireCapability(plans.ViewAnalytics)).Get("/api/v0/subscriptions/stats", a.stats)
	mux.With(staff).Get("/api/v0/subscriptions/client/{clientId}/active", a.listActiveByClient)
	mux.With(staff).Get("/api/v0/subscriptions/entity/{entityId}/expiring", a.listExpiring)
	mux.With(staff).Get("/api/v0/subscriptions/{id}", a.getSubscription)
	mux.With(staff).Post("/api/v0/subscriptions", a.createSubscription)
	mux.With(staff).Post("/api/v0/subscriptions/{id}/use-session", a.useSession)
	mux.With(managers).Patch("/api/v0/subscriptions/{id}/cancel", a.cancel)
	mux.With(managers).Patch("/api/v0/subscriptions/{id}/pause", a.pause)
	mux.With(managers).Patch("/api/v0/subscriptions/{id}/resume", a.resume)
	mux.With(managers).Post("/api/v0/subscriptions/{id}/renew", a.renew)
}

// ownEntity rejects an explicit entity id naming another tenant.
func (a *API) ownEntity(w http.ResponseWriter, principal *types.Principal, requested string) bool {
	if requested == "" || requested == principal.EntityID {
		return true
	}

	a.logger.Security().AuthzTenantMismatch(principal.ID, "subscription", principal.EntityID, requested)
	httptypes.WriteError(w, a.logger, types.NewTenantMismatch("subscription", principal.EntityID, requested))

	return false
}

func (a *API) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.listSubscriptions")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)
	if !a.ownEntity(w, principal, r.URL.Query().Get("entityId")) {
		return
	}

	subs, err := a.service.List(ctx, principal.EntityID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, subs)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.stats")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	stats, err := a.service.Stats(ctx, principal.EntityID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, stats)
}

func (a *API) listActiveByClient(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.listActiveByClient")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	subs, err := a.service.ListActiveByClient(ctx, principal.EntityID, chi.URLParam(r, "clientId"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, subs)
}

func (a *API) listExpiring(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.listExpiring")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)
	if !a.ownEntity(w, principal, chi.URLParam(r, "entityId")) {
		return
	}

	days := a.expiringDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > MaxExpiringDays {
			httptypes.WriteError(w, a.logger, httptypes.NewBadRequest("days must be an integer between 0 and %d", MaxExpiringDays))
			return
		}
		days = parsed
	}

	subs, err := a.service.ListExpiringSoon(ctx, principal.EntityID, days)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, subs)
}

func (a *API) getSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.getSubscription")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	sub, err := a.service.Get(ctx, principal.EntityID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, sub)
}

func (a *API) createSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.createSubscription")
	defer span.End()

	var req CreateSubscriptionRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	principal := authentication.PrincipalFromContext(ctx)

	sub, err := a.service.Create(ctx, principal.EntityID, req.PackageID, req.ClientID, req.AutoRenew)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, sub)
}

func (a *API) useSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.useSession")
	defer span.End()

	var req UseSessionRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	principal := authentication.PrincipalFromContext(ctx)

	sub, err := a.service.UseSession(ctx, principal.EntityID, chi.URLParam(r, "id"), req.BookingID)
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, sub)
}

func (a *API) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.cancel")
	defer span.End()

	// the body is optional
	var req CancelRequest
	if r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0 {
		if err := httptypes.DecodeJSON(r, &req); err != nil {
			httptypes.WriteError(w, a.logger, err)
			return
		}
	}

	principal := authentication.PrincipalFromContext(ctx)

	if _, err := a.service.Cancel(ctx, principal.EntityID, chi.URLParam(r, "id"), req.Reason); err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) pause(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.pause")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	sub, err := a.service.Pause(ctx, principal.EntityID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, sub)
}

func (a *API) resume(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.resume")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	sub, err := a.service.Resume(ctx, principal.EntityID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, sub)
}

func (a *API) renew(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "subscriptions.API.renew")
	defer span.End()

	principal := authentication.PrincipalFromContext(ctx)

	sub, err := a.service.Renew(ctx, principal.EntityID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, a.logger, err)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, sub)
}

func NewAPI(
	service ServiceInterface,
	guards *guard.Middleware,
	expiringDays int,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	if expiringDays <= 0 {
		expiringDays = DefaultExpiringWindowDays
	}

	return &API{
		service:      service,
		guards:       guards,
		expiringDays: expiringDays,
		tracer:       tracer,
		monitor:      monitor,
		logger:       logger,
	}
}
