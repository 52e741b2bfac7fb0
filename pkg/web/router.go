// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/scheduling-service/internal/db"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/entities"
	"github.com/canonical/scheduling-service/pkg/metrics"
	"github.com/canonical/scheduling-service/pkg/packages"
	"github.com/canonical/scheduling-service/pkg/status"
	"github.com/canonical/scheduling-service/pkg/subscriptions"
	"github.com/canonical/scheduling-service/pkg/webhooks"
)

// APIs groups the REST surfaces mounted by the router. Packages,
// Subscriptions and Catalogue are tenant routes and are expected to be built
// with guards chained to the onboarding gate, see guard.Middleware.Then.
type APIs struct {
	Packages      *packages.API
	Subscriptions *subscriptions.API
	Entities      *entities.API
	Catalogue     *entities.API
	Webhooks      *webhooks.API
}

// NewRouter composes the service routes. Webhooks and ambient endpoints are
// public, everything else carries a principal. dbClient is nil when running
// on the in-memory store.
func NewRouter(
	apis APIs,
	authn *authentication.Middleware,
	dbClient db.DBClientInterface,
	allowedOrigins []string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(allowedOrigins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)

	var pinger status.PingerInterface
	if dbClient != nil {
		pinger = dbClient
	}
	status.NewAPI(pinger, tracer, monitor, logger).RegisterEndpoints(router)

	router.Group(func(r chi.Router) {
		if dbClient != nil {
			r.Use(db.TransactionMiddleware(dbClient, logger))
		}

		apis.Webhooks.RegisterEndpoints(r)

		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate())

			apis.Entities.RegisterEndpoints(r)
			apis.Packages.RegisterEndpoints(r)
			apis.Subscriptions.RegisterEndpoints(r)
			apis.Catalogue.RegisterServiceEndpoints(r)
		})
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
