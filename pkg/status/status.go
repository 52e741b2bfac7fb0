// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/version"
)

const pingTimeout = 2 * time.Second

// PingerInterface is satisfied by db.DBClient.
type PingerInterface interface {
	Ping(context.Context) error
}

type Status struct {
	Status    string            `json:"status"`
	BuildInfo *BuildInfo        `json:"buildInfo,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type BuildInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	Name       string `json:"name"`
}

type API struct {
	db PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.alive")
	defer span.End()

	status := Status{Status: "ok"}
	code := http.StatusOK

	if a.db != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		status.Checks = map[string]string{"database": "ok"}

		if err := a.db.Ping(ctx); err != nil {
			a.logger.Errorf("database ping failed: %v", err)
			a.monitor.SetDependencyAvailability(map[string]string{"component": "database"}, 0)

			status.Status = "degraded"
			status.Checks["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			a.monitor.SetDependencyAvailability(map[string]string{"component": "database"}, 1)
		}
	}

	httptypes.WriteJSON(w, code, status)
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "status.API.version")
	defer span.End()

	httptypes.WriteJSON(w, http.StatusOK, Status{Status: "ok", BuildInfo: buildInfo()})
}

func buildInfo() *BuildInfo {
	info := &BuildInfo{Version: version.Version}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.Name = bi.Main.Path
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" {
			info.CommitHash = setting.Value
		}
	}

	return info
}

// NewAPI returns the status endpoints, db may be nil when no database is configured.
func NewAPI(db PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		db:      db,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
