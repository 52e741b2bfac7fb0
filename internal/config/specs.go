// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	CORSAllowedOrigins []string `envconfig:"cors_allowed_origins" default:"*"`

	// DSN left empty selects the in-memory store, only meant for development
	DSN string `envconfig:"DSN"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	AuthenticationEnabled bool     `envconfig:"authentication_enabled" default:"false"`
	OIDCIssuer            string   `envconfig:"oidc_issuer"`
	OIDCJwksURL           string   `envconfig:"oidc_jwks_url"`
	OIDCAllowedSubjects   []string `envconfig:"oidc_allowed_subjects"`
	OIDCRequiredScope     string   `envconfig:"oidc_required_scope"`
	// TrustIdentityHeader accepts X-Kratos-Authenticated-Identity-Id from a gateway in front of the service
	TrustIdentityHeader bool `envconfig:"trust_identity_header" default:"false"`

	// KratosAdminURL left empty disables client identity checks and staff invitations
	KratosAdminURL     string `envconfig:"kratos_admin_url"`
	InvitationLifetime string `envconfig:"invitation_lifetime" default:"24h"`

	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiScheme     string `envconfig:"openfga_api_scheme" default:""`
	OpenfgaApiHost       string `envconfig:"openfga_api_host"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`

	OnboardingEntityTimeout time.Duration `envconfig:"onboarding_entity_timeout" default:"2s"`
	EntityCacheSize         int           `envconfig:"entity_cache_size" default:"1024"`
	EntityCacheTTL          time.Duration `envconfig:"entity_cache_ttl" default:"30s"`

	ReconcileEnabled  bool          `envconfig:"reconcile_enabled" default:"true"`
	ReconcileInterval time.Duration `envconfig:"reconcile_interval" default:"5m"`
	ExpiringSoonDays  int           `envconfig:"expiring_soon_days" default:"7"`
}
