// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/internal/authorization"
	"github.com/canonical/scheduling-service/internal/config"
	"github.com/canonical/scheduling-service/internal/db"
	"github.com/canonical/scheduling-service/internal/kratos"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/monitoring/prometheus"
	"github.com/canonical/scheduling-service/internal/openfga"
	"github.com/canonical/scheduling-service/internal/storage"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/pkg/authentication"
	"github.com/canonical/scheduling-service/pkg/entities"
	"github.com/canonical/scheduling-service/pkg/guard"
	"github.com/canonical/scheduling-service/pkg/onboarding"
	"github.com/canonical/scheduling-service/pkg/packages"
	"github.com/canonical/scheduling-service/pkg/subscriptions"
	"github.com/canonical/scheduling-service/pkg/web"
	"github.com/canonical/scheduling-service/pkg/webhooks"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// backend holds what both serve and reconcile build from the environment.
type backend struct {
	store    storage.StorageInterface
	dbClient db.DBClientInterface

	close func()
}

func newBackend(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*backend, error) {
	if specs.DSN == "" {
		logger.Warn("DSN is not set, using the in-memory store, data is lost on restart")
		return &backend{store: storage.NewMemoryStore(), close: func() {}}, nil
	}

	dbClient, err := db.NewDBClient(
		db.Config{
			DSN:             specs.DSN,
			MaxConns:        specs.DBMaxConns,
			MinConns:        specs.DBMinConns,
			MaxConnLifetime: specs.DBMaxConnLifetime,
			MaxConnIdleTime: specs.DBMaxConnIdleTime,
			TracingEnabled:  specs.TracingEnabled,
		},
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %v", err)
	}

	return &backend{
		store:    storage.NewStorage(dbClient, tracer, monitor, logger),
		dbClient: dbClient,
		close:    dbClient.Close,
	}, nil
}

func newAuthorizer(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*authorization.Authorizer, error) {
	if !specs.AuthorizationEnabled {
		logger.Info("Using noop authorizer")
		return authorization.NewAuthorizer(openfga.NewNoopClient(tracer, monitor, logger), tracer, monitor, logger), nil
	}

	ofga := openfga.NewClient(
		openfga.NewConfig(
			specs.OpenfgaApiScheme,
			specs.OpenfgaApiHost,
			specs.OpenfgaStoreId,
			specs.OpenfgaApiToken,
			specs.OpenfgaModelId,
			specs.Debug,
			tracer,
			monitor,
			logger,
		),
	)
	authorizer := authorization.NewAuthorizer(ofga, tracer, monitor, logger)

	logger.Info("Authorization is enabled")
	if err := authorizer.ValidateModel(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid authorization model provided: %w", err)
	}

	return authorizer, nil
}

func newVerifier(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (authentication.TokenVerifierInterface, error) {
	if !specs.AuthenticationEnabled {
		logger.Warn("Authentication is disabled, bearer tokens are taken as user IDs")
		return authentication.NewNoopVerifier(), nil
	}

	return authentication.NewJWTAuthenticator(
		context.Background(),
		authentication.JWTConfig{
			Issuer:          specs.OIDCIssuer,
			JWKSURL:         specs.OIDCJwksURL,
			AllowedSubjects: specs.OIDCAllowedSubjects,
			RequiredScope:   specs.OIDCRequiredScope,
		},
		tracer,
		monitor,
		logger,
	)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("scheduling-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	b, err := newBackend(specs, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer b.close()

	authorizer, err := newAuthorizer(specs, tracer, monitor, logger)
	if err != nil {
		return err
	}

	verifier, err := newVerifier(specs, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to set up authentication: %w", err)
	}

	// untyped nils keep the services aware that no directory is configured
	var (
		identities entities.KratosClientInterface
		clients    subscriptions.ClientDirectoryInterface
	)
	if specs.KratosAdminURL != "" {
		kratosClient := kratos.NewClient(specs.KratosAdminURL, tracer, monitor, logger)
		identities = kratosClient
		clients = kratosClient
	} else {
		logger.Warn("KRATOS_ADMIN_URL is not set, client checks and invitations are disabled")
	}

	resolver := authentication.NewPrincipalResolver(b.store, tracer, monitor, logger)
	entityCache := onboarding.NewEntityResolver(b.store, specs.EntityCacheSize, specs.EntityCacheTTL, tracer, monitor, logger)
	gate := onboarding.NewGate(entityCache, tracer, monitor, logger, onboarding.WithTimeout(specs.OnboardingEntityTimeout))

	guards := guard.NewMiddleware(tracer, monitor, logger)
	gated := guards.Then(gate.Middleware)

	entityService := entities.NewService(b.store, authorizer, identities, entityCache, specs.InvitationLifetime, tracer, monitor, logger)
	packageService := packages.NewService(b.store, tracer, monitor, logger)
	subscriptionService := subscriptions.NewService(b.store, clients, tracer, monitor, logger)
	webhookService := webhooks.NewService(b.store, entityService, resolver, tracer, monitor, logger)

	router := web.NewRouter(
		web.APIs{
			Packages:      packages.NewAPI(packageService, gated, tracer, monitor, logger),
			Subscriptions: subscriptions.NewAPI(subscriptionService, gated, specs.ExpiringSoonDays, tracer, monitor, logger),
			Entities:      entities.NewAPI(entityService, guards, tracer, monitor, logger),
			Catalogue:     entities.NewAPI(entityService, gated, tracer, monitor, logger),
			Webhooks:      webhooks.NewAPI(webhookService, logger),
		},
		authentication.NewMiddleware(verifier, resolver, specs.TrustIdentityHeader, tracer, monitor, logger),
		b.dbClient,
		specs.CORSAllowedOrigins,
		tracer,
		monitor,
		logger,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var reconciler *subscriptions.Reconciler
	if specs.ReconcileEnabled {
		reconciler = subscriptions.NewReconciler(b.store, specs.ReconcileInterval, tracer, monitor, logger)
		go reconciler.Start(ctx)
		logger.Infof("Subscription reconciliation runs every %v", specs.ReconcileInterval)
	}

	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if reconciler != nil {
		reconciler.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}

func main() {
	if err := serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
