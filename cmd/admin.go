// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/internal/config"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/pkg/entities"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Platform administration against the service backends",
	Long:  `Commands that talk to the database and openfga directly, they read the same environment as serve`,
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant [user-id]",
	Short: "Make an identity platform admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs := new(config.EnvSpec)
		if err := envconfig.Process("", specs); err != nil {
			return fmt.Errorf("issues with environment sourcing: %w", err)
		}
		if specs.DSN == "" {
			return fmt.Errorf("a DSN is required, grants on the in-memory store are lost on exit")
		}

		logger := logging.NewLogger(specs.LogLevel)
		defer logger.Sync()

		tracer := tracing.NewNoopTracer()
		monitor := monitoring.NewNoopMonitor("scheduling-service", logger)

		b, err := newBackend(specs, tracer, monitor, logger)
		if err != nil {
			return err
		}
		defer b.close()

		authorizer, err := newAuthorizer(specs, tracer, monitor, logger)
		if err != nil {
			return err
		}

		// cache and directory are not touched by grants
		svc := entities.NewService(b.store, authorizer, nil, nil, specs.InvitationLifetime, tracer, monitor, logger)
		if err := svc.GrantPlatformAdmin(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to grant platform admin: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now platform admin\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(grantAdminCmd)
}
