// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/internal/config"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/pkg/subscriptions"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Expires and renews due subscriptions once",
	Long:  `Runs a single subscription reconciliation against the configured database, useful from a cron job when the server loop is disabled`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs := new(config.EnvSpec)
		if err := envconfig.Process("", specs); err != nil {
			return fmt.Errorf("issues with environment sourcing: %w", err)
		}
		if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
			specs.DSN = dsn
		}
		if specs.DSN == "" {
			return fmt.Errorf("a DSN is required, the in-memory store has nothing to reconcile")
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

		report, err := subscriptions.NewReconciler(b.store, specs.ReconcileInterval, tracer, monitor, logger).Reconcile(cmd.Context())
		if err != nil {
			return fmt.Errorf("reconciliation failed after %d expirations: %w", report.Expired, err)
		}

		return render(cmd.OutOrStdout(), report, func(w io.Writer) {
			fmt.Fprintf(w, "Expired:\t%d\n", report.Expired)
			fmt.Fprintf(w, "Renewed:\t%d\n", report.Renewed)
		})
	},
}

func init() {
	reconcileCmd.Flags().String("dsn", "", "PostgreSQL DSN connection string, defaults to $DSN")
	rootCmd.AddCommand(reconcileCmd)
}
