// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down [version]|status|check]",
	Short: "Run database migrations",
	Long:  `Apply, roll back or inspect the embedded schema migrations, up is the default`,
	Args:  migrateArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) > 0 {
			command = args[0]
		}

		target := int64(-1)
		if len(args) == 2 {
			target, _ = strconv.ParseInt(args[1], 10, 64)
		}

		dsn, _ := cmd.Flags().GetString("dsn")
		if dsn == "" {
			return fmt.Errorf("a DSN is required, use --dsn or the DSN environment variable")
		}

		return migrate(cmd.Context(), cmd.OutOrStdout(), dsn, command, target)
	},
}

func migrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "up", "status", "check":
		if len(args) > 1 {
			return fmt.Errorf("%s takes no version", args[0])
		}
	case "down":
		if len(args) == 2 {
			if v, err := strconv.ParseInt(args[1], 10, 64); err != nil || v < 0 {
				return fmt.Errorf("invalid version number: %q", args[1])
			}
		}
	default:
		return fmt.Errorf("unknown migration command %q", args[0])
	}

	return nil
}

func init() {
	migrateCmd.Flags().String("dsn", os.Getenv("DSN"), "PostgreSQL DSN connection string")

	rootCmd.AddCommand(migrateCmd)
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}

	db := stdlib.OpenDB(*config)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return db, nil
}

func migrate(ctx context.Context, out io.Writer, dsn, command string, target int64) error {
	db, err := openDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []goose.ProviderOption
	if outputFormat == "json" {
		opts = append(opts, goose.WithLogger(goose.NopLogger()))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	switch command {
	case "status":
		return migrationStatus(ctx, out, provider)
	case "check":
		return migrationCheck(ctx, out, provider)
	}

	var results []*goose.MigrationResult

	switch {
	case command == "up":
		results, err = provider.Up(ctx)
	case target >= 0:
		results, err = provider.DownTo(ctx, target)
	default:
		var result *goose.MigrationResult
		if result, err = provider.Down(ctx); result != nil {
			results = append(results, result)
		}
	}
	if err != nil {
		return err
	}
	if results == nil {
		results = []*goose.MigrationResult{}
	}

	return render(out, map[string]interface{}{"applied": results}, func(w io.Writer) {
		fmt.Fprintln(w, "VERSION\tDIRECTION\tDURATION\tSOURCE")
		for _, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Source.Version, r.Direction, r.Duration, r.Source.Path)
		}
	})
}

func migrationStatus(ctx context.Context, out io.Writer, provider *goose.Provider) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return err
	}

	return render(out, statuses, func(w io.Writer) {
		fmt.Fprintln(w, "APPLIED AT\tMIGRATION")
		for _, s := range statuses {
			appliedAt := "Pending"
			if s.State == goose.StateApplied {
				appliedAt = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%s\n", appliedAt, s.Source.Path)
		}
	})
}

// migrationCheck fails when migrations are pending, for use in readiness scripts.
func migrationCheck(ctx context.Context, out io.Writer, provider *goose.Provider) error {
	pending, err := provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read database version: %w", err)
	}

	status := "ok"
	if pending {
		status = "pending"
	}

	if err := render(out, map[string]interface{}{"status": status, "version": current}, func(w io.Writer) {
		fmt.Fprintf(w, "database version %d\t%s\n", current, status)
	}); err != nil {
		return err
	}

	if pending {
		return fmt.Errorf("migrations are pending: current version %d", current)
	}
	return nil
}
