// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/packages"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Manage service packages",
}

var listPackagesCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages of the current entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		var filter types.PackageFilter
		if v, _ := cmd.Flags().GetString("status"); v != "" {
			status := types.PackageStatus(v)
			filter.Status = &status
		}
		if v, _ := cmd.Flags().GetString("recurrence"); v != "" {
			recurrence := types.Recurrence(v)
			filter.Recurrence = &recurrence
		}

		pkgs, err := c.ListPackages(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list packages: %w", err)
		}

		return render(cmd.OutOrStdout(), pkgs, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tRECURRENCE\tSESSIONS\tPRICE\tDISCOUNT")
			for _, p := range pkgs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s %s\t%s%%\n",
					p.ID, p.Name, p.Status, p.Recurrence, p.SessionsIncluded,
					p.Pricing.PackagePrice.StringFixed(2), p.Pricing.Currency, p.Pricing.DiscountPercent.String())
			}
		})
	},
}

// parseServiceLines reads "serviceId[:quantity]" arguments.
func parseServiceLines(raw []string) ([]packages.ServiceLine, error) {
	lines := make([]packages.ServiceLine, 0, len(raw))
	for _, r := range raw {
		id, qty, found := strings.Cut(r, ":")
		line := packages.ServiceLine{ServiceID: id, Quantity: 1}
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q", r)
			}
			line.Quantity = n
		}
		lines = append(lines, line)
	}
	return lines, nil
}

var createPackageCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a package from existing services",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		rawServices, _ := cmd.Flags().GetStringSlice("service")
		rawPrice, _ := cmd.Flags().GetString("price")
		currency, _ := cmd.Flags().GetString("currency")
		recurrence, _ := cmd.Flags().GetString("recurrence")
		validity, _ := cmd.Flags().GetInt("validity-days")
		sessions, _ := cmd.Flags().GetInt("sessions")
		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")

		lines, err := parseServiceLines(rawServices)
		if err != nil {
			return err
		}

		price, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", rawPrice, err)
		}

		pkg, err := c.CreatePackage(cmd.Context(), packages.CreatePackageRequest{
			Name:             args[0],
			Description:      description,
			Services:         lines,
			Pricing:          packages.PricingRequest{PackagePrice: price, Currency: currency},
			Recurrence:       types.Recurrence(recurrence),
			ValidityDays:     validity,
			SessionsIncluded: sessions,
			Status:           types.PackageStatus(status),
		})
		if err != nil {
			return fmt.Errorf("failed to create package: %w", err)
		}

		return render(cmd.OutOrStdout(), pkg, func(w io.Writer) {
			fmt.Fprintf(w, "Package created: %s (ID: %s, discount %s%%)\n", pkg.Name, pkg.ID, pkg.Pricing.DiscountPercent.String())
		})
	},
}

var togglePackageCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Switch a package between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		pkg, err := c.TogglePackageStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle package: %w", err)
		}

		return render(cmd.OutOrStdout(), pkg, func(w io.Writer) {
			fmt.Fprintf(w, "Package %s is now %s\n", pkg.ID, pkg.Status)
		})
	},
}

var setPackageStatusCmd = &cobra.Command{
	Use:   "set-status [id] [draft|active|inactive]",
	Short: "Set the status of a package",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		pkg, err := c.SetPackageStatus(cmd.Context(), args[0], types.PackageStatus(args[1]))
		if err != nil {
			return fmt.Errorf("failed to set package status: %w", err)
		}

		return render(cmd.OutOrStdout(), pkg, func(w io.Writer) {
			fmt.Fprintf(w, "Package %s is now %s\n", pkg.ID, pkg.Status)
		})
	},
}

var deletePackageCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a package, existing subscriptions keep it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		if err := c.DeletePackage(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete package: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Package deleted: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
	packageCmd.AddCommand(listPackagesCmd)
	packageCmd.AddCommand(createPackageCmd)
	packageCmd.AddCommand(togglePackageCmd)
	packageCmd.AddCommand(setPackageStatusCmd)
	packageCmd.AddCommand(deletePackageCmd)

	listPackagesCmd.Flags().String("status", "", "Only packages in this status")
	listPackagesCmd.Flags().String("recurrence", "", "Only packages with this recurrence")

	createPackageCmd.Flags().StringSlice("service", nil, "Service as serviceId[:quantity], repeatable")
	createPackageCmd.Flags().String("price", "", "Package price")
	createPackageCmd.Flags().String("currency", "", "ISO 4217 currency code, defaults to USD")
	createPackageCmd.Flags().String("recurrence", string(types.RecurrenceOneTime), "one_time or monthly")
	createPackageCmd.Flags().Int("validity-days", 30, "Days a subscription stays valid")
	createPackageCmd.Flags().Int("sessions", 1, "Sessions included")
	createPackageCmd.Flags().String("description", "", "Package description")
	createPackageCmd.Flags().String("status", "", "Initial status, defaults to draft")
	_ = createPackageCmd.MarkFlagRequired("service")
	_ = createPackageCmd.MarkFlagRequired("price")
}
