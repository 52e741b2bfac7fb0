// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/subscriptions"
)

var subscriptionCmd = &cobra.Command{
	Use:     "subscription",
	Aliases: []string{"sub"},
	Short:   "Manage client subscriptions",
}

func subscriptionTable(subs []*types.Subscription) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tCLIENT\tPACKAGE\tSTATUS\tSESSIONS\tEXPIRES")
		for _, s := range subs {
			status := s.Status
			if s.EffectiveStatus != "" {
				status = s.EffectiveStatus
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
				s.ID, s.ClientID, s.PackageID, status, s.SessionsUsed, s.SessionsTotal, s.ExpiryDate.Format(time.DateOnly))
		}
	}
}

func oneSubscription(sub *types.Subscription) func(io.Writer) {
	return subscriptionTable([]*types.Subscription{sub})
}

var listSubscriptionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions of the current entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		var subs []*types.Subscription
		if clientID, _ := cmd.Flags().GetString("client"); clientID != "" {
			subs, err = c.ActiveSubscriptionsForClient(cmd.Context(), clientID)
		} else {
			subs, err = c.ListSubscriptions(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		return render(cmd.OutOrStdout(), subs, subscriptionTable(subs))
	},
}

var createSubscriptionCmd = &cobra.Command{
	Use:   "create [package-id] [client-id]",
	Short: "Subscribe a client to a package",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		autoRenew, _ := cmd.Flags().GetBool("auto-renew")

		sub, err := c.CreateSubscription(cmd.Context(), subscriptions.CreateSubscriptionRequest{
			PackageID: args[0],
			ClientID:  args[1],
			AutoRenew: autoRenew,
		})
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		return render(cmd.OutOrStdout(), sub, oneSubscription(sub))
	},
}

var useSessionCmd = &cobra.Command{
	Use:   "use [id] [booking-id]",
	Short: "Consume one session for a booking",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		sub, err := c.UseSession(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to use session: %w", err)
		}

		return render(cmd.OutOrStdout(), sub, func(w io.Writer) {
			fmt.Fprintf(w, "Subscription %s has %d sessions left\n", sub.ID, sub.SessionsRemaining())
		})
	},
}

var cancelSubscriptionCmd = &cobra.Command{
	Use:   "cancel [id]",
	Short: "Cancel a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		reason, _ := cmd.Flags().GetString("reason")

		if err := c.CancelSubscription(cmd.Context(), args[0], reason); err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Subscription cancelled: %s\n", args[0])
		return nil
	},
}

var pauseSubscriptionCmd = &cobra.Command{
	Use:   "pause [id]",
	Short: "Pause an active subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		sub, err := c.PauseSubscription(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to pause subscription: %w", err)
		}

		return render(cmd.OutOrStdout(), sub, oneSubscription(sub))
	},
}

var resumeSubscriptionCmd = &cobra.Command{
	Use:   "resume [id]",
	Short: "Resume a paused subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		sub, err := c.ResumeSubscription(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to resume subscription: %w", err)
		}

		return render(cmd.OutOrStdout(), sub, oneSubscription(sub))
	},
}

var renewSubscriptionCmd = &cobra.Command{
	Use:   "renew [id]",
	Short: "Start a new period of a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		sub, err := c.RenewSubscription(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to renew subscription: %w", err)
		}

		return render(cmd.OutOrStdout(), sub, oneSubscription(sub))
	},
}

var expiringSubscriptionsCmd = &cobra.Command{
	Use:   "expiring [entity-id]",
	Short: "List subscriptions expiring soon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")

		subs, err := c.ExpiringSubscriptions(cmd.Context(), args[0], days)
		if err != nil {
			return fmt.Errorf("failed to list expiring subscriptions: %w", err)
		}

		return render(cmd.OutOrStdout(), subs, subscriptionTable(subs))
	},
}

var subscriptionStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics of the current entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		stats, err := c.SubscriptionStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		return render(cmd.OutOrStdout(), stats, func(w io.Writer) {
			fmt.Fprintf(w, "Active subscriptions:\t%d\n", stats.TotalActive)
			fmt.Fprintf(w, "Sessions used:\t%d/%d\n", stats.UsedSessions, stats.TotalSessions)
			fmt.Fprintf(w, "Usage:\t%.1f%%\n", stats.UsagePercentage)
		})
	},
}

func init() {
	rootCmd.AddCommand(subscriptionCmd)
	subscriptionCmd.AddCommand(listSubscriptionsCmd)
	subscriptionCmd.AddCommand(createSubscriptionCmd)
	subscriptionCmd.AddCommand(useSessionCmd)
	subscriptionCmd.AddCommand(cancelSubscriptionCmd)
	subscriptionCmd.AddCommand(pauseSubscriptionCmd)
	subscriptionCmd.AddCommand(resumeSubscriptionCmd)
	subscriptionCmd.AddCommand(renewSubscriptionCmd)
	subscriptionCmd.AddCommand(expiringSubscriptionsCmd)
	subscriptionCmd.AddCommand(subscriptionStatsCmd)

	listSubscriptionsCmd.Flags().String("client", "", "Only the active subscriptions of this client")
	createSubscriptionCmd.Flags().Bool("auto-renew", false, "Renew monthly packages automatically on expiry")
	cancelSubscriptionCmd.Flags().String("reason", "", "Cancellation reason")
	expiringSubscriptionsCmd.Flags().Int("days", 0, "Window in days, defaults to the server setting")
}
