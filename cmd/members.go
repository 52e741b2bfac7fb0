// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/canonical/scheduling-service/internal/types"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage the staff of the current entity",
}

var listMembersCmd = &cobra.Command{
	Use:   "list",
	Short: "List members of the current entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		members, err := c.ListMembers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		return render(cmd.OutOrStdout(), members, func(w io.Writer) {
			fmt.Fprintln(w, "USER_ID\tEMAIL\tROLE")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.IdentityID, m.Email, m.Role)
			}
		})
	},
}

var inviteMemberCmd = &cobra.Command{
	Use:   "invite [email] [role]",
	Short: "Invite a staff member to the current entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		resp, err := c.InviteMember(cmd.Context(), args[0], types.Role(args[1]))
		if err != nil {
			return fmt.Errorf("failed to invite member: %w", err)
		}

		return render(cmd.OutOrStdout(), resp, func(w io.Writer) {
			fmt.Fprintf(w, "Invitation link:\t%s\n", resp.Link)
			fmt.Fprintf(w, "Code:\t%s\n", resp.Code)
		})
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove [user-id]",
	Short: "Remove a staff member from the current entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}

		if err := c.RemoveMember(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(memberCmd)
	memberCmd.AddCommand(listMembersCmd)
	memberCmd.AddCommand(inviteMemberCmd)
	memberCmd.AddCommand(removeMemberCmd)
}
