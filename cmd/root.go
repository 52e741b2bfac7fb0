// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	userID       string
	entityID     string
	accessToken  string
	httpEndpoint string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "app",
	Short: "Scheduling Service",
	Long:  `Scheduling Service CLI for managing service packages and client subscriptions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpEndpoint, "http-endpoint", "http://localhost:8080", "HTTP server endpoint")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", os.Getenv("SCHEDULING_TOKEN"), "Bearer token, see the token command")
	rootCmd.PersistentFlags().StringVar(&userID, "user-id", "", "User ID for impersonation through the trusted identity header")
	rootCmd.PersistentFlags().StringVar(&entityID, "entity-id", "", "Entity to act for when the user belongs to several")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text or json)")
}
