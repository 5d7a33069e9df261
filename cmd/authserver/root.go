// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the account server CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authserver",
		Short: "Conquest account server",
		Long: `Account and session backend for the Conquest game client:
registration, email confirmation, login, character saves, and world chat.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
