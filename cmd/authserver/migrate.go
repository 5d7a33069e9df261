// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/conquestteam/mmorpg-auth-server/internal/store"
)

// migratorFactory creates a Migrator; replaced in tests.
var migratorFactory = store.NewMigrator

// NewMigrateCmd creates the migrate subcommand and its children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long:  `Apply, roll back, or inspect schema migrations against the PostgreSQL database.`,
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateStatusCmd())
	cmd.AddCommand(newMigrateForceCmd())

	return cmd
}

func newMigrator() (*store.Migrator, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	return migratorFactory(databaseURL)
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }() //nolint:errcheck

			cmd.Println("Running migrations...")
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (drops all data)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return oops.Code("CONFIRMATION_REQUIRED").
					Errorf("migrate down drops all tables; re-run with --yes to confirm")
			}

			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }() //nolint:errcheck

			cmd.Println("Rolling back all migrations...")
			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("Rollback completed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive rollback")
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }() //nolint:errcheck

			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			cmd.Printf("Current version: %d (dirty: %v)\n", version, dirty)

			applied, err := m.AppliedMigrations()
			if err != nil {
				return err
			}
			pending, err := m.PendingMigrations()
			if err != nil {
				return err
			}

			printMigrationList(cmd, "Applied:", applied)
			printMigrationList(cmd, "Pending:", pending)
			return nil
		},
	}
}

func printMigrationList(cmd *cobra.Command, heading string, versions []uint) {
	cmd.Println(heading)
	if len(versions) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, v := range versions {
		name, err := store.MigrationName(v)
		if err != nil || name == "" {
			name = fmt.Sprintf("%06d", v)
		}
		cmd.Printf("  %s\n", name)
	}
}

func newMigrateForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long: `Set the migration version without running migrations.
Use only to recover from a dirty state after manually fixing the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil || version < 0 {
				return oops.Code("INVALID_VERSION").
					Errorf("version must be a non-negative integer, got %q", args[0])
			}

			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }() //nolint:errcheck

			if err := m.Force(version); err != nil {
				return err
			}
			cmd.Printf("Forced migration version to %d\n", version)
			return nil
		},
	}
}
