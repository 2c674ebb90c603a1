// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hireheaven/hireheaven/internal/store"
)

// migrator is the slice of *store.Migrator the migrate commands use.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	Close() error
}

// migratorFactory opens a migrator for a database URL. Tests replace it.
type migratorFactory func(databaseURL string) (migrator, error)

func defaultMigrator(databaseURL string) (migrator, error) {
	//nolint:wrapcheck // store errors carry their own codes
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	return newMigrateCmd(defaultMigrator)
}

func newMigrateCmd(open migratorFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the account database schema",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL schema migrations.`,
	}
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")

	var all bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration (--all drops the whole schema)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, open, func(m migrator) error {
				if all {
					cmd.Println("Rolling back all migrations...")
					if err := m.Down(); err != nil {
						return err
					}
				} else {
					cmd.Println("Rolling back one migration...")
					if err := m.Steps(-1); err != nil {
						return err
					}
				}
				return printVersion(cmd, m)
			})
		},
	}
	down.Flags().BoolVar(&all, "all", false, "roll back every migration, dropping all account data")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, open, func(m migrator) error { return migrateUp(cmd, m) })
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, open, func(m migrator) error { return printVersion(cmd, m) })
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Mark VERSION as applied without running it (dirty schema recovery)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_VERSION").With("version", args[0]).Wrap(err)
				}
				return withMigrator(cmd, open, func(m migrator) error {
					if err := m.Force(v); err != nil {
						return err
					}
					return printVersion(cmd, m)
				})
			},
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, open migratorFactory, fn func(migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").With("key", "database.url").Errorf("database.url is required")
	}

	m, err := open(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "open migrator").Wrap(err)
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			cmd.PrintErrf("warning: closing migrator: %v\n", closeErr)
		}
	}()
	return fn(m)
}

func migrateUp(cmd *cobra.Command, m migrator) error {
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("No pending migrations")
		return nil
	}
	for _, v := range pending {
		name, nameErr := store.MigrationName(v)
		if nameErr != nil || name == "" {
			name = strconv.FormatUint(uint64(v), 10)
		}
		cmd.Printf("  pending: %s\n", name)
	}

	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return err
	}
	cmd.Printf("Applied %d migration(s)\n", len(pending))
	return printVersion(cmd, m)
}

func printVersion(cmd *cobra.Command, m migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("Schema version: %d (dirty)\n", v)
		return nil
	}
	cmd.Printf("Schema version: %d\n", v)
	return nil
}
