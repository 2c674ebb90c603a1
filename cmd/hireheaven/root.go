// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hireheaven/hireheaven/internal/config"
	"github.com/hireheaven/hireheaven/internal/xdg"
)

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

// NewRootCmd creates the root command for the hireheaven CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hireheaven",
		Short: "Hireheaven accounts service",
		Long: `Hireheaven accounts service: registration, login, password recovery
and job-seeker profiles over an HTTP API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file path (default $XDG_CONFIG_HOME/hireheaven/config.yaml)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded when present")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd prints the build version.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("hireheaven %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads configuration for cmd from the file, dotenv, environment
// and cmd's flags. Without --config the XDG config file is used if present.
// Callers validate what they need.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file := configFile
	if file == "" {
		found, err := xdg.FindConfigFile()
		if err != nil {
			return nil, oops.With("operation", "locate config file").Wrap(err)
		}
		file = found
	}
	//nolint:wrapcheck // config errors carry their own codes
	return config.Load(config.LoadOptions{
		File:   file,
		DotEnv: envFile,
		Flags:  cmd.Flags(),
	})
}
