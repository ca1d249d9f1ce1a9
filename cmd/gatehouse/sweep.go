// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/store"
)

// NewSweepCmd creates the sweep subcommand. Expired sessions are already
// invisible to identity checks; the sweep just reclaims the rows.
func NewSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Purge expired sessions",
		Long:  `Delete session records past their expiry. Intended to run periodically, e.g. from cron.`,
		RunE:  runSweep,
	}
}

func runSweep(cmd *cobra.Command, _ []string) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()

	pool, err := store.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	count, err := authpg.NewSessionRepository(pool).DeleteExpired(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Purged %d expired sessions\n", count)
	return nil
}
