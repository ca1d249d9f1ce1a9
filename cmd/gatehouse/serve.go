// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/logging"
)

// shutdownTimeout bounds graceful shutdown on exit.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the auth service",
		Long: `Start the HTTP auth service: registration, login, session-backed
identity, and logout. Configuration comes from defaults, the --config
file, and flags, in increasing precedence.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, nil)
		},
	}

	flags := cmd.Flags()
	flags.String("listen_addr", config.DefaultListenAddr, "HTTP listen address")
	flags.String("database_url", "", "PostgreSQL connection string (default: DATABASE_URL env)")
	flags.String("log_format", config.DefaultLogFormat, "log format (json or text)")
	flags.String("static_dir", config.DefaultStaticDir, "static files directory (empty = disabled)")
	flags.Duration("session_ttl", config.DefaultSessionTTL, "absolute session lifetime")
	flags.Bool("cookie.secure", false, "mark the session cookie Secure")
	flags.Bool("middleware.security_headers", false, "enable security response headers")
	flags.Bool("middleware.firewall", false, "enable the IP allow-list")
	flags.StringSlice("middleware.allowed_cidrs", nil, "CIDRs admitted by the allow-list")
	flags.String("middleware.server_label", "", "instance label stamped on responses")

	return cmd
}

// runServe wires the service together and blocks until shutdown.
// If deps is nil, default implementations are used.
func runServe(ctx context.Context, cfg *config.Config, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.defaults()

	logging.SetDefault("gatehouse", version, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url (or DATABASE_URL) is required")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting auth service",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
		"session_ttl", cfg.SessionTTL.String(),
	)

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc, err := auth.NewService(
		authpg.NewUserRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewArgon2idHasher(),
		cfg.SessionTTL,
	)
	if err != nil {
		return err
	}

	server, err := deps.ServerFactory(cfg, svc, slog.Default())
	if err != nil {
		return err
	}

	errCh, err := server.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr, ok := <-errCh:
		if ok && serveErr != nil {
			return oops.Code("SERVE_FAILED").Wrap(serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}
