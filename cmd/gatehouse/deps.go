// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/httpapi"
	"github.com/gatehouse/gatehouse/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// Fields left nil use their default implementations.
type ServeDeps struct {
	// PoolFactory opens the database connection pool.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, dsn string) (*pgxpool.Pool, error)

	// ServerFactory creates the API server.
	// Default: httpapi.NewServer
	ServerFactory func(cfg *config.Config, svc *auth.Service, logger *slog.Logger) (APIServer, error)
}

// defaults fills nil fields with the default implementations.
func (d *ServeDeps) defaults() {
	if d.PoolFactory == nil {
		d.PoolFactory = store.Connect
	}
	if d.ServerFactory == nil {
		d.ServerFactory = func(cfg *config.Config, svc *auth.Service, logger *slog.Logger) (APIServer, error) {
			return httpapi.NewServer(cfg, svc, logger)
		}
	}
}

// APIServer wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
