// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package httpapi is the HTTP boundary of the auth service: it maps
// requests onto auth.Service calls and serializes the results. All state
// lives behind the service; the boundary holds only the session cookie.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/config"
)

// Server serves the auth API, static pages, and metrics.
type Server struct {
	addr         string
	svc          *auth.Service
	logger       *slog.Logger
	registry     *prometheus.Registry
	metrics      *Metrics
	label        string
	cookieSecure bool
	handler      http.Handler

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the API server. The middleware chain is assembled
// from cfg.Middleware and composed in front of every route.
func NewServer(cfg *config.Config, svc *auth.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("config is required")
	}
	if svc == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("auth service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	registry := newRegistry()

	s := &Server{
		addr:         cfg.ListenAddr,
		svc:          svc,
		logger:       logger,
		registry:     registry,
		metrics:      NewMetrics(registry),
		label:        cfg.Middleware.ServerLabel,
		cookieSecure: cfg.Cookie.Secure,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/user", s.handleUser)
	mux.HandleFunc("GET /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	mws, err := BuildChain(cfg.Middleware)
	if err != nil {
		return nil, err
	}
	s.handler = Chain(s.countRequests(mux), mws...)

	return s, nil
}

// Handler returns the fully composed handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving. It returns an error channel that receives any
// error from the HTTP server after startup; the channel is closed when
// the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown api server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" when not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// countRequests records per-route request counts with response status.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
