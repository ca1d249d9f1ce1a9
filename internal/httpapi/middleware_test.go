// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi_test

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/httpapi"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	record := func(name string) httpapi.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpapi.Chain(okHandler(), record("first"), record("second"), record("third"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSecurityHeaders(t *testing.T) {
	h := httpapi.Chain(okHandler(), httpapi.SecurityHeaders())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
}

func TestIPAllowList(t *testing.T) {
	_, localNet, err := net.ParseCIDR("127.0.0.0/8")
	require.NoError(t, err)
	h := httpapi.Chain(okHandler(), httpapi.IPAllowList([]*net.IPNet{localNet}))

	tests := []struct {
		name       string
		remoteAddr string
		wantStatus int
	}{
		{"allowed address", "127.0.0.1:54321", http.StatusOK},
		{"blocked address", "10.0.0.9:54321", http.StatusForbidden},
		{"unparseable address", "not-an-ip", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestServerLabel(t *testing.T) {
	h := httpapi.Chain(okHandler(), httpapi.ServerLabel("node-2"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "node-2", rec.Header().Get("X-Served-By"))
}

func TestBuildChain(t *testing.T) {
	t.Run("everything disabled yields empty chain", func(t *testing.T) {
		mws, err := httpapi.BuildChain(config.Middleware{})
		require.NoError(t, err)
		assert.Empty(t, mws)
	})

	t.Run("all toggles enabled", func(t *testing.T) {
		mws, err := httpapi.BuildChain(config.Middleware{
			SecurityHeaders: true,
			Firewall:        true,
			AllowedCIDRs:    []string{"127.0.0.0/8"},
			ServerLabel:     "node-1",
		})
		require.NoError(t, err)
		assert.Len(t, mws, 3)
	})

	t.Run("invalid CIDR fails", func(t *testing.T) {
		_, err := httpapi.BuildChain(config.Middleware{
			Firewall:     true,
			AllowedCIDRs: []string{"not-a-cidr"},
		})
		assert.Error(t, err)
	})
}

func TestFirewalledServer(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Middleware.Firewall = true
		cfg.Middleware.AllowedCIDRs = []string{"192.168.0.0/16"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "203.0.113.5:40000"
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
