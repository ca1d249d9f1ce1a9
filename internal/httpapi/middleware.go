// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/config"
)

// Middleware wraps an http.Handler. The configured middlewares run in
// order before the routes; none of them touch the auth service.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares around a handler. The first middleware in
// the list is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// BuildChain assembles the middleware list from the configured toggles:
// security headers, IP allow-list, server label. Each is independent and
// only present when enabled.
func BuildChain(cfg config.Middleware) ([]Middleware, error) {
	var mws []Middleware

	if cfg.SecurityHeaders {
		mws = append(mws, SecurityHeaders())
	}

	if cfg.Firewall {
		nets, err := parseCIDRs(cfg.AllowedCIDRs)
		if err != nil {
			return nil, err
		}
		mws = append(mws, IPAllowList(nets))
	}

	if cfg.ServerLabel != "" {
		mws = append(mws, ServerLabel(cfg.ServerLabel))
	}

	return mws, nil
}

// SecurityHeaders sets the standard security response headers.
func SecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'self'")
			next.ServeHTTP(w, r)
		})
	}
}

// IPAllowList rejects requests whose remote address is outside the given
// networks with 403. It inspects RemoteAddr only; the service is not
// expected to sit behind a trusted proxy.
func IPAllowList(allowed []*net.IPNet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip := net.ParseIP(host)
			if ip == nil || !containsIP(allowed, ip) {
				slog.WarnContext(r.Context(), "request blocked by allow-list", "remote_addr", r.RemoteAddr)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ServerLabel stamps every response with the instance label. The label
// only identifies which instance served the request; it does not route
// traffic anywhere.
func ServerLabel(label string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Served-By", label)
			next.ServeHTTP(w, r)
		})
	}
}

func parseCIDRs(cidrs []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, oops.Code("MIDDLEWARE_INVALID_CIDR").
				With("cidr", cidr).
				Wrap(err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

func containsIP(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
