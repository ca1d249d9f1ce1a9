// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// credentialsRequest is the JSON body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// statusResponse is the JSON response for register and login.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// userResponse is the JSON response for the identity check.
type userResponse struct {
	Username string `json:"username"`
}

// healthResponse is the JSON response for the health endpoint.
type healthResponse struct {
	Status    string `json:"status"`
	Server    string `json:"server,omitempty"`
	Timestamp string `json:"timestamp"`
}

// handleRegister creates a new account.
// POST /api/register {username, password} -> {success, message}
//
// Domain failures (taken username, invalid input) come back as
// {success:false} with HTTP 200, matching the login page's expectations.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	_, err := s.svc.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		s.metrics.AuthTotal.WithLabelValues("register", "ok").Inc()
		s.respondJSON(w, http.StatusOK, statusResponse{Success: true, Message: "registration successful"})
	case errors.Is(err, auth.ErrUsernameTaken):
		s.metrics.AuthTotal.WithLabelValues("register", "duplicate").Inc()
		s.respondJSON(w, http.StatusOK, statusResponse{Success: false, Message: "username already taken"})
	case errors.Is(err, auth.ErrInvalidInput):
		s.metrics.AuthTotal.WithLabelValues("register", "invalid").Inc()
		s.respondJSON(w, http.StatusOK, statusResponse{Success: false, Message: "invalid username or password"})
	default:
		s.metrics.AuthTotal.WithLabelValues("register", "error").Inc()
		s.respondStorageError(w, r, "register", err)
	}
}

// handleLogin verifies credentials and issues a session.
// POST /api/login {username, password} -> {success, message?} + cookie
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	session, token, err := s.svc.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		s.metrics.AuthTotal.WithLabelValues("login", "ok").Inc()
		setSessionCookie(w, token, session.ExpiresAt, s.cookieSecure)
		s.respondJSON(w, http.StatusOK, statusResponse{Success: true})
	case errors.Is(err, auth.ErrUnknownUser):
		s.metrics.AuthTotal.WithLabelValues("login", "unknown_user").Inc()
		s.respondJSON(w, http.StatusOK, statusResponse{Success: false, Message: "wrong username"})
	case errors.Is(err, auth.ErrWrongPassword):
		s.metrics.AuthTotal.WithLabelValues("login", "wrong_password").Inc()
		s.respondJSON(w, http.StatusOK, statusResponse{Success: false, Message: "wrong password"})
	default:
		s.metrics.AuthTotal.WithLabelValues("login", "error").Inc()
		s.respondStorageError(w, r, "login", err)
	}
}

// handleUser reports the identity behind the session cookie.
// GET /api/user -> {username} or null
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.Identify(r.Context(), sessionToken(r))
	if err != nil {
		if !errors.Is(err, auth.ErrNotFound) {
			s.respondStorageError(w, r, "identify", err)
			return
		}
		// Anonymous: absent, unknown, or expired session.
		s.respondJSON(w, http.StatusOK, nil)
		return
	}

	s.respondJSON(w, http.StatusOK, userResponse{Username: session.Username})
}

// handleLogout destroys the session and sends the client back to the
// login page. Destroying an absent session is fine.
// GET /api/logout -> 302 /login.html
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context(), sessionToken(r)); err != nil {
		s.respondStorageError(w, r, "logout", err)
		return
	}
	clearSessionCookie(w, s.cookieSecure)
	http.Redirect(w, r, "/login.html", http.StatusFound)
}

// handleHealth reports liveness and the serving instance's label.
// GET /api/health -> {status, server, timestamp}
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Server:    s.label,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeCredentials parses the request body, responding 400 on malformed
// JSON. Returns ok=false when a response has already been written.
func (s *Server) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "invalid request body"})
		return credentialsRequest{}, false
	}
	return req, true
}

// respondStorageError logs the detailed error and returns a generic
// failure. Internal diagnostics never reach the client.
func (s *Server) respondStorageError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	s.logger.ErrorContext(r.Context(), "storage failure",
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	s.respondJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: "internal error"})
}

// respondJSON writes a JSON response with the given status. A nil value
// encodes as JSON null.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode failed", "error", err)
	}
}
