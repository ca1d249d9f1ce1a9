// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service provides the account operations: Register, Login, Identify,
// Logout. A request's identity moves Anonymous -> Authenticated on login
// and back on logout or expiry; there are no intermediate states.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	ttl      time.Duration
	logger   *slog.Logger
}

// NewService creates a Service. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, ttl time.Duration) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, ttl, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher PasswordHasher, ttl time.Duration, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// Register creates a new account. Input failures wrap ErrInvalidInput; a
// duplicate username surfaces as ErrUsernameTaken via the repository's
// atomic insert (there is no pre-check, so concurrent registrations of
// the same name race at the storage layer, not here).
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "build user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			With("username", username).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account registered", "username", username, "user_id", user.ID.String())
	return user, nil
}

// Login authenticates a user and issues a new session. Unknown users fail
// with ErrUnknownUser before any hash work; a mismatched password fails
// with ErrWrongPassword. Every successful login creates a fresh session,
// so a user may hold several concurrent sessions.
//
// Returning distinct errors (and skipping the hash for unknown users)
// leaks which of the two failed through response timing and content. The
// public API reports both cases distinctly anyway, matching the login
// page's messages; collapsing them is a boundary-level change if that
// trade-off is ever revisited.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", oops.Code("AUTH_UNKNOWN_USER").
				Wrapf(ErrUnknownUser, "no account for username")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}
	if !valid {
		s.logger.InfoContext(ctx, "login rejected", "username", username)
		return nil, "", oops.Code("AUTH_WRONG_PASSWORD").
			Wrapf(ErrWrongPassword, "password mismatch")
	}

	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(user, tokenHash, time.Now().Add(s.ttl))
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "username", username, "session_id", session.ID.String())
	return session, token, nil
}

// Identify resolves a session token to the session it names. Absent,
// unknown, and expired tokens all wrap ErrNotFound; Identify never
// mutates anything.
func (s *Service) Identify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, oops.Code("SESSION_TOKEN_EMPTY").
			Wrapf(ErrNotFound, "session token cannot be empty")
	}

	tokenHash := HashSessionToken(token)

	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("SESSION_LOOKUP_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	// Expired rows are absent regardless of whether the sweep has run.
	if session.IsExpired() {
		return nil, oops.Code("SESSION_EXPIRED").
			Wrapf(ErrNotFound, "session has expired")
	}

	return session, nil
}

// Logout destroys the session for a token. It is idempotent: a missing
// or already-destroyed session is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := HashSessionToken(token)

	if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// SweepExpired purges expired sessions and returns the number removed.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").Wrap(err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "expired sessions purged", "count", count)
	}
	return count, nil
}
