// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// MaxPasswordLength bounds password input so the hasher cannot be fed
// arbitrarily large payloads.
const MaxPasswordLength = 512

// usernameRegex matches usernames that start with a letter and contain
// only letters, numbers, and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// User represents a registered account. Accounts are immutable after
// creation: there is no update or delete path.
type User struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a validated User with the given username and password
// hash. The password must already be hashed by a PasswordHasher.
func NewUser(username, passwordHash string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_EMPTY_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ValidateUsername validates a username against account rules:
// MinUsernameLength to MaxUsernameLength characters, starting with a
// letter, containing only letters, numbers, and underscores.
// All failures wrap ErrInvalidInput.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("USER_INVALID_USERNAME").Wrapf(ErrInvalidInput, "username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("USER_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Wrapf(ErrInvalidInput, "username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("USER_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Wrapf(ErrInvalidInput, "username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("USER_INVALID_USERNAME").
			Wrapf(ErrInvalidInput, "username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword validates a plaintext password before hashing.
// All failures wrap ErrInvalidInput.
func ValidatePassword(password string) error {
	if password == "" {
		return oops.Code("USER_INVALID_PASSWORD").Wrapf(ErrInvalidInput, "password cannot be empty")
	}
	if len(password) > MaxPasswordLength {
		return oops.Code("USER_INVALID_PASSWORD").
			With("max", MaxPasswordLength).
			Wrapf(ErrInvalidInput, "password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// UserRepository manages account persistence.
type UserRepository interface {
	// Create stores a new user. A uniqueness violation on the username
	// is reported as ErrUsernameTaken; the repository must rely on an
	// atomic insert-or-fail, never a check-then-insert.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)
}
