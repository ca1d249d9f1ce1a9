// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

// Domain errors. Callers dispatch on these with errors.Is; everything else
// coming out of the package is a storage failure.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when registering a username that
	// already exists. Repositories translate the storage layer's
	// uniqueness violation into this error.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidInput is returned when a username or password fails
	// validation before any storage access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownUser is returned by Login when no account exists for the
	// username.
	ErrUnknownUser = errors.New("unknown user")

	// ErrWrongPassword is returned by Login when the password does not
	// match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
)
