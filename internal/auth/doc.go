// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth implements the credential and session domain for Gatehouse.
//
// User and Session values should be created through their constructors
// (NewUser, NewSession); direct struct initialization bypasses validation.
// Repository implementations receive pre-validated values from these
// constructors.
//
// Service coordinates the four account operations: Register, Login,
// Identify, and Logout. It owns the error taxonomy callers dispatch on:
// ErrUsernameTaken, ErrInvalidInput, ErrUnknownUser, and ErrWrongPassword.
// Any other error from a Service method is a storage failure and should be
// reported to clients generically.
package auth
