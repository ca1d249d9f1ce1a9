// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid simple", username: "alice", wantErr: false},
		{name: "valid with numbers and underscores", username: "alice_2", wantErr: false},
		{name: "valid at max length", username: strings.Repeat("a", auth.MaxUsernameLength), wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: strings.Repeat("a", auth.MaxUsernameLength+1), wantErr: true},
		{name: "starts with number", username: "1alice", wantErr: true},
		{name: "starts with underscore", username: "_alice", wantErr: true},
		{name: "contains space", username: "al ice", wantErr: true},
		{name: "contains hyphen", username: "al-ice", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, auth.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Run("accepts normal password", func(t *testing.T) {
		assert.NoError(t, auth.ValidatePassword("hunter2"))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		err := auth.ValidatePassword("")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	})

	t.Run("rejects oversized password", func(t *testing.T) {
		err := auth.ValidatePassword(strings.Repeat("x", auth.MaxPasswordLength+1))
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	})
}

func TestNewUser(t *testing.T) {
	t.Run("creates user with id and timestamp", func(t *testing.T) {
		user, err := auth.NewUser("alice", "$argon2id$v=19$m=65536,t=1,p=4$salt$hash")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		_, err := auth.NewUser("", "hash")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		_, err := auth.NewUser("alice", "")
		assert.Error(t, err)
	})
}
