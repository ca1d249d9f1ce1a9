// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func testUser(t *testing.T) *auth.User {
	t.Helper()
	user, err := auth.NewUser("alice", "$argon2id$v=19$m=65536,t=1,p=4$salt$hash")
	require.NoError(t, err)
	return user
}

func TestNewSession(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour)

	t.Run("creates session bound to user", func(t *testing.T) {
		user := testUser(t)
		session, err := auth.NewSession(user, "tokenhash", expiresAt)
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, user.Username, session.Username)
		assert.Equal(t, "tokenhash", session.TokenHash)
		assert.NotZero(t, session.ID)
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := auth.NewSession(nil, "tokenhash", expiresAt)
		assert.Error(t, err)
	})

	t.Run("rejects empty token hash", func(t *testing.T) {
		_, err := auth.NewSession(testUser(t), "", expiresAt)
		assert.Error(t, err)
	})

	t.Run("rejects zero expiry", func(t *testing.T) {
		_, err := auth.NewSession(testUser(t), "tokenhash", time.Time{})
		assert.Error(t, err)
	})
}

func TestSessionExpiry(t *testing.T) {
	session, err := auth.NewSession(testUser(t), "tokenhash", time.Now().Add(time.Hour))
	require.NoError(t, err)

	t.Run("not expired before deadline", func(t *testing.T) {
		assert.False(t, session.IsExpired())
		assert.False(t, session.IsExpiredAt(session.ExpiresAt))
	})

	t.Run("expired after deadline", func(t *testing.T) {
		assert.True(t, session.IsExpiredAt(session.ExpiresAt.Add(time.Second)))
	})
}

func TestGenerateSessionToken(t *testing.T) {
	t.Run("token and hash are consistent", func(t *testing.T) {
		token, hash, err := auth.GenerateSessionToken()
		require.NoError(t, err)
		assert.Len(t, token, auth.SessionTokenBytes*2)
		assert.Equal(t, auth.HashSessionToken(token), hash)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		token1, _, err := auth.GenerateSessionToken()
		require.NoError(t, err)
		token2, _, err := auth.GenerateSessionToken()
		require.NoError(t, err)
		assert.NotEqual(t, token1, token2)
	})
}

func TestHashSessionToken(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, auth.HashSessionToken("token"), auth.HashSessionToken("token"))
	})

	t.Run("distinct inputs produce distinct hashes", func(t *testing.T) {
		assert.NotEqual(t, auth.HashSessionToken("token1"), auth.HashSessionToken("token2"))
	})
}
