// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package auth_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
)

/*
TestValidateSession_FastPath verifies that a valid access token authenticates
without any database interaction.
*/
func TestValidateSession_FastPath(t *testing.T) {
	h := newHarness(t, testAccessTTL, testSessionTTL)
	ctx := context.Background()

	accessToken, err := h.tokens.GenerateAccessToken("session-1", "user-1", "Caio", "caio@example.com")
	require.NoError(t, err)

	identity, rotated, err := h.service.ValidateSession(ctx, accessToken, "some-refresh-token")
	require.NoError(t, err)

	assert.Equal(t, "session-1", identity.SessionID)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Nil(t, rotated, "fast path must not rotate")
	assert.Zero(t, h.db.begins.Load(), "fast path must not open a transaction")
}

/*
TestValidateSession_Refresh verifies in-place rotation: same session row,
new secret, pushed-out expiry, dead old token.
*/
func TestValidateSession_Refresh(t *testing.T) {
	h := newHarness(t, testAccessTTL, testSessionTTL)
	ctx := context.Background()
	user := h.seedUser(t, "Caio", "caio@example.com")
	session := h.seedSession(t, user.ID, time.Now().Add(time.Hour))
	oldToken := session.RefreshToken

	identity, rotated, err := h.service.ValidateSession(ctx, "", oldToken)
	require.NoError(t, err)
	require.NotNil(t, rotated)

	// Identity carries current profile data and the original session ID.
	assert.Equal(t, session.ID, identity.SessionID)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "Caio", identity.Name)

	// Same row, new secret, extended lifetime.
	stored := h.store.sessions[session.ID]
	require.NotNil(t, stored, "rotation must keep the session row")
	assert.Equal(t, rotated.RefreshToken, stored.RefreshToken)
	assert.NotEqual(t, oldToken, stored.RefreshToken)
	assert.Greater(t, stored.ExpiresAt, time.Now().Add(testSessionTTL-time.Minute))

	// The fresh access token verifies and points at the same session.
	claims, err := h.tokens.VerifyToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.SessionID)

	t.Run("old_token_is_dead", func(t *testing.T) {
		_, _, err := h.service.ValidateSession(ctx, "", oldToken)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	})

	t.Run("new_token_still_works", func(t *testing.T) {
		_, next, err := h.service.ValidateSession(ctx, "", rotated.RefreshToken)
		require.NoError(t, err)
		assert.NotNil(t, next)
	})
}

/*
TestValidateSession_ExpiredAccessFallsThrough verifies that a lapsed access
token degrades to the refresh path instead of failing the request.
*/
func TestValidateSession_ExpiredAccessFallsThrough(t *testing.T) {
	h := newHarness(t, time.Millisecond, testSessionTTL)
	ctx := context.Background()
	user := h.seedUser(t, "Caio", "caio@example.com")
	session := h.seedSession(t, user.ID, time.Now().Add(time.Hour))

	accessToken, err := h.tokens.GenerateAccessToken(session.ID, user.ID, user.Name, user.Email)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	identity, rotated, err := h.service.ValidateSession(ctx, accessToken, session.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, session.ID, identity.SessionID)
	assert.NotNil(t, rotated, "recovery through the refresh path must rotate")
}

/*
TestValidateSession_ExpiredSessionReaped verifies lazy expiry: reading an
expired session deletes the row and reads as unauthorized.
*/
func TestValidateSession_ExpiredSessionReaped(t *testing.T) {
	h := newHarness(t, testAccessTTL, testSessionTTL)
	ctx := context.Background()
	user := h.seedUser(t, "Caio", "caio@example.com")
	session := h.seedSession(t, user.ID, time.Now().Add(-time.Minute))

	_, _, err := h.service.ValidateSession(ctx, "", session.RefreshToken)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)

	assert.NotContains(t, h.store.sessions, session.ID, "expired row must be deleted on read")
}

/*
TestValidateSession_DeletedUser verifies that a session whose owner vanished
reads as unauthorized, not as an internal error.
*/
func TestValidateSession_DeletedUser(t *testing.T) {
	h := newHarness(t, testAccessTTL, testSessionTTL)
	ctx := context.Background()
	session := h.seedSession(t, "ghost-user-id", time.Now().Add(time.Hour))

	_, _, err := h.service.ValidateSession(ctx, "", session.RefreshToken)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestValidateSession_NoTokens verifies the empty-handed caller is rejected.
*/
func TestValidateSession_NoTokens(t *testing.T) {
	h := newHarness(t, testAccessTTL, testSessionTTL)

	_, _, err := h.service.ValidateSession(context.Background(), "", "")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestValidateSession_ConcurrentRefresh verifies the exactly-once rotation
property: of N concurrent refreshes presenting the same secret, one wins and
the rest are turned away.
*/
func TestValidateSession_ConcurrentRefresh(t *testing.T) {
	h := newHarness(t, testAccessTTL, testSessionTTL)
	ctx := context.Background()
	user := h.seedUser(t, "Caio", "caio@example.com")
	session := h.seedSession(t, user.ID, time.Now().Add(time.Hour))

	const workers = 16

	// Capture the seeded secret before spawning workers: the store mutates
	// session.RefreshToken when the winner rotates, and every worker must
	// present the same original secret.
	refreshToken := session.RefreshToken

	var wg sync.WaitGroup
	results := make([]*sec.TokenPair, workers)
	failures := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, rotated, err := h.service.ValidateSession(ctx, "", refreshToken)
			results[slot] = rotated
			failures[slot] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < workers; i++ {
		if failures[i] == nil {
			winners++
			require.NotNil(t, results[i])
		} else {
			ae := apperr.As(failures[i])
			require.NotNil(t, ae, "losers must fail with a client-safe error")
			assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		}
	}

	assert.Equal(t, 1, winners, "exactly one refresh may rotate the session")
	assert.Contains(t, h.store.sessions, session.ID, "the session row must survive the race")
}
