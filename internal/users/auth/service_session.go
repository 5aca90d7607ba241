// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/constants"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
)

/*
ValidateSession resolves an identity from the session tokens.

Description: The access token is the hot path — pure signature verification
with no database access. Only when it is absent or rejected does the refresh
token open a transaction and rotate the session.

Parameters:
  - context: context.Context
  - accessToken: string (may be empty)
  - refreshToken: string (may be empty)

Returns:
  - *sec.Identity: The resolved caller identity
  - *sec.TokenPair: Fresh tokens when the session rotated, nil on the fast path
  - error: Unauthorized when neither token resolves, or internal failures
*/
func (service *Service) ValidateSession(ctx context.Context, accessToken, refreshToken string) (*sec.Identity, *sec.TokenPair, error) {

	// Fast path: a valid signature authenticates the request by itself. A
	// rejected access token is not an error yet; the refresh path may still
	// recover the session.
	if accessToken != "" {
		if claims, err := service.tokenProvider.VerifyToken(accessToken); err == nil {
			return claims.Identity(), nil, nil
		}
	}

	if refreshToken == "" {
		return nil, nil, apperr.Unauthorized("Session is no longer active")
	}

	return service.refreshSession(ctx, refreshToken)
}

/*
refreshSession rotates a session in place and mints a fresh token pair.

Description: Locks the session row (FOR UPDATE), replaces the refresh secret,
and pushes the expiry out by the session TTL — same row, same ID. The old
secret dies with the commit: a replayed refresh token finds no matching row
and fails closed. The user row is re-read inside the same transaction so the
new access token carries current profile claims.

Concurrency: Two racing refreshes with the same secret serialize on the row
lock. The loser re-evaluates its predicate after the winner commits, sees a
row that no longer holds its secret, and is turned away — exactly one rotation
per presented token.
*/
func (service *Service) refreshSession(ctx context.Context, refreshToken string) (*sec.Identity, *sec.TokenPair, error) {
	var identity *sec.Identity
	var rotated *sec.TokenPair

	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {

		// Lock the session row. Expired rows are reaped on read and surface
		// as ErrSessionNotFound.
		session, err := service.sessionRepository.FindByRefreshToken(ctx, tx, refreshToken, true)
		if err != nil {
			return err
		}

		// Re-read the user so rotated access tokens carry fresh claims.
		user, err := service.userRepository.FindByID(ctx, tx, session.UserID, false)
		if err != nil {
			return err
		}

		// Rotate in place: new secret, pushed-out expiry, same row.
		newSecret, err := sec.GenerateSecureToken(constants.RefreshTokenLength)
		if err != nil {
			return fmt.Errorf("auth_service_rotation_token_failed: %w", err)
		}

		session.RefreshToken = newSecret
		session.ExpiresAt = time.Now().Add(service.sessionTTL)
		if err := service.sessionRepository.Update(ctx, tx, session); err != nil {
			return err
		}

		// Mint the matching access token.
		accessToken, err := service.tokenProvider.GenerateAccessToken(session.ID, user.ID, user.Name, user.Email)
		if err != nil {
			return fmt.Errorf("auth_service_rotation_access_token_failed: %w", err)
		}

		identity = &sec.Identity{
			SessionID: session.ID,
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
		}
		rotated = &sec.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: newSecret,
		}
		return nil
	})

	if err != nil {
		// A vanished session or a deleted user both read as a lapsed session
		// to the client; the distinction stays server-side.
		if errors.Is(err, ErrSessionNotFound) || apperr.IsNotFound(err) {
			return nil, nil, apperr.Unauthorized("Session is no longer active")
		}
		if apperr.IsAppError(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("auth_service_refresh_failed: %w", err)
	}

	return identity, rotated, nil
}
