// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
)

// PostgresSessionRepository implements the [SessionRepository] interface using pgx.
type PostgresSessionRepository struct{}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository() *PostgresSessionRepository {
	return &PostgresSessionRepository{}
}

// Create persists a new session record into the sessions table.
func (repository *PostgresSessionRepository) Create(ctx context.Context, db database.Querier, session *Session) error {
	const query = `
		INSERT INTO sessions (
			id, user_id, refresh_token, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	_, err := db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a live session by its unique ID.
//
// # Lazy Expiry
//
// An expired row is deleted on the spot — inside the caller's transaction,
// under the same FOR UPDATE lock when requested — and reported as
// [ErrSessionNotFound]. The caller never observes an expired session.
func (repository *PostgresSessionRepository) FindByID(ctx context.Context, db database.Querier, id string, forUpdate bool) (*Session, error) {
	query := `
		SELECT id, user_id, refresh_token, expires_at, created_at, updated_at
		FROM sessions
		WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	session := &Session{}
	err := db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("postgres_session_repo_find_by_id_failed: %w", err)
	}

	return repository.reapIfExpired(ctx, db, session)
}

// FindByRefreshToken retrieves a live session by its unique refresh secret.
//
// Expired rows are reaped on read exactly as in [PostgresSessionRepository.FindByID].
func (repository *PostgresSessionRepository) FindByRefreshToken(ctx context.Context, db database.Querier, refreshToken string, forUpdate bool) (*Session, error) {
	query := `
		SELECT id, user_id, refresh_token, expires_at, created_at, updated_at
		FROM sessions
		WHERE refresh_token = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	session := &Session{}
	err := db.QueryRow(ctx, query, refreshToken).Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("postgres_session_repo_find_by_token_failed: %w", err)
	}

	return repository.reapIfExpired(ctx, db, session)
}

// Update persists an in-place rotation of the session.
//
// The WHERE clause matches on ID only: the caller already holds the row lock,
// so the refresh secret may legitimately differ from what was read.
func (repository *PostgresSessionRepository) Update(ctx context.Context, db database.Querier, session *Session) error {
	const query = `
		UPDATE sessions
		SET refresh_token = $2, expires_at = $3, updated_at = $4
		WHERE id = $1`

	session.UpdatedAt = time.Now()
	tag, err := db.Exec(ctx, query,
		session.ID,
		session.RefreshToken,
		session.ExpiresAt,
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Delete permanently removes a session row by ID.
func (repository *PostgresSessionRepository) Delete(ctx context.Context, db database.Querier, id string) error {
	const query = "DELETE FROM sessions WHERE id = $1"

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// reapIfExpired deletes the row and reports [ErrSessionNotFound] when the
// session has lapsed; otherwise it passes the session through untouched.
func (repository *PostgresSessionRepository) reapIfExpired(ctx context.Context, db database.Querier, session *Session) (*Session, error) {
	if !session.IsExpired(time.Now()) {
		return session, nil
	}

	if err := repository.Delete(ctx, db, session.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("postgres_session_repo_reap_failed: %w", err)
	}

	return nil, ErrSessionNotFound
}
