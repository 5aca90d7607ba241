// Copyright (c) 2026 Programando o Futuro. All rights reserved.

// PostgreSQL implementation of the user repository.
//
// # Architecture
//
// Repositories are strictly separated from domain logic. They implement the
// domain-defined interfaces ([UserRepository], [SessionRepository]) against
// any [database.Querier] — the pool for standalone statements, a pgx.Tx for
// statements composed into a caller-managed transaction.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or unique-constraint
// violations) are mapped to domain-friendly [apperr.AppError] types to avoid
// leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
)

// pgUniqueViolation is the PostgreSQL error code for unique-constraint violations.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// PostgresUserRepository implements the [UserRepository] interface using pgx.
type PostgresUserRepository struct{}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository() *PostgresUserRepository {
	return &PostgresUserRepository{}
}

// Create persists a new user record into the users table.
//
// # Returns
//
// Returns [apperr.Conflict] if the email is already registered; the unique
// index is the final arbiter even when the service pre-checked under a lock.
func (repository *PostgresUserRepository) Create(ctx context.Context, db database.Querier, user *User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a user record by their unique ID.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, db database.Querier, id string, forUpdate bool) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	user := &User{}
	err := db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user record by their unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, db database.Querier, email string, forUpdate bool) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	user := &User{}
	err := db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

// UpdateProfile persists changes to a user's mutable profile fields (name, email).
func (repository *PostgresUserRepository) UpdateProfile(ctx context.Context, db database.Querier, user *User) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, updated_at = $4
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err)
	}

	return nil
}

// UpdatePassword updates only the password hash for a specific user.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, db database.Querier, userID, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`

	_, err := db.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

// Delete permanently removes a user account by ID.
//
// The sessions table declares ON DELETE CASCADE on user_id, so every session
// belonging to the account dies with it in the same statement.
func (repository *PostgresUserRepository) Delete(ctx context.Context, db database.Querier, id string) error {
	const query = "DELETE FROM users WHERE id = $1"
	_, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}
	return nil
}
