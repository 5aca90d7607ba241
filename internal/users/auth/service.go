// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
Service layer for the authentication domain.

It handles user registration with secure password hashing, credential
verification, and the session lifecycle (create on login, destroy on logout).

Architecture:

  - Service: Orchestrates business logic (Register, Login, Logout, ValidateSession).
  - Repository: Abstracted interfaces for PostgreSQL persistence.
  - Security: Leverages bcrypt hashing and HMAC-signed JWTs.

Every mutation runs inside an explicit transaction so credential checks and
session writes observe a single consistent snapshot.
*/

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/constants"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
)

// # Contracts & Types

// DB combines plain querying with the ability to open transactions.
// [*pgxpool.Pool] satisfies it.
type DB interface {
	database.Querier
	database.Beginner
}

// TokenProvider defines the contract for minting and checking access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string bound to a session.
	GenerateAccessToken(sessionID, userID, name, email string) (string, error)

	// VerifyToken checks the signature and validity of a JWT string and
	// returns its claims.
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// session rotation logic must be reviewed by the security team.
type Service struct {
	db                DB
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
	sessionTTL        time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
//
// sessionTTL is the refresh-token lifetime; each successful refresh pushes
// the session's expiry out by this amount.
func NewService(
	db DB,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenProv TokenProvider,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		db:                db,
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
		sessionTTL:        sessionTTL,
	}
}

// newID returns a time-sortable UUIDv7 string, falling back to a random v4.
// Time-sortable IDs prevent PG index fragmentation on insert-heavy tables.
func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member, hashing the password before anything
touches the database. The uniqueness pre-check and the insert share one
transaction; the unique index on email is the backstop for races.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if the email is taken) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {

	// Prevent storing plain-text passwords. Default cost balances security
	// against CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           newID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	err = database.WithTx(ctx, service.db, func(tx pgx.Tx) error {

		// Verify email uniqueness first for a clean client-safe Conflict.
		if _, err := service.userRepository.FindByEmail(ctx, tx, input.Email, false); err == nil {
			return apperr.Conflict("Email is already registered")
		}

		// Persist the user. Create maps a concurrent duplicate to the same Conflict.
		return service.userRepository.Create(ctx, tx, user)
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Tokens sec.TokenPair
	User   *User
}

/*
Login validates user credentials and establishes a session.

Description: Verifies the password with a constant-time bcrypt comparison and
creates the session row inside the same transaction, so the credentials that
were checked are the credentials the session is bound to.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready token pair and user profile
  - error: InvalidCredentials or internal failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	var result *LoginSession

	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {

		// Look up the account. Generic error to prevent account enumeration.
		user, err := service.userRepository.FindByEmail(ctx, tx, input.Email, false)
		if err != nil {
			return apperr.InvalidCredentials()
		}

		// Constant-time password comparison via bcrypt.
		if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
			return apperr.InvalidCredentials()
		}

		// Mint the long-lived opaque refresh secret.
		refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenLength)
		if err != nil {
			return fmt.Errorf("auth_service_refresh_token_failed: %w", err)
		}

		// Persist the session row.
		session := &Session{
			ID:           newID(),
			UserID:       user.ID,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(service.sessionTTL),
		}
		if err := service.sessionRepository.Create(ctx, tx, session); err != nil {
			return fmt.Errorf("auth_service_session_creation_failed: %w", err)
		}

		// Mint the short-lived access token bound to the new session.
		accessToken, err := service.tokenProvider.GenerateAccessToken(session.ID, user.ID, user.Name, user.Email)
		if err != nil {
			return fmt.Errorf("auth_service_token_generation_failed: %w", err)
		}

		result = &LoginSession{
			Tokens: sec.TokenPair{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
			},
			User: user,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

/*
Logout permanently destroys the caller's active session.

Description: Deletes the session row under a row-level lock so a concurrent
refresh cannot resurrect it. Once the row is gone the refresh token is dead;
outstanding access tokens simply age out within their short lifetime.

Parameters:
  - context: context.Context
  - sessionID: string (from the caller's verified identity)

Returns:
  - error: Unauthorized if the session is already gone, or storage failures
*/
func (service *Service) Logout(ctx context.Context, sessionID string) error {
	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {
		if _, err := service.sessionRepository.FindByID(ctx, tx, sessionID, true); err != nil {
			return err
		}
		return service.sessionRepository.Delete(ctx, tx, sessionID)
	})

	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperr.Unauthorized("Session is no longer active")
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}
