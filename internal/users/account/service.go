// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
Package account implements self-service management of the authenticated
user's own profile.

It covers profile retrieval, name/email/password updates, and account
deletion. All operations act on the caller's identity only; there is no
administration surface here.

# Architecture

The package reuses the auth domain's entities and repositories: the account
is the same row the auth layer authenticates against. Updates run inside a
transaction holding a row-level lock on the user, so concurrent profile
mutations serialize instead of clobbering each other.
*/
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for the caller's own account.
type Service struct {
	db             auth.DB
	userRepository auth.UserRepository
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(db auth.DB, userRepo auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		db:             db,
		userRepository: userRepo,
		logger:         logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private profile of the authenticated user.

Description: Reads the account row directly so the response reflects current
state even when the caller's access token carries stale claims.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or retrieval failures
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(ctx, service.db, userID, false)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateName changes the authenticated user's display name.

Parameters:
  - context: context.Context
  - userID: string
  - name: string

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateName(ctx context.Context, userID, name string) (*auth.User, error) {
	var user *auth.User

	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {
		var err error
		user, err = service.userRepository.FindByID(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		user.Name = name
		return service.userRepository.UpdateProfile(ctx, tx, user)
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_name_failed: %w", err)
	}

	service.logger.Info("user_name_updated", slog.String("user_id", userID))
	return user, nil
}

/*
UpdateEmail changes the authenticated user's email address.

Description: The new address must not belong to another account. The
pre-check and the update share one transaction; the unique index is the
backstop for races.

Parameters:
  - context: context.Context
  - userID: string
  - email: string

Returns:
  - *auth.User: The updated user profile
  - error: Conflict if the email is taken, or storage failures
*/
func (service *Service) UpdateEmail(ctx context.Context, userID, email string) (*auth.User, error) {
	var user *auth.User

	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {
		var err error
		user, err = service.userRepository.FindByID(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		// Changing to the current address is a no-op, not a conflict.
		if user.Email == email {
			return nil
		}

		if other, err := service.userRepository.FindByEmail(ctx, tx, email, false); err == nil && other.ID != userID {
			return apperr.Conflict("Email is already registered")
		}

		user.Email = email
		return service.userRepository.UpdateProfile(ctx, tx, user)
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_email_failed: %w", err)
	}

	service.logger.Info("user_email_updated", slog.String("user_id", userID))
	return user, nil
}

/*
UpdatePassword rotates the authenticated user's password.

Description: Verifies the current password before accepting the new one, so a
hijacked session cannot silently lock the owner out.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: InvalidCredentials if the current password is wrong, or storage failures
*/
func (service *Service) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {
		user, err := service.userRepository.FindByID(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
			return apperr.InvalidCredentials()
		}

		hashedPassword, err := sec.HashPassword(newPassword)
		if err != nil {
			return fmt.Errorf("account_service_password_hash_failed: %w", err)
		}

		return service.userRepository.UpdatePassword(ctx, tx, userID, hashedPassword)
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("account_service_update_password_failed: %w", err)
	}

	service.logger.Info("user_password_updated", slog.String("user_id", userID))
	return nil
}

/*
DeleteAccount permanently removes the authenticated user's account.

Description: Requires the current password as confirmation. The delete is a
hard delete; every session belonging to the account dies with the row via the
database-level cascade, signing the user out everywhere at once.

Parameters:
  - context: context.Context
  - userID: string
  - password: string

Returns:
  - error: InvalidCredentials if the password is wrong, or storage failures
*/
func (service *Service) DeleteAccount(ctx context.Context, userID, password string) error {
	err := database.WithTx(ctx, service.db, func(tx pgx.Tx) error {
		user, err := service.userRepository.FindByID(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		if !sec.CheckPasswordHash(password, user.PasswordHash) {
			return apperr.InvalidCredentials()
		}

		return service.userRepository.Delete(ctx, tx, userID)
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))
	return nil
}
