// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package auth

import (
	"context"
	"errors"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
)

// ErrSessionNotFound reports that a session row does not exist, never existed,
// or was removed because it had expired.
//
// # Visibility
//
// This sentinel is internal to the auth domain. The service layer maps it to a
// generic 401 Unauthorized before it reaches a client: revealing whether a
// session once existed would leak account activity to whoever holds a stale
// cookie.
var ErrSessionNotFound = errors.New("auth: session not found")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Every method takes an explicit [database.Querier] so callers decide the
// transaction boundary: pass the pool for standalone reads, or a transaction
// handle to compose with other statements atomically.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - user: *User

		Returns:
		  - error: Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, db database.Querier, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - id: string
		  - forUpdate: bool (acquire a row-level lock until the enclosing tx ends)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, db database.Querier, id string, forUpdate bool) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - email: string
		  - forUpdate: bool (acquire a row-level lock until the enclosing tx ends)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, db database.Querier, email string, forUpdate bool) (*User, error)

	/*
		UpdateProfile persists changes to the mutable profile fields (name, email).

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - user: *User

		Returns:
		  - error: Conflict on duplicate email, or persistence failures
	*/
	UpdateProfile(context context.Context, db database.Querier, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, db database.Querier, userID, newHash string) error

	/*
		Delete permanently removes the account row. Sessions cascade at the
		database level.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, db database.Querier, id string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
//
// # Lazy Expiry
//
// There is no background sweeper. Both finders delete an expired row the
// moment they read it (inside the caller's transaction, under the same lock)
// and report [ErrSessionNotFound], so an expired session is indistinguishable
// from one that never existed.
type SessionRepository interface {

	/*
		Create persists a new session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, db database.Querier, session *Session) error

	/*
		FindByID returns the live session with the given ID.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - id: string
		  - forUpdate: bool (acquire a row-level lock until the enclosing tx ends)

		Returns:
		  - *Session: Hydrated entity
		  - error: ErrSessionNotFound (missing or expired) or retrieval failures
	*/
	FindByID(context context.Context, db database.Querier, id string, forUpdate bool) (*Session, error)

	/*
		FindByRefreshToken returns the live session holding the given refresh secret.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - refreshToken: string
		  - forUpdate: bool (acquire a row-level lock until the enclosing tx ends)

		Returns:
		  - *Session: Hydrated entity
		  - error: ErrSessionNotFound (missing or expired) or retrieval failures
	*/
	FindByRefreshToken(context context.Context, db database.Querier, refreshToken string, forUpdate bool) (*Session, error)

	/*
		Update persists a rotation: new refresh secret, pushed-out expiry,
		refreshed UpdatedAt. The row keeps its identity.

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - session: *Session

		Returns:
		  - error: ErrSessionNotFound if the row vanished, or persistence failures
	*/
	Update(context context.Context, db database.Querier, session *Session) error

	/*
		Delete permanently removes the session row (logout / revocation).

		Parameters:
		  - context: context.Context
		  - db: database.Querier
		  - id: string

		Returns:
		  - error: ErrSessionNotFound if no row was deleted, or persistence failures
	*/
	Delete(context context.Context, db database.Querier, id string) error
}
