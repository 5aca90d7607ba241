// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/database"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/users/auth"
)

var errNotImplemented = errors.New("not implemented in fake")

// # In-Memory Store

// fakeStore holds the backing data shared by the fake repositories. A single
// mutex, held for the whole lifetime of each fake transaction, stands in for
// the row-level locks that serialize concurrent refreshes in PostgreSQL.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*auth.User
	sessions map[string]*auth.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*auth.User),
		sessions: make(map[string]*auth.Session),
	}
}

// # Fake DB & Transactions

// fakeDB satisfies [auth.DB]. Begin locks the store until Commit/Rollback,
// so two in-flight fake transactions never interleave — the same end state
// FOR UPDATE produces for the queries our repositories run.
type fakeDB struct {
	store  *fakeStore
	begins atomic.Int32
}

func newFakeDB(store *fakeStore) *fakeDB {
	return &fakeDB{store: store}
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.begins.Add(1)
	db.store.mu.Lock()
	return &fakeTx{store: db.store}, nil
}

func (db *fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNotImplemented
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errNotImplemented
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

// fakeTx satisfies pgx.Tx just enough for [database.WithTx]. The repositories
// under test never touch its query methods; they go straight to the store.
type fakeTx struct {
	store *fakeStore
	done  bool
}

func (tx *fakeTx) finish() {
	if !tx.done {
		tx.done = true
		tx.store.mu.Unlock()
	}
}

func (tx *fakeTx) Commit(ctx context.Context) error   { tx.finish(); return nil }
func (tx *fakeTx) Rollback(ctx context.Context) error { tx.finish(); return nil }

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errNotImplemented }
func (tx *fakeTx) Conn() *pgx.Conn                           { return nil }
func (tx *fakeTx) LargeObjects() pgx.LargeObjects            { return pgx.LargeObjects{} }

func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errNotImplemented
}

func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errNotImplemented
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNotImplemented
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errNotImplemented
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

// # Fake Repositories

// fakeUserRepo implements [auth.UserRepository] against the in-memory store.
// The Querier argument is ignored; isolation comes from the fakeTx lock.
type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, db database.Querier, user *auth.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db database.Querier, id string, forUpdate bool) (*auth.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, db database.Querier, email string, forUpdate bool) (*auth.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, db database.Querier, user *auth.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return apperr.Conflict("Email is already registered")
		}
	}

	stored, ok := r.store.users[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}

	stored.Name = user.Name
	stored.Email = user.Email
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, db database.Querier, userID, newHash string) error {
	stored, ok := r.store.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, db database.Querier, id string) error {
	delete(r.store.users, id)

	// Emulate the ON DELETE CASCADE on sessions.user_id.
	for sessionID, session := range r.store.sessions {
		if session.UserID == id {
			delete(r.store.sessions, sessionID)
		}
	}
	return nil
}

// fakeSessionRepo implements [auth.SessionRepository] against the in-memory
// store, including the lazy reap of expired rows on read.
type fakeSessionRepo struct {
	store *fakeStore
}

func (r *fakeSessionRepo) Create(ctx context.Context, db database.Querier, session *auth.Session) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	clone := *session
	r.store.sessions[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, db database.Querier, id string, forUpdate bool) (*auth.Session, error) {
	session, ok := r.store.sessions[id]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return r.reapIfExpired(session)
}

func (r *fakeSessionRepo) FindByRefreshToken(ctx context.Context, db database.Querier, refreshToken string, forUpdate bool) (*auth.Session, error) {
	for _, session := range r.store.sessions {
		if session.RefreshToken == refreshToken {
			return r.reapIfExpired(session)
		}
	}
	return nil, auth.ErrSessionNotFound
}

func (r *fakeSessionRepo) Update(ctx context.Context, db database.Querier, session *auth.Session) error {
	stored, ok := r.store.sessions[session.ID]
	if !ok {
		return auth.ErrSessionNotFound
	}
	stored.RefreshToken = session.RefreshToken
	stored.ExpiresAt = session.ExpiresAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, db database.Querier, id string) error {
	if _, ok := r.store.sessions[id]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(r.store.sessions, id)
	return nil
}

func (r *fakeSessionRepo) reapIfExpired(session *auth.Session) (*auth.Session, error) {
	if session.IsExpired(time.Now()) {
		delete(r.store.sessions, session.ID)
		return nil, auth.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

// # Harness

const (
	testAccessTTL  = 15 * time.Minute
	testSessionTTL = 30 * 24 * time.Hour
	testPassword   = "Str0ng!Pass"
)

// harness bundles a fully wired auth service over the in-memory fakes.
type harness struct {
	store   *fakeStore
	db      *fakeDB
	tokens  *sec.TokenService
	service *auth.Service
}

func newHarness(t *testing.T, accessTTL, sessionTTL time.Duration) *harness {
	t.Helper()

	tokens, err := sec.NewTokenService("unit-test-secret-key", "test-issuer", accessTTL)
	require.NoError(t, err)

	store := newFakeStore()
	db := newFakeDB(store)

	service := auth.NewService(db, &fakeUserRepo{store: store}, &fakeSessionRepo{store: store}, tokens, sessionTTL)

	return &harness{
		store:   store,
		db:      db,
		tokens:  tokens,
		service: service,
	}
}

// seedUser inserts a user with the shared test password and returns it.
func (h *harness) seedUser(t *testing.T, name, email string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	user := &auth.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	h.store.users[user.ID] = user
	return user
}

// seedSession inserts a session row directly and returns it.
func (h *harness) seedSession(t *testing.T, userID string, expiresAt time.Time) *auth.Session {
	t.Helper()

	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	session := &auth.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		RefreshToken: token,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	h.store.sessions[session.ID] = session
	return session
}
