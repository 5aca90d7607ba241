// Copyright (c) 2026 Programando o Futuro. All rights reserved.

// Package database provides tiny storage abstractions shared by repositories:
// a minimal query interface (Querier) implemented by both the connection pool
// and a transaction handle, and a helper to run functions inside a transaction.
//
// # Why an explicit handle?
//
// Session and user mutations must compose atomically with caller-managed
// units of work (login creates a session inside the same transaction that
// verified the credentials). Threading the [Querier] explicitly makes the
// transaction boundary visible at every call site instead of hiding it in
// ambient state.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx used by our repositories.
// Both [*pgxpool.Pool] and [pgx.Tx] satisfy this interface.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions. [*pgxpool.Pool] and [pgx.Tx] (savepoints)
// both satisfy it, so nested units of work compose transparently.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx begins a transaction, runs fn with the transactional handle, and
// then commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := database.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    // pass tx (a Querier) to repository calls
//	    return repo.Update(ctx, tx, session)
//	})
func WithTx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(tx)
	return err
}
