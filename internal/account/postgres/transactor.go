// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
)

// Transactor implements account.Transactor on a pgx connection pool. The
// active pgx.Tx is stored in context so repository methods called inside the
// callback participate in the same transaction.
type Transactor struct {
	db DB
}

// NewTransactor creates a Transactor backed by the given pool.
func NewTransactor(db DB) *Transactor {
	return &Transactor{db: db}
}

// InTransaction begins a transaction, stores it in context and calls fn.
// The transaction commits when fn returns nil and rolls back otherwise.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TX_COMMIT_FAILED").Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ account.Transactor = (*Transactor)(nil)
