// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
)

// ConfirmationTokenRepository implements account.ConfirmationTokenStore
// using PostgreSQL. Only the SHA-256 hash of a token ever reaches the table.
type ConfirmationTokenRepository struct {
	db DB
}

// NewConfirmationTokenRepository creates a new ConfirmationTokenRepository.
func NewConfirmationTokenRepository(db DB) *ConfirmationTokenRepository {
	return &ConfirmationTokenRepository{db: db}
}

// Issue mints a fresh token for the account, stores its hash and returns
// the plaintext token.
func (r *ConfirmationTokenRepository) Issue(ctx context.Context, accountID ulid.ULID) (string, error) {
	token, hash, err := account.GenerateConfirmationToken()
	if err != nil {
		return "", err
	}

	_, err = queryEngine(ctx, r.db).Exec(ctx, `
		INSERT INTO confirmation_tokens (token_hash, account_id, created_at)
		VALUES ($1, $2, $3)
	`, hash, accountID.String(), time.Now().UTC())
	if err != nil {
		return "", oops.Code("CONFIRM_TOKEN_ISSUE_FAILED").
			With("operation", "insert confirmation token").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return token, nil
}

// Redeem deletes the row matching the token and returns the referenced
// account ID. Run inside a Transactor callback together with MarkConfirmed,
// the delete and the confirmed flip form one atomic unit.
func (r *ConfirmationTokenRepository) Redeem(ctx context.Context, token string) (ulid.ULID, error) {
	hash := account.HashConfirmationToken(token)

	var idStr string
	err := queryEngine(ctx, r.db).QueryRow(ctx, `
		DELETE FROM confirmation_tokens WHERE token_hash = $1
		RETURNING account_id
	`, hash).Scan(&idStr)
	if errors.Is(err, pgx.ErrNoRows) {
		// Unknown and already-consumed look identical on purpose.
		return ulid.ULID{}, oops.Code("CONFIRM_TOKEN_UNKNOWN").Wrap(account.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("CONFIRM_TOKEN_REDEEM_FAILED").
			With("operation", "delete confirmation token").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return ulid.ULID{}, oops.Code("CONFIRM_TOKEN_INVALID_ACCOUNT_ID").
			With("operation", "parse account id").
			With("account_id", idStr).
			Wrap(err)
	}
	return id, nil
}

// Compile-time interface check.
var _ account.ConfirmationTokenStore = (*ConfirmationTokenRepository)(nil)
