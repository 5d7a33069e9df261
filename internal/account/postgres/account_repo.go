// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
)

// Constraint names from the accounts migration. Postgres reports the violated
// constraint on a unique-violation error, which lets the conflict carry the
// offending field instead of a single undifferentiated code.
const (
	usernameConstraint = "accounts_username_key"
	emailConstraint    = "accounts_email_key"
)

// CredentialRepository implements account.CredentialStore using PostgreSQL.
type CredentialRepository struct {
	db DB
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// CreateUnconfirmed inserts a new unconfirmed account and returns its ID.
// The table's unique constraints are the single source of truth for
// username/email uniqueness: of two concurrent inserts exactly one succeeds
// and the other surfaces here as a *account.ConflictError.
func (r *CredentialRepository) CreateUnconfirmed(ctx context.Context, username, email, passwordHash string) (ulid.ULID, error) {
	id := ulid.Make()
	now := time.Now().UTC()

	_, err := queryEngine(ctx, r.db).Exec(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`, id.String(), username, email, passwordHash, now, now)
	if err != nil {
		if conflict := conflictFrom(err); conflict != nil {
			return ulid.ULID{}, conflict
		}
		return ulid.ULID{}, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("username", username).
			Wrap(err)
	}
	return id, nil
}

// GetByUsername retrieves an account by username (case-insensitive).
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	row := queryEngine(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, email, password_hash, confirmed, created_at, updated_at
		FROM accounts
		WHERE LOWER(username) = LOWER($1)
	`, username)

	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("username", username).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_USERNAME_FAILED").
			With("operation", "get account by username").
			With("username", username).
			Wrap(err)
	}
	return acct, nil
}

// MarkConfirmed flips the confirmed flag. Re-confirming an already-confirmed
// account is a harmless no-op at the row level.
func (r *CredentialRepository) MarkConfirmed(ctx context.Context, id ulid.ULID) error {
	result, err := queryEngine(ctx, r.db).Exec(ctx, `
		UPDATE accounts SET confirmed = TRUE, updated_at = $2
		WHERE id = $1
	`, id.String(), time.Now().UTC())
	if err != nil {
		return oops.Code("ACCOUNT_CONFIRM_FAILED").
			With("operation", "mark confirmed").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			Wrap(account.ErrNotFound)
	}
	return nil
}

// conflictFrom maps a unique-violation error to a tagged ConflictError, or
// returns nil for unrelated errors.
func conflictFrom(err error) *account.ConflictError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case usernameConstraint:
		return &account.ConflictError{Field: account.ConflictUsername}
	case emailConstraint:
		return &account.ConflictError{Field: account.ConflictEmail}
	default:
		return &account.ConflictError{Field: account.ConflictUnknown}
	}
}

// scanAccount scans a single row into an Account. Callers handle
// pgx.ErrNoRows themselves.
func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		idStr        string
		username     string
		email        string
		passwordHash string
		confirmed    bool
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&idStr, &username, &email, &passwordHash, &confirmed, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("operation", "parse account id").
			With("id", idStr).
			Wrap(err)
	}

	return &account.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Confirmed:    confirmed,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// Compile-time interface check.
var _ account.CredentialStore = (*CredentialRepository)(nil)
