// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

// emailRegex matches a basic local@domain.tld shape. It intentionally does
// not attempt full RFC 5322 validation; the confirmation mail is the real
// proof of ownership.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Account represents a player account.
type Account struct {
	ID           ulid.ULID
	Username     string
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateRegistration checks the raw registration input. The password is
// only checked for presence here; strength policy is out of scope.
func ValidateRegistration(username, password, email string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "cannot be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "cannot be empty"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Message: "cannot be empty"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// CredentialStore manages durable account rows.
//
// Username and email uniqueness is enforced by the store itself: concurrent
// duplicate registrations are resolved by the store's unique constraints,
// never by application-level locking.
type CredentialStore interface {
	// CreateUnconfirmed inserts a new unconfirmed account and returns the
	// generated ID. Returns a *ConflictError when username or email is
	// already present.
	CreateUnconfirmed(ctx context.Context, username, email, passwordHash string) (ulid.ULID, error)

	// GetByUsername retrieves an account by username (case-insensitive).
	// Returns ErrNotFound if no account matches.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// MarkConfirmed flips the confirmed flag. Idempotent: confirming an
	// already-confirmed account is a no-op.
	MarkConfirmed(ctx context.Context, id ulid.ULID) error
}

// Transactor runs a function inside a single store transaction. Store
// operations invoked with the callback context join that transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
