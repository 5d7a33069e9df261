// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ConfirmationTokenBytes is the entropy of a confirmation token.
// 32 bytes = 64 hex chars.
const ConfirmationTokenBytes = 32

// ConfirmationToken is a pending email-confirmation row. Its existence
// implies the referenced account is still unconfirmed: redemption deletes
// the row and confirms the account in one transaction.
type ConfirmationToken struct {
	TokenHash string
	AccountID ulid.ULID
	CreatedAt time.Time
}

// GenerateConfirmationToken creates a secure random token and its hash.
// The plaintext token goes into the confirmation mail; only the hash is
// stored.
func GenerateConfirmationToken() (token, hash string, err error) {
	raw := make([]byte, ConfirmationTokenBytes)
	if _, err = rand.Read(raw); err != nil {
		return "", "", oops.Code("CONFIRM_TOKEN_GENERATE_FAILED").Wrap(err)
	}
	token = hex.EncodeToString(raw)
	return token, HashConfirmationToken(token), nil
}

// HashConfirmationToken computes the SHA-256 hash of a token.
func HashConfirmationToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// ConfirmationTokenStore manages pending confirmation tokens.
type ConfirmationTokenStore interface {
	// Issue mints a fresh token for the account, persists its hash and
	// returns the plaintext token.
	Issue(ctx context.Context, accountID ulid.ULID) (string, error)

	// Redeem deletes the row matching the token and returns the account it
	// referenced. Returns ErrNotFound for unknown or already-consumed
	// tokens; callers must not distinguish the two.
	Redeem(ctx context.Context, token string) (ulid.ULID, error)
}
