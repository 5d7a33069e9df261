// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package accounttest provides in-memory test doubles for the account
// package's store and notifier interfaces.
package accounttest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
)

// CredentialStore is an in-memory account.CredentialStore.
type CredentialStore struct {
	mu       sync.Mutex
	accounts map[ulid.ULID]*account.Account

	// CreateErr, when set, is returned by CreateUnconfirmed.
	CreateErr error
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{accounts: make(map[ulid.ULID]*account.Account)}
}

// CreateUnconfirmed inserts an unconfirmed account, enforcing username and
// email uniqueness case-insensitively like the durable store.
func (s *CredentialStore) CreateUnconfirmed(_ context.Context, username, email, passwordHash string) (ulid.ULID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return ulid.ULID{}, s.CreateErr
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			return ulid.ULID{}, &account.ConflictError{Field: account.ConflictUsername}
		}
		if strings.EqualFold(a.Email, email) {
			return ulid.ULID{}, &account.ConflictError{Field: account.ConflictEmail}
		}
	}

	now := time.Now()
	a := &account.Account{
		ID:           ulid.Make(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Confirmed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.accounts[a.ID] = a
	return a.ID, nil
}

// GetByUsername retrieves an account by username (case-insensitive).
func (s *CredentialStore) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrNotFound
}

// MarkConfirmed flips the confirmed flag. Idempotent.
func (s *CredentialStore) MarkConfirmed(_ context.Context, id ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return account.ErrNotFound
	}
	a.Confirmed = true
	a.UpdatedAt = time.Now()
	return nil
}

// Get returns a copy of the stored account, for assertions.
func (s *CredentialStore) Get(id ulid.ULID) (*account.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

// Delete removes an account, for compensation in NopTransactor tests.
func (s *CredentialStore) Delete(id ulid.ULID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
}

// ConfirmationTokenStore is an in-memory account.ConfirmationTokenStore.
type ConfirmationTokenStore struct {
	mu     sync.Mutex
	byHash map[string]ulid.ULID

	// IssueErr, when set, is returned by Issue.
	IssueErr error
}

// NewConfirmationTokenStore creates an empty in-memory token store.
func NewConfirmationTokenStore() *ConfirmationTokenStore {
	return &ConfirmationTokenStore{byHash: make(map[string]ulid.ULID)}
}

// Issue mints a token for the account and stores its hash.
func (s *ConfirmationTokenStore) Issue(_ context.Context, accountID ulid.ULID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IssueErr != nil {
		return "", s.IssueErr
	}
	token, hash, err := account.GenerateConfirmationToken()
	if err != nil {
		return "", err
	}
	s.byHash[hash] = accountID
	return token, nil
}

// Redeem consumes the token, returning account.ErrNotFound for unknown or
// already-consumed tokens.
func (s *ConfirmationTokenStore) Redeem(_ context.Context, token string) (ulid.ULID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := account.HashConfirmationToken(token)
	id, ok := s.byHash[hash]
	if !ok {
		return ulid.ULID{}, account.ErrNotFound
	}
	delete(s.byHash, hash)
	return id, nil
}

// Len returns the number of live tokens.
func (s *ConfirmationTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byHash)
}

// NopTransactor runs the callback without transactional semantics. Rollback
// behavior is exercised against the real store with pgxmock instead.
type NopTransactor struct{}

// InTransaction calls fn directly.
func (NopTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// CaptureNotifier records sent confirmation links instead of delivering them.
type CaptureNotifier struct {
	mu    sync.Mutex
	sends []Sent

	// Err, when set, is returned by Send.
	Err error
}

// Sent is one captured notification.
type Sent struct {
	Email string
	Link  string
}

// Send records the notification or returns the configured error.
func (n *CaptureNotifier) Send(_ context.Context, email, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.sends = append(n.sends, Sent{Email: email, Link: link})
	return nil
}

// Sends returns all captured notifications.
func (n *CaptureNotifier) Sends() []Sent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Sent(nil), n.sends...)
}

// Compile-time interface checks.
var (
	_ account.CredentialStore        = (*CredentialStore)(nil)
	_ account.ConfirmationTokenStore = (*ConfirmationTokenStore)(nil)
	_ account.Transactor             = NopTransactor{}
	_ account.Notifier               = (*CaptureNotifier)(nil)
)
