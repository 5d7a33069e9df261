// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides the register/confirm/login operations.
type Service struct {
	accounts   CredentialStore
	tokens     ConfirmationTokenStore
	tx         Transactor
	hasher     PasswordHasher
	notifier   Notifier
	confirmURL string
	logger     *slog.Logger
}

// NewService creates a Service. confirmURL is the external base URL the
// confirmation link is built from (e.g. "https://game.example.com").
func NewService(
	accounts CredentialStore,
	tokens ConfirmationTokenStore,
	tx Transactor,
	hasher PasswordHasher,
	notifier Notifier,
	confirmURL string,
) (*Service, error) {
	return NewServiceWithLogger(accounts, tokens, tx, hasher, notifier, confirmURL, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(
	accounts CredentialStore,
	tokens ConfirmationTokenStore,
	tx Transactor,
	hasher PasswordHasher,
	notifier Notifier,
	confirmURL string,
	logger *slog.Logger,
) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("credential store is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("confirmation token store is required")
	}
	if tx == nil {
		return nil, oops.Errorf("transactor is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if notifier == nil {
		return nil, oops.Errorf("notifier is required")
	}
	if confirmURL == "" {
		return nil, oops.Errorf("confirmation base URL is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts:   accounts,
		tokens:     tokens,
		tx:         tx,
		hasher:     hasher,
		notifier:   notifier,
		confirmURL: confirmURL,
		logger:     logger,
	}, nil
}

// Register creates an unconfirmed account, issues a confirmation token and
// mails the confirmation link. The three steps run as one transaction: if
// the mail cannot be sent, the account and token inserts are rolled back so
// the username stays free for a retry.
//
// The returned ID is the only thing disclosed to the caller; neither the
// password hash nor the raw token ever leave the service.
func (s *Service) Register(ctx context.Context, username, password, email string) (ulid.ULID, error) {
	if err := ValidateRegistration(username, password, email); err != nil {
		return ulid.ULID{}, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return ulid.ULID{}, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	var id ulid.ULID
	err = s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		id, txErr = s.accounts.CreateUnconfirmed(txCtx, username, email, digest)
		if txErr != nil {
			return txErr
		}

		token, txErr := s.tokens.Issue(txCtx, id)
		if txErr != nil {
			return txErr
		}

		link := fmt.Sprintf("%s/confirm?token=%s", s.confirmURL, token)
		if txErr := s.notifier.Send(ctx, email, link); txErr != nil {
			return oops.Code("ACCOUNT_NOTIFY_FAILED").
				With("operation", "send confirmation mail").
				Wrap(txErr)
		}
		return nil
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return ulid.ULID{}, err
		}
		var validation *ValidationError
		if errors.As(err, &validation) {
			return ulid.ULID{}, err
		}
		return ulid.ULID{}, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("username", username).
			Wrap(err)
	}

	s.logger.Info("account registered", "account_id", id.String(), "username", username)
	return id, nil
}

// Confirm redeems a confirmation token and marks the account confirmed.
// Token deletion and the confirmed flip happen in one transaction, so a
// crash in between can neither leave a confirmed account with a live token
// nor a consumed token with an unconfirmed account.
func (s *Service) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return oops.Code("CONFIRM_TOKEN_INVALID").Wrap(ErrInvalidToken)
	}

	var id ulid.ULID
	err := s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		id, txErr = s.tokens.Redeem(txCtx, token)
		if txErr != nil {
			return txErr
		}
		return s.accounts.MarkConfirmed(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Unknown and already-consumed tokens are indistinguishable here
			// to resist token enumeration.
			return oops.Code("CONFIRM_TOKEN_INVALID").Wrap(ErrInvalidToken)
		}
		return oops.Code("ACCOUNT_CONFIRM_FAILED").Wrap(err)
	}

	s.logger.Info("account confirmed", "account_id", id.String())
	return nil
}

// Login authenticates a confirmed account and returns its ID. The confirmed
// check deliberately precedes password verification, so an unconfirmed
// account always yields ErrNotConfirmed regardless of the password.
func (s *Service) Login(ctx context.Context, username, password string) (ulid.ULID, error) {
	if username == "" {
		return ulid.ULID{}, &ValidationError{Field: "username", Message: "cannot be empty"}
	}
	if password == "" {
		return ulid.ULID{}, &ValidationError{Field: "password", Message: "cannot be empty"}
	}

	acct, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ulid.ULID{}, oops.Code("ACCOUNT_NOT_FOUND").Wrap(ErrNotFound)
		}
		return ulid.ULID{}, oops.Code("ACCOUNT_LOGIN_FAILED").
			With("operation", "get account by username").
			Wrap(err)
	}

	if !acct.Confirmed {
		return ulid.ULID{}, oops.Code("ACCOUNT_NOT_CONFIRMED").Wrap(ErrNotConfirmed)
	}

	ok, err := s.hasher.Verify(password, acct.PasswordHash)
	if err != nil {
		return ulid.ULID{}, oops.Code("ACCOUNT_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}
	if !ok {
		return ulid.ULID{}, oops.Code("ACCOUNT_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	if s.hasher.NeedsRehash(acct.PasswordHash) {
		// Credentials are immutable after creation, so flag the weak digest
		// instead of rewriting it.
		s.logger.Warn("password digest below current cost policy",
			"account_id", acct.ID.String())
	}

	return acct.ID, nil
}
