// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("account not found")

// ErrNotConfirmed is returned on login against an account whose email
// has not been confirmed yet. It takes precedence over the password check.
var ErrNotConfirmed = errors.New("account not confirmed")

// ErrInvalidCredentials is returned on login when the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a confirmation token is unknown, malformed
// or already consumed. The three cases are deliberately indistinguishable so
// callers cannot probe which tokens ever existed.
var ErrInvalidToken = errors.New("invalid confirmation token")

// ConflictField names the uniqueness constraint a registration collided with.
type ConflictField string

// Known conflict fields. ConflictUnknown is used when the store cannot name
// the violated constraint.
const (
	ConflictUsername ConflictField = "username"
	ConflictEmail    ConflictField = "email"
	ConflictUnknown  ConflictField = "unknown"
)

// ConflictError reports a username or email uniqueness violation.
type ConflictError struct {
	Field ConflictField
}

func (e *ConflictError) Error() string {
	if e.Field == ConflictUnknown {
		return "account already exists"
	}
	return fmt.Sprintf("%s is already taken", e.Field)
}

// ValidationError reports a malformed or missing registration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
