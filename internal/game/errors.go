// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package game holds the character and chat collaborators that share the
// account store's player IDs but carry no account-lifecycle logic.
package game

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested character does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed character/chat field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
