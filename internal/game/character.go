// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package game

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Character is the single game character persisted per player. It is keyed
// by the owning account's ID; saving again overwrites the previous state.
type Character struct {
	PlayerID  ulid.ULID
	Name      string
	Class     string
	Level     int
	PosX      int
	PosY      int
	UpdatedAt time.Time
}

// Validate checks that every character field is present. The character
// endpoint requires a full snapshot on every save.
func (c *Character) Validate() error {
	if c.PlayerID.Compare(ulid.ULID{}) == 0 {
		return &ValidationError{Field: "player_id", Message: "cannot be zero"}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if c.Class == "" {
		return &ValidationError{Field: "class", Message: "cannot be empty"}
	}
	if c.Level < 1 {
		return &ValidationError{Field: "level", Message: "must be at least 1"}
	}
	return nil
}

// CharacterRepository persists one character per player.
type CharacterRepository interface {
	// Upsert inserts or fully replaces the player's character.
	Upsert(ctx context.Context, char *Character) error

	// GetByPlayer retrieves the player's character. Returns ErrNotFound
	// when the player has none.
	GetByPlayer(ctx context.Context, playerID ulid.ULID) (*Character, error)
}
