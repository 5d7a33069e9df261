// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package postgres provides PostgreSQL implementations of the game
// package's repositories.
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

	"github.com/conquestteam/mmorpg-auth-server/internal/game"
)

// DB is the subset of *pgxpool.Pool the repositories need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CharacterRepository implements game.CharacterRepository using PostgreSQL.
type CharacterRepository struct {
	db DB
}

// NewCharacterRepository creates a new CharacterRepository.
func NewCharacterRepository(db DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Upsert inserts or fully replaces the player's character row.
func (r *CharacterRepository) Upsert(ctx context.Context, char *game.Character) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO characters (player_id, name, class, level, pos_x, pos_y, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO UPDATE SET
			name = EXCLUDED.name,
			class = EXCLUDED.class,
			level = EXCLUDED.level,
			pos_x = EXCLUDED.pos_x,
			pos_y = EXCLUDED.pos_y,
			updated_at = EXCLUDED.updated_at
	`, char.PlayerID.String(), char.Name, char.Class, char.Level, char.PosX, char.PosY, char.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			// No account with this player ID.
			return oops.Code("CHARACTER_UNKNOWN_PLAYER").
				With("player_id", char.PlayerID.String()).
				Wrap(game.ErrNotFound)
		}
		return oops.Code("CHARACTER_UPSERT_FAILED").
			With("operation", "upsert character").
			With("player_id", char.PlayerID.String()).
			Wrap(err)
	}
	return nil
}

// GetByPlayer retrieves the player's character.
func (r *CharacterRepository) GetByPlayer(ctx context.Context, playerID ulid.ULID) (*game.Character, error) {
	row := r.db.QueryRow(ctx, `
		SELECT player_id, name, class, level, pos_x, pos_y, updated_at
		FROM characters
		WHERE player_id = $1
	`, playerID.String())

	var (
		idStr     string
		char      game.Character
		updatedAt time.Time
	)
	err := row.Scan(&idStr, &char.Name, &char.Class, &char.Level, &char.PosX, &char.PosY, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CHARACTER_NOT_FOUND").
			With("player_id", playerID.String()).
			Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CHARACTER_GET_FAILED").
			With("operation", "get character by player").
			With("player_id", playerID.String()).
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CHARACTER_INVALID_PLAYER_ID").
			With("player_id", idStr).
			Wrap(err)
	}
	char.PlayerID = id
	char.UpdatedAt = updatedAt
	return &char, nil
}

// Compile-time interface check.
var _ game.CharacterRepository = (*CharacterRepository)(nil)
