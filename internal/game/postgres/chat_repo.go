// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package postgres

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/conquestteam/mmorpg-auth-server/internal/game"
)

// ChatRepository implements game.ChatRepository using PostgreSQL.
type ChatRepository struct {
	db DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Append persists a chat message.
func (r *ChatRepository) Append(ctx context.Context, msg *game.ChatMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chat_messages (id, player_id, sender, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID.String(), msg.PlayerID.String(), msg.Sender, msg.Text, msg.CreatedAt)
	if err != nil {
		return oops.Code("CHAT_APPEND_FAILED").
			With("operation", "insert chat message").
			With("player_id", msg.PlayerID.String()).
			Wrap(err)
	}
	return nil
}

// Latest returns up to limit messages, newest first. ULIDs sort
// lexicographically by creation time, so ordering by id is ordering by age.
func (r *ChatRepository) Latest(ctx context.Context, limit int) ([]*game.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player_id, sender, text, created_at
		FROM chat_messages
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("CHAT_QUERY_FAILED").
			With("operation", "query latest messages").
			Wrap(err)
	}
	defer rows.Close()

	var msgs []*game.ChatMessage
	for rows.Next() {
		var (
			idStr       string
			playerIDStr string
			msg         game.ChatMessage
			createdAt   time.Time
		)
		if err := rows.Scan(&idStr, &playerIDStr, &msg.Sender, &msg.Text, &createdAt); err != nil {
			return nil, oops.Code("CHAT_SCAN_FAILED").
				With("operation", "scan chat message").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("CHAT_INVALID_ID").With("id", idStr).Wrap(err)
		}
		playerID, err := ulid.Parse(playerIDStr)
		if err != nil {
			return nil, oops.Code("CHAT_INVALID_PLAYER_ID").With("player_id", playerIDStr).Wrap(err)
		}
		msg.ID = id
		msg.PlayerID = playerID
		msg.CreatedAt = createdAt
		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CHAT_QUERY_FAILED").
			With("operation", "iterate chat messages").
			Wrap(err)
	}
	return msgs, nil
}

// Compile-time interface check.
var _ game.ChatRepository = (*ChatRepository)(nil)
