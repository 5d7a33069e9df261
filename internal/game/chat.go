// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package game

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// ChatLogLimit is how many messages a poll returns, newest first.
const ChatLogLimit = 50

// ChatMessage is one entry in the rolling chat log. Sender is the display
// name of the author's character at the time of posting.
type ChatMessage struct {
	ID        ulid.ULID
	PlayerID  ulid.ULID
	Sender    string
	Text      string
	CreatedAt time.Time
}

// NewChatMessage creates a validated ChatMessage.
func NewChatMessage(playerID ulid.ULID, sender, text string) (*ChatMessage, error) {
	if playerID.Compare(ulid.ULID{}) == 0 {
		return nil, &ValidationError{Field: "player_id", Message: "cannot be zero"}
	}
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return &ChatMessage{
		ID:        ulid.Make(),
		PlayerID:  playerID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ChatRepository appends to and reads the rolling chat log.
type ChatRepository interface {
	// Append persists a message.
	Append(ctx context.Context, msg *ChatMessage) error

	// Latest returns up to limit messages, newest first.
	Latest(ctx context.Context, limit int) ([]*ChatMessage, error)
}
