// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package game

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service coordinates character persistence and the chat log.
type Service struct {
	characters CharacterRepository
	chat       ChatRepository
}

// NewService creates a game Service.
func NewService(characters CharacterRepository, chat ChatRepository) (*Service, error) {
	if characters == nil {
		return nil, oops.Errorf("character repository is required")
	}
	if chat == nil {
		return nil, oops.Errorf("chat repository is required")
	}
	return &Service{characters: characters, chat: chat}, nil
}

// SaveCharacter validates and upserts the player's character.
func (s *Service) SaveCharacter(ctx context.Context, char *Character) error {
	if err := char.Validate(); err != nil {
		return err
	}
	char.UpdatedAt = time.Now().UTC()
	if err := s.characters.Upsert(ctx, char); err != nil {
		return oops.Code("CHARACTER_SAVE_FAILED").
			With("player_id", char.PlayerID.String()).
			Wrap(err)
	}
	return nil
}

// LoadCharacter retrieves the player's character. Returns ErrNotFound when
// the player has none.
func (s *Service) LoadCharacter(ctx context.Context, playerID ulid.ULID) (*Character, error) {
	char, err := s.characters.GetByPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("CHARACTER_LOAD_FAILED").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return char, nil
}

// PostMessage appends a chat message. The sender display name comes from
// the player's character; a player without one cannot chat (ErrNotFound).
func (s *Service) PostMessage(ctx context.Context, playerID ulid.ULID, text string) (*ChatMessage, error) {
	char, err := s.characters.GetByPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("CHAT_POST_FAILED").
			With("operation", "resolve character").
			With("player_id", playerID.String()).
			Wrap(err)
	}

	msg, err := NewChatMessage(playerID, char.Name, text)
	if err != nil {
		return nil, err
	}
	if err := s.chat.Append(ctx, msg); err != nil {
		return nil, oops.Code("CHAT_POST_FAILED").
			With("operation", "append message").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return msg, nil
}

// RecentMessages returns the latest ChatLogLimit messages, newest first.
func (s *Service) RecentMessages(ctx context.Context) ([]*ChatMessage, error) {
	msgs, err := s.chat.Latest(ctx, ChatLogLimit)
	if err != nil {
		return nil, oops.Code("CHAT_FETCH_FAILED").Wrap(err)
	}
	return msgs, nil
}
