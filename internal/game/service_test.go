// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCharacters is an in-memory CharacterRepository.
type memCharacters struct {
	mu    sync.Mutex
	chars map[ulid.ULID]Character

	upsertErr error
}

func newMemCharacters() *memCharacters {
	return &memCharacters{chars: make(map[ulid.ULID]Character)}
}

func (m *memCharacters) Upsert(_ context.Context, char *Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.chars[char.PlayerID] = *char
	return nil
}

func (m *memCharacters) GetByPlayer(_ context.Context, playerID ulid.ULID) (*Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chars[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	return &cp, nil
}

// memChat is an in-memory ChatRepository keeping messages newest first.
type memChat struct {
	mu   sync.Mutex
	msgs []*ChatMessage

	appendErr error
}

func (m *memChat) Append(_ context.Context, msg *ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.msgs = append([]*ChatMessage{msg}, m.msgs...)
	return nil
}

func (m *memChat) Latest(_ context.Context, limit int) ([]*ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.msgs) {
		limit = len(m.msgs)
	}
	out := make([]*ChatMessage, limit)
	copy(out, m.msgs[:limit])
	return out, nil
}

func newGameService(t *testing.T) (*Service, *memCharacters, *memChat) {
	t.Helper()
	chars := newMemCharacters()
	chat := &memChat{}
	svc, err := NewService(chars, chat)
	require.NoError(t, err)
	return svc, chars, chat
}

func TestService_SaveAndLoadCharacter(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	playerID := ulid.Make()

	char := &Character{PlayerID: playerID, Name: "Thorn", Class: "warrior", Level: 3, PosX: 10, PosY: -4}
	require.NoError(t, svc.SaveCharacter(ctx, char))
	assert.False(t, char.UpdatedAt.IsZero(), "save should stamp UpdatedAt")

	got, err := svc.LoadCharacter(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, "Thorn", got.Name)
	assert.Equal(t, 3, got.Level)

	// Second save replaces the first snapshot entirely.
	char2 := &Character{PlayerID: playerID, Name: "Thorn", Class: "warrior", Level: 4, PosX: 0, PosY: 0}
	require.NoError(t, svc.SaveCharacter(ctx, char2))

	got, err = svc.LoadCharacter(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Level)
	assert.Equal(t, 0, got.PosX)
}

func TestService_SaveCharacter_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	playerID := ulid.Make()

	tests := []struct {
		name      string
		char      *Character
		wantField string
	}{
		{name: "zero player id", char: &Character{Name: "x", Class: "mage", Level: 1}, wantField: "player_id"},
		{name: "empty name", char: &Character{PlayerID: playerID, Class: "mage", Level: 1}, wantField: "name"},
		{name: "empty class", char: &Character{PlayerID: playerID, Name: "x", Level: 1}, wantField: "class"},
		{name: "level zero", char: &Character{PlayerID: playerID, Name: "x", Class: "mage"}, wantField: "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveCharacter(ctx, tt.char)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.wantField, validation.Field)
		})
	}
}

func TestService_LoadCharacter_NotFound(t *testing.T) {
	svc, _, _ := newGameService(t)

	_, err := svc.LoadCharacter(context.Background(), ulid.Make())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_PostMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the character name as sender", func(t *testing.T) {
		svc, _, _ := newGameService(t)
		playerID := ulid.Make()
		require.NoError(t, svc.SaveCharacter(ctx, &Character{
			PlayerID: playerID, Name: "Thorn", Class: "warrior", Level: 1,
		}))

		msg, err := svc.PostMessage(ctx, playerID, "hello world")
		require.NoError(t, err)

		assert.Equal(t, "Thorn", msg.Sender)
		assert.Equal(t, "hello world", msg.Text)
		assert.Equal(t, playerID, msg.PlayerID)
	})

	t.Run("player without a character cannot chat", func(t *testing.T) {
		svc, _, _ := newGameService(t)

		_, err := svc.PostMessage(ctx, ulid.Make(), "hi")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		svc, _, _ := newGameService(t)
		playerID := ulid.Make()
		require.NoError(t, svc.SaveCharacter(ctx, &Character{
			PlayerID: playerID, Name: "Thorn", Class: "warrior", Level: 1,
		}))

		_, err := svc.PostMessage(ctx, playerID, "")
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "text", validation.Field)
	})

	t.Run("append failure is wrapped", func(t *testing.T) {
		svc, _, chat := newGameService(t)
		playerID := ulid.Make()
		require.NoError(t, svc.SaveCharacter(ctx, &Character{
			PlayerID: playerID, Name: "Thorn", Class: "warrior", Level: 1,
		}))
		chat.appendErr = errors.New("disk full")

		_, err := svc.PostMessage(ctx, playerID, "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestService_RecentMessages_CapsAtLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	playerID := ulid.Make()
	require.NoError(t, svc.SaveCharacter(ctx, &Character{
		PlayerID: playerID, Name: "Thorn", Class: "warrior", Level: 1,
	}))

	for i := 0; i < ChatLogLimit+10; i++ {
		_, err := svc.PostMessage(ctx, playerID, "msg")
		require.NoError(t, err)
	}

	msgs, err := svc.RecentMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, ChatLogLimit)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := NewService(nil, &memChat{})
	assert.Error(t, err)

	_, err = NewService(newMemCharacters(), nil)
	assert.Error(t, err)
}
