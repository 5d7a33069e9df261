// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/conquestteam/mmorpg-auth-server/internal/game"
)

// GameService is the character/chat surface the handlers need.
// Implemented by *game.Service.
type GameService interface {
	SaveCharacter(ctx context.Context, char *game.Character) error
	LoadCharacter(ctx context.Context, playerID ulid.ULID) (*game.Character, error)
	PostMessage(ctx context.Context, playerID ulid.ULID, text string) (*game.ChatMessage, error)
	RecentMessages(ctx context.Context) ([]*game.ChatMessage, error)
}

type characterPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Level    int    `json:"level"`
	PosX     int    `json:"x"`
	PosY     int    `json:"y"`
}

type chatPostRequest struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}

type chatMessagePayload struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleSaveCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	playerID, err := ulid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}

	char := &game.Character{
		PlayerID: playerID,
		Name:     req.Name,
		Class:    req.Class,
		Level:    req.Level,
		PosX:     req.PosX,
		PosY:     req.PosY,
	}
	if err := s.game.SaveCharacter(r.Context(), char); err != nil {
		writeGameError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Character saved"})
}

func (s *Server) handleLoadCharacter(w http.ResponseWriter, r *http.Request) {
	playerID, err := ulid.Parse(r.URL.Query().Get("player_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}

	char, err := s.game.LoadCharacter(r.Context(), playerID)
	if err != nil {
		writeGameError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, characterPayload{
		PlayerID: char.PlayerID.String(),
		Name:     char.Name,
		Class:    char.Class,
		Level:    char.Level,
		PosX:     char.PosX,
		PosY:     char.PosY,
	})
}

func (s *Server) handlePostChat(w http.ResponseWriter, r *http.Request) {
	var req chatPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	playerID, err := ulid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}

	if _, err := s.game.PostMessage(r.Context(), playerID, req.Text); err != nil {
		writeGameError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Message sent"})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.game.RecentMessages(r.Context())
	if err != nil {
		writeGameError(w, s.logger, err)
		return
	}

	// Always respond with a JSON array, even when the log is empty.
	out := make([]chatMessagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatMessagePayload{
			Sender:    m.Sender,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
