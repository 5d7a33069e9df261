// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/conquestteam/mmorpg-auth-server/internal/observability"
)

// AccountService is the account-lifecycle surface the handlers need.
// Implemented by *account.Service.
type AccountService interface {
	Register(ctx context.Context, username, password, email string) (ulid.ULID, error)
	Confirm(ctx context.Context, token string) error
	Login(ctx context.Context, username, password string) (ulid.ULID, error)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	PlayerID string `json:"player_id"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := s.accounts.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		observability.RecordRegistration("error")
		writeAccountError(w, s.logger, err)
		return
	}

	observability.RecordRegistration("ok")
	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		UserID:  id.String(),
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := s.accounts.Confirm(r.Context(), token); err != nil {
		observability.RecordConfirmation("error")
		writeAccountError(w, s.logger, err)
		return
	}

	observability.RecordConfirmation("ok")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Account confirmed. You can now log in.\n")) //nolint:errcheck
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		observability.RecordLogin("error")
		writeAccountError(w, s.logger, err)
		return
	}

	observability.RecordLogin("ok")
	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		PlayerID: id.String(),
	})
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong")) //nolint:errcheck
}
