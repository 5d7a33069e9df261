// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
	"github.com/conquestteam/mmorpg-auth-server/internal/game"
	"github.com/conquestteam/mmorpg-auth-server/pkg/errutil"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // client may disconnect
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeAccountError maps account-service failures to HTTP statuses. Internal
// detail is logged, never surfaced: callers get a generic message for 500s.
func writeAccountError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validation *account.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}

	var conflict *account.ConflictError
	if errors.As(err, &conflict) {
		writeError(w, http.StatusConflict, conflict.Error())
		return
	}

	switch {
	case errors.Is(err, account.ErrInvalidToken):
		// Deliberately uninformative: unknown and already-used tokens read
		// the same.
		writeError(w, http.StatusBadRequest, "invalid confirmation token")
	case errors.Is(err, account.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "user not found")
	case errors.Is(err, account.ErrNotConfirmed):
		writeError(w, http.StatusForbidden, "account not confirmed")
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid password")
	default:
		errutil.LogError(logger, "account request failed", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeGameError maps game-service failures to HTTP statuses.
func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validation *game.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}
	if errors.Is(err, game.ErrNotFound) {
		writeError(w, http.StatusNotFound, "character not found")
		return
	}
	errutil.LogError(logger, "game request failed", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
