// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/truthbtold/hub/ballot"
	"github.com/truthbtold/hub/middleware"
	"github.com/truthbtold/hub/registry"
	"github.com/truthbtold/hub/voteround"
)

// writeDomainError maps component errors onto HTTP statuses. Permanent
// rejections get plain errors; a lost write race is flagged retryable
// so clients can re-submit silently.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidInput), errors.Is(err, voteround.ErrInvalidInput):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ballot.ErrInvalidOption):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option is not part of the current round")
	case errors.Is(err, registry.ErrDuplicateEmail):
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, ballot.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this round")
	case errors.Is(err, ballot.ErrNoOpenRound):
		middleware.ErrorResponse(w, http.StatusConflict, "No vote is open right now")
	case errors.Is(err, registry.ErrConflict):
		middleware.RetryableResponse(w, http.StatusConflict, "Signup contention, please retry")
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, ballot.ErrUnknownMember):
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
	case errors.Is(err, voteround.ErrNoRound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Round not found")
	case errors.Is(err, registry.ErrCredentialMismatch):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		slog.Error("unhandled domain error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
