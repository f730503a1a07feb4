// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/truthbtold/hub/ballot"
	"github.com/truthbtold/hub/cliparse"
	"github.com/truthbtold/hub/middleware"
	"github.com/truthbtold/hub/models"
	"github.com/truthbtold/hub/registry"
	"github.com/truthbtold/hub/voteround"
)

type BallotHandler struct {
	db     *sql.DB
	reg    *registry.Registry
	rounds *voteround.Manager
	ledger *ballot.Ledger
	cfg    cliparse.Config
}

func NewBallotHandler(db *sql.DB, reg *registry.Registry, rounds *voteround.Manager, ledger *ballot.Ledger, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{db: db, reg: reg, rounds: rounds, ledger: ledger, cfg: cfg}
}

// Cast handles POST /rounds/current/ballots
// One ballot per member per round; the ledger rejects the loser of a
// double-cast race with AlreadyVoted.
func (h *BallotHandler) Cast(w http.ResponseWriter, r *http.Request) {
	member, err := memberFromRequest(h.db, h.reg, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Option == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is required")
		return
	}

	cast, err := h.ledger.CastBallot(r.Context(), member.ID, req.Option)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("ballot cast",
		"round_id", cast.RoundID,
		"ballot_id", cast.ID,
		"member_id", member.ID,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastBallotResponse{
		BallotID: cast.ID,
		Option:   cast.Option,
	})
}

// MyBallot handles GET /rounds/current/my-ballot
func (h *BallotHandler) MyBallot(w http.ResponseWriter, r *http.Request) {
	member, err := memberFromRequest(h.db, h.reg, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	round, err := h.rounds.CurrentRound(r.Context())
	if errors.Is(err, voteround.ErrNoRound) {
		middleware.JSONResponse(w, http.StatusOK, models.MyBallotResponse{HasVoted: false})
		return
	}
	if err != nil {
		slog.Error("failed to load current round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	cast, err := h.ledger.FindForMember(r.Context(), member.ID, round.ID)
	if errors.Is(err, ballot.ErrNoBallot) {
		middleware.JSONResponse(w, http.StatusOK, models.MyBallotResponse{HasVoted: false})
		return
	}
	if err != nil {
		slog.Error("failed to load ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyBallotResponse{
		HasVoted: true,
		Option:   cast.Option,
	})
}

// Activity handles GET /activity
// Recent ballots for the current round, newest first, with the voter
// names snapshotted at cast time.
func (h *BallotHandler) Activity(w http.ResponseWriter, r *http.Request) {
	round, err := h.rounds.CurrentRound(r.Context())
	if errors.Is(err, voteround.ErrNoRound) {
		middleware.JSONResponse(w, http.StatusOK, []models.Ballot{})
		return
	}
	if err != nil {
		slog.Error("failed to load current round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ballots, err := h.ledger.ListByRound(r.Context(), round.ID)
	if err != nil {
		slog.Error("failed to list ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballots)
}
