// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/truthbtold/hub/ballot"
	"github.com/truthbtold/hub/cliparse"
	"github.com/truthbtold/hub/middleware"
	"github.com/truthbtold/hub/models"
	"github.com/truthbtold/hub/registry"
	"github.com/truthbtold/hub/voteround"
)

type RoundHandler struct {
	db     *sql.DB
	reg    *registry.Registry
	rounds *voteround.Manager
	ledger *ballot.Ledger
	cfg    cliparse.Config
}

func NewRoundHandler(db *sql.DB, reg *registry.Registry, rounds *voteround.Manager, ledger *ballot.Ledger, cfg cliparse.Config) *RoundHandler {
	return &RoundHandler{db: db, reg: reg, rounds: rounds, ledger: ledger, cfg: cfg}
}

// requireAdmin resolves the session and rejects anyone who is not the
// configured admin account. Returns the member and true on success.
func (h *RoundHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (models.Member, bool) {
	member, err := memberFromRequest(h.db, h.reg, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return models.Member{}, false
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Member{}, false
	}
	if member.Email != registry.NormalizeEmail(h.cfg.AdminEmail) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return models.Member{}, false
	}
	return member, true
}

// Current handles GET /rounds/current
// Status and remaining time are recomputed from the stored deadline on
// every read; the client polls this to drive its countdown.
func (h *RoundHandler) Current(w http.ResponseWriter, r *http.Request) {
	round, err := h.rounds.CurrentRound(r.Context())
	if errors.Is(err, voteround.ErrNoRound) {
		middleware.JSONResponse(w, http.StatusOK, models.RoundStatusResponse{
			Status: models.RoundStatusNone,
		})
		return
	}
	if err != nil {
		slog.Error("failed to load current round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.rounds.Now().UTC()
	middleware.JSONResponse(w, http.StatusOK, models.RoundStatusResponse{
		Round:            &round,
		Status:           voteround.StatusAt(round, now),
		RemainingSeconds: int64(voteround.RemainingTime(round, now) / time.Second),
	})
}

// Open handles POST /rounds (admin only)
// Opens a new round with the given options, defaulting to the standard
// feature slate, for the requested number of hours.
func (h *RoundHandler) Open(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req models.OpenRoundRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	options := req.Options
	if len(options) == 0 {
		options = models.DefaultOptions
	}

	duration := time.Duration(req.Hours * float64(time.Hour))
	round, err := h.rounds.OpenRound(r.Context(), options, duration)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("round opened",
		"round_id", round.ID,
		"options", len(round.Options),
		"closes_at", round.ClosesAt,
		"admin", admin.ID,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.RoundStatusResponse{
		Round:            &round,
		Status:           models.RoundStatusOpen,
		RemainingSeconds: int64(duration / time.Second),
	})
}

// Close handles POST /rounds/current/close (admin only)
// Idempotent: closing an already-closed round reports the same state.
func (h *RoundHandler) Close(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	if err := h.rounds.CloseRoundNow(r.Context()); err != nil {
		slog.Error("failed to close round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close round")
		return
	}

	slog.Info("round closed early", "admin", admin.ID)

	round, err := h.rounds.CurrentRound(r.Context())
	if errors.Is(err, voteround.ErrNoRound) {
		middleware.JSONResponse(w, http.StatusOK, models.RoundStatusResponse{
			Status: models.RoundStatusNone,
		})
		return
	}
	if err != nil {
		slog.Error("failed to load current round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoundStatusResponse{
		Round:  &round,
		Status: models.RoundStatusClosed,
	})
}

// Tally handles GET /rounds/{id}/tally
// Counts are grouped by option with every option present, zeros
// included, so a fresh round reports its full slate.
func (h *RoundHandler) Tally(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	round, err := h.rounds.FindByID(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	counts, err := h.ledger.Tally(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		RoundID: round.ID,
		Status:  voteround.StatusAt(round, h.rounds.Now().UTC()),
		Counts:  counts,
		Total:   total,
	})
}
