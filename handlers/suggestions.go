// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truthbtold/hub/cliparse"
	"github.com/truthbtold/hub/middleware"
	"github.com/truthbtold/hub/models"
	"github.com/truthbtold/hub/registry"
)

const maxSuggestionLength = 2000

type SuggestionHandler struct {
	db  *sql.DB
	reg *registry.Registry
	cfg cliparse.Config
}

func NewSuggestionHandler(db *sql.DB, reg *registry.Registry, cfg cliparse.Config) *SuggestionHandler {
	return &SuggestionHandler{db: db, reg: reg, cfg: cfg}
}

// Submit handles POST /suggestions
func (h *SuggestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req models.SubmitSuggestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "suggestion body is required")
		return
	}
	if len(body) > maxSuggestionLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "suggestion is too long")
		return
	}

	suggestionID := uuid.NewString()
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO suggestion (id, member_id, member_name, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, suggestionID, member.ID, member.DisplayName, body, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert suggestion", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit suggestion")
		return
	}

	slog.Info("suggestion submitted", "suggestion_id", suggestionID, "member_id", member.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitSuggestionResponse{
		SuggestionID: suggestionID,
	})
}

// List handles GET /suggestions (admin only)
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
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
	if member.Email != registry.NormalizeEmail(h.cfg.AdminEmail) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, member_id, member_name, body, created_at
		FROM suggestion ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query suggestions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	suggestions := []models.Suggestion{}
	for rows.Next() {
		var s models.Suggestion
		if err := rows.Scan(&s.ID, &s.MemberID, &s.MemberName, &s.Body, &s.CreatedAt); err != nil {
			slog.Error("failed to scan suggestion", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		suggestions = append(suggestions, s)
	}

	middleware.JSONResponse(w, http.StatusOK, suggestions)
}
