// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/truthbtold/hub/cliparse"
	"github.com/truthbtold/hub/middleware"
	"github.com/truthbtold/hub/models"
	"github.com/truthbtold/hub/registry"
)

type MemberHandler struct {
	db  *sql.DB
	reg *registry.Registry
	cfg cliparse.Config
}

func NewMemberHandler(db *sql.DB, reg *registry.Registry, cfg cliparse.Config) *MemberHandler {
	return &MemberHandler{db: db, reg: reg, cfg: cfg}
}

// Register handles POST /members
// Creates the member, assigns the next signup ordinal and tier, and
// signs the new member in.
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.reg.Register(r.Context(), req.DisplayName, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := createSession(r.Context(), h.db, member.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("member registered",
		"member_id", member.ID,
		"ordinal", member.SignupOrdinal,
		"tier", member.Tier.Name,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		SessionToken: token,
		Member:       member,
	})
}

// SignIn handles POST /sessions
func (h *MemberHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.reg.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := createSession(r.Context(), h.db, member.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("member signed in", "member_id", member.ID)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		SessionToken: token,
		Member:       member,
	})
}

// List handles GET /members
// Returns the member directory in ascending signup order.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.reg.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list members", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}

// GetMe handles GET /members/me
func (h *MemberHandler) GetMe(w http.ResponseWriter, r *http.Request) {
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

	middleware.JSONResponse(w, http.StatusOK, member)
}

// UpdateMe handles PUT /members/me
// Only the display name is mutable; ordinal, tier and email are not.
func (h *MemberHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.reg.UpdateDisplayName(r.Context(), member.ID, req.DisplayName); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.reg.FindByID(r.Context(), member.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("profile updated", "member_id", member.ID)

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// UpdateCredential handles PUT /members/me/credential
func (h *MemberHandler) UpdateCredential(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateCredentialRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.reg.UpdateCredential(r.Context(), member.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("credential updated", "member_id", member.ID)

	w.WriteHeader(http.StatusNoContent)
}
