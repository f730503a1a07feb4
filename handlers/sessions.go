// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/truthbtold/hub/auth"
	"github.com/truthbtold/hub/models"
	"github.com/truthbtold/hub/registry"
)

// SessionHeader carries the bearer token issued at signup or sign-in.
const SessionHeader = "X-Session-Token"

var errNoSession = errors.New("no valid session")

// createSession issues a bearer token for the member and stores it.
func createSession(ctx context.Context, db *sql.DB, memberID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO session (token, member_id, created_at)
		VALUES ($1, $2, $3)
	`, token, memberID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// memberFromRequest resolves the X-Session-Token header to a member.
// Returns errNoSession when the header is missing or unknown.
func memberFromRequest(db *sql.DB, reg *registry.Registry, r *http.Request) (models.Member, error) {
	token := r.Header.Get(SessionHeader)
	if token == "" {
		return models.Member{}, errNoSession
	}

	var memberID string
	err := db.QueryRowContext(r.Context(),
		`SELECT member_id FROM session WHERE token = $1`, token).Scan(&memberID)
	if err == sql.ErrNoRows {
		return models.Member{}, errNoSession
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to look up session: %w", err)
	}

	member, err := reg.FindByID(r.Context(), memberID)
	if errors.Is(err, registry.ErrNotFound) {
		// Member deleted out from under the session.
		return models.Member{}, errNoSession
	}
	return member, err
}
