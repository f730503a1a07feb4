// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voteround

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truthbtold/hub/models"
)

var (
	ErrInvalidInput = errors.New("invalid round input")
	ErrNoRound      = errors.New("no vote round exists")
)

// Manager owns the single active voting round. A round's open/closed
// state is never stored; it is derived from closes_at against the
// clock on every read, so the manager needs no background timer and
// survives process restarts without repair work.
type Manager struct {
	db *sql.DB

	// Now is the clock. Tests replace it to drive rounds past their
	// deadline without sleeping.
	Now func() time.Time
}

func New(database *sql.DB) *Manager {
	return &Manager{db: database, Now: time.Now}
}

// StatusAt derives a round's state at the given instant. Pure function.
func StatusAt(round models.VoteRound, now time.Time) string {
	if now.Before(round.ClosesAt) {
		return models.RoundStatusOpen
	}
	return models.RoundStatusClosed
}

// RemainingTime reports how long the round stays open from now,
// clamped at zero. Pure function; zero means closed.
func RemainingTime(round models.VoteRound, now time.Time) time.Duration {
	remaining := round.ClosesAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OpenRound starts a new round with the given options, closing after
// the given duration. Any currently open round is closed first; its
// ballots stay attached to its id and never leak into the new tally.
func (m *Manager) OpenRound(ctx context.Context, options []string, duration time.Duration) (models.VoteRound, error) {
	cleaned, err := cleanOptions(options)
	if err != nil {
		return models.VoteRound{}, err
	}
	if duration <= 0 {
		return models.VoteRound{}, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	optionsJSON, err := json.Marshal(cleaned)
	if err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to encode options: %w", err)
	}

	now := m.Now().UTC()
	round := models.VoteRound{
		ID:       uuid.NewString(),
		Options:  cleaned,
		OpenedAt: now,
		ClosesAt: now.Add(duration),
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Supersede the prior round, if one is still open.
	_, err = tx.ExecContext(ctx,
		`UPDATE vote_round SET closes_at = $1 WHERE closes_at > $2`, now, now)
	if err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to close prior round: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_round (id, options, opened_at, closes_at)
		VALUES ($1, $2, $3, $4)
	`, round.ID, string(optionsJSON), round.OpenedAt, round.ClosesAt)
	if err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to insert round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to commit round: %w", err)
	}

	return round, nil
}

// CloseRoundNow ends the open round immediately by moving its deadline
// to now. Idempotent: closing when nothing is open is a no-op.
func (m *Manager) CloseRoundNow(ctx context.Context) error {
	now := m.Now().UTC()
	_, err := m.db.ExecContext(ctx,
		`UPDATE vote_round SET closes_at = $1 WHERE closes_at > $2`, now, now)
	if err != nil {
		return fmt.Errorf("failed to close round: %w", err)
	}
	return nil
}

// CurrentRound returns the most recently opened round. Callers derive
// its state with StatusAt/RemainingTime; ErrNoRound means no round has
// ever been opened.
func (m *Manager) CurrentRound(ctx context.Context) (models.VoteRound, error) {
	return m.scanRound(m.db.QueryRowContext(ctx, `
		SELECT id, options, opened_at, closes_at
		FROM vote_round ORDER BY opened_at DESC LIMIT 1
	`))
}

func (m *Manager) FindByID(ctx context.Context, id string) (models.VoteRound, error) {
	return m.scanRound(m.db.QueryRowContext(ctx, `
		SELECT id, options, opened_at, closes_at
		FROM vote_round WHERE id = $1
	`, id))
}

func (m *Manager) scanRound(row *sql.Row) (models.VoteRound, error) {
	var round models.VoteRound
	var optionsJSON string
	err := row.Scan(&round.ID, &optionsJSON, &round.OpenedAt, &round.ClosesAt)
	if err == sql.ErrNoRows {
		return models.VoteRound{}, ErrNoRound
	}
	if err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to scan round: %w", err)
	}
	if err := json.Unmarshal([]byte(optionsJSON), &round.Options); err != nil {
		return models.VoteRound{}, fmt.Errorf("failed to decode options: %w", err)
	}
	return round, nil
}

// cleanOptions trims labels and enforces at least two distinct
// non-empty entries, preserving order.
func cleanOptions(options []string) ([]string, error) {
	seen := make(map[string]bool, len(options))
	cleaned := make([]string, 0, len(options))
	for _, label := range options {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("%w: option labels must be non-empty", ErrInvalidInput)
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrInvalidInput, label)
		}
		seen[label] = true
		cleaned = append(cleaned, label)
	}
	if len(cleaned) < 2 {
		return nil, fmt.Errorf("%w: at least 2 options required", ErrInvalidInput)
	}
	return cleaned, nil
}
