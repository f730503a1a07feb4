// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/truthbtold/hub/db"
	"github.com/truthbtold/hub/models"
	"github.com/truthbtold/hub/registry"
	"github.com/truthbtold/hub/voteround"
)

var (
	ErrNoOpenRound   = errors.New("no open vote round")
	ErrInvalidOption = errors.New("option not in round")
	ErrUnknownMember = errors.New("unknown member")
	ErrAlreadyVoted  = errors.New("member already voted in round")
	ErrNoBallot      = errors.New("no ballot cast")
)

// Ledger enforces at-most-one ballot per member per round and tallies
// counts on demand. It consults the registry for voter identity and
// the round manager for round state before accepting a ballot.
type Ledger struct {
	db      *sql.DB
	members *registry.Registry
	rounds  *voteround.Manager
}

func New(database *sql.DB, members *registry.Registry, rounds *voteround.Manager) *Ledger {
	return &Ledger{db: database, members: members, rounds: rounds}
}

// CastBallot records one ballot for the member in the currently open
// round. Preconditions are checked in order: round open, option valid,
// member known. The one-ballot invariant itself is not checked by a
// read; the UNIQUE (round_id, member_id) constraint decides the race,
// so two concurrent casts by the same member yield exactly one ballot
// and one ErrAlreadyVoted.
func (l *Ledger) CastBallot(ctx context.Context, memberID, option string) (models.Ballot, error) {
	round, err := l.rounds.CurrentRound(ctx)
	if errors.Is(err, voteround.ErrNoRound) {
		return models.Ballot{}, ErrNoOpenRound
	}
	if err != nil {
		return models.Ballot{}, err
	}

	now := l.rounds.Now().UTC()
	if voteround.StatusAt(round, now) != models.RoundStatusOpen {
		return models.Ballot{}, ErrNoOpenRound
	}

	if !optionInRound(round, option) {
		return models.Ballot{}, fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}

	member, err := l.members.FindByID(ctx, memberID)
	if errors.Is(err, registry.ErrNotFound) {
		return models.Ballot{}, ErrUnknownMember
	}
	if err != nil {
		return models.Ballot{}, err
	}

	b := models.Ballot{
		ID:         uuid.NewString(),
		RoundID:    round.ID,
		MemberID:   member.ID,
		MemberName: member.DisplayName,
		Option:     option,
		CastAt:     now,
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO ballot (id, round_id, member_id, member_name, option_label, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.RoundID, b.MemberID, b.MemberName, b.Option, b.CastAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Ballot{}, ErrAlreadyVoted
		}
		return models.Ballot{}, fmt.Errorf("failed to insert ballot: %w", err)
	}

	return b, nil
}

// Tally counts ballots per option for the round. Every option in the
// round's list is present in the result, at zero if nobody picked it.
// Counting never resolves member_id, so orphaned ballots tally fine.
func (l *Ledger) Tally(ctx context.Context, roundID string) (map[string]int, error) {
	round, err := l.rounds.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(round.Options))
	for _, option := range round.Options {
		counts[option] = 0
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT option_label, COUNT(*) FROM ballot
		WHERE round_id = $1 GROUP BY option_label
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally ballots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var option string
		var count int
		if err := rows.Scan(&option, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tally row: %w", err)
		}
		counts[option] = count
	}
	return counts, rows.Err()
}

// HasVoted reports whether the member has a ballot in the round.
func (l *Ledger) HasVoted(ctx context.Context, memberID, roundID string) (bool, error) {
	var voted bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM ballot WHERE round_id = $1 AND member_id = $2)
	`, roundID, memberID).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("failed to check ballot: %w", err)
	}
	return voted, nil
}

// FindForMember returns the member's ballot in the round, or
// ErrNoBallot if they have not voted.
func (l *Ledger) FindForMember(ctx context.Context, memberID, roundID string) (models.Ballot, error) {
	var b models.Ballot
	err := l.db.QueryRowContext(ctx, `
		SELECT id, round_id, member_id, member_name, option_label, cast_at
		FROM ballot WHERE round_id = $1 AND member_id = $2
	`, roundID, memberID).Scan(&b.ID, &b.RoundID, &b.MemberID, &b.MemberName, &b.Option, &b.CastAt)
	if err == sql.ErrNoRows {
		return models.Ballot{}, ErrNoBallot
	}
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to scan ballot: %w", err)
	}
	return b, nil
}

// ListByRound returns the round's ballots newest-first, for the
// activity feed.
func (l *Ledger) ListByRound(ctx context.Context, roundID string) ([]models.Ballot, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, round_id, member_id, member_name, option_label, cast_at
		FROM ballot WHERE round_id = $1 ORDER BY cast_at DESC, id
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		if err := rows.Scan(&b.ID, &b.RoundID, &b.MemberID, &b.MemberName, &b.Option, &b.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

func optionInRound(round models.VoteRound, option string) bool {
	for _, label := range round.Options {
		if label == option {
			return true
		}
	}
	return false
}
