// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truthbtold/hub/db"
	"github.com/truthbtold/hub/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("member not found")
	ErrCredentialMismatch = errors.New("credential mismatch")
	ErrConflict           = errors.New("registration conflict")
)

// errUniqueViolation marks a constraint rejection inside tryRegister so
// Register can tell a duplicate email from a lost ordinal race after
// the transaction has been released.
var errUniqueViolation = errors.New("unique constraint rejected insert")

// registerAttempts bounds the ordinal retry loop. Each retry recomputes
// the ordinal from scratch, so losing the race more than a handful of
// times in a row means the store is misbehaving.
const registerAttempts = 5

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CredentialStore is the collaborator that owns secret hashing and
// comparison. The registry never sees plaintext beyond forwarding it.
type CredentialStore interface {
	Prove(secret string) string
	Verify(proof, secret string) bool
}

// Registry assigns signup ordinals and derived tiers, and owns member
// identity lookups. Safe for concurrent use.
type Registry struct {
	db    *sql.DB
	creds CredentialStore
	tiers TierThresholds

	// Now is the clock used for joined_at stamps. Tests replace it.
	Now func() time.Time
}

func New(database *sql.DB, creds CredentialStore) *Registry {
	return &Registry{
		db:    database,
		creds: creds,
		tiers: DefaultTierThresholds,
		Now:   time.Now,
	}
}

// NormalizeEmail lowercases and trims an email address. All reads and
// writes of member.email go through this, which is what makes the
// UNIQUE constraint case-insensitive in effect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a member with the next gapless signup ordinal.
//
// The count-then-insert runs inside a transaction, but correctness does
// not rest on the count: the UNIQUE constraints on email and
// signup_ordinal reject the loser of any race, and the loser retries
// with a freshly recomputed ordinal. A duplicate email is permanent and
// returned immediately.
func (r *Registry) Register(ctx context.Context, displayName, email, secret string) (models.Member, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.Member{}, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	email = NormalizeEmail(email)
	if !emailShape.MatchString(email) {
		return models.Member{}, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if secret == "" {
		return models.Member{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	proof := r.creds.Prove(secret)

	for attempt := 0; attempt < registerAttempts; attempt++ {
		member, err := r.tryRegister(ctx, displayName, email, proof)
		if err == nil {
			return member, nil
		}
		if !errors.Is(err, errUniqueViolation) {
			return models.Member{}, err
		}

		// A constraint rejected the insert. The transaction has been
		// rolled back, so it is safe to query again: if the email is
		// now taken the caller is a duplicate, otherwise another
		// signup won the ordinal and we go around with a recomputed
		// one.
		var taken bool
		checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM member WHERE email = $1)`, email).Scan(&taken)
		if checkErr != nil {
			return models.Member{}, fmt.Errorf("failed to check email after conflict: %w", checkErr)
		}
		if taken {
			return models.Member{}, ErrDuplicateEmail
		}
	}

	return models.Member{}, fmt.Errorf("%w: ordinal contention persisted after %d attempts", ErrConflict, registerAttempts)
}

func (r *Registry) tryRegister(ctx context.Context, displayName, email, proof string) (models.Member, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM member`).Scan(&count); err != nil {
		return models.Member{}, fmt.Errorf("failed to count members: %w", err)
	}

	ordinal := count + 1
	member := models.Member{
		ID:            uuid.NewString(),
		DisplayName:   displayName,
		Email:         email,
		CredentialRef: proof,
		SignupOrdinal: ordinal,
		Tier:          r.tiers.TierFor(ordinal),
		JoinedAt:      r.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO member (id, display_name, email, credential_proof, signup_ordinal, tier_name, tier_title, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, member.ID, member.DisplayName, member.Email, member.CredentialRef,
		member.SignupOrdinal, member.Tier.Name, member.Tier.Title, member.JoinedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Member{}, errUniqueViolation
		}
		return models.Member{}, fmt.Errorf("failed to insert member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return models.Member{}, errUniqueViolation
		}
		return models.Member{}, fmt.Errorf("failed to commit member insert: %w", err)
	}

	return member, nil
}

// Authenticate looks up a member by email and delegates the secret
// comparison to the credential collaborator. An unknown email answers
// the same as a wrong secret.
func (r *Registry) Authenticate(ctx context.Context, email, secret string) (models.Member, error) {
	member, err := r.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return models.Member{}, ErrCredentialMismatch
	}
	if err != nil {
		return models.Member{}, err
	}
	if !r.creds.Verify(member.CredentialRef, secret) {
		return models.Member{}, ErrCredentialMismatch
	}
	return member, nil
}

func (r *Registry) FindByID(ctx context.Context, id string) (models.Member, error) {
	return r.scanMember(r.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, credential_proof, signup_ordinal, tier_name, tier_title, joined_at
		FROM member WHERE id = $1
	`, id))
}

func (r *Registry) FindByEmail(ctx context.Context, email string) (models.Member, error) {
	return r.scanMember(r.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, credential_proof, signup_ordinal, tier_name, tier_title, joined_at
		FROM member WHERE email = $1
	`, NormalizeEmail(email)))
}

// ListAll returns every member ordered by ascending signup ordinal.
func (r *Registry) ListAll(ctx context.Context) ([]models.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, email, credential_proof, signup_ordinal, tier_name, tier_title, joined_at
		FROM member ORDER BY signup_ordinal ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Email, &m.CredentialRef,
			&m.SignupOrdinal, &m.Tier.Name, &m.Tier.Title, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateDisplayName changes a member's display name. The ordinal and
// tier are immutable and untouched.
func (r *Registry) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE member SET display_name = $1 WHERE id = $2`, displayName, id)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCredential replaces a member's credential proof after
// verifying the current secret.
func (r *Registry) UpdateCredential(ctx context.Context, id, currentSecret, newSecret string) error {
	if newSecret == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	member, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.creds.Verify(member.CredentialRef, currentSecret) {
		return ErrCredentialMismatch
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE member SET credential_proof = $1 WHERE id = $2`, r.creds.Prove(newSecret), id)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return nil
}

func (r *Registry) scanMember(row *sql.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.DisplayName, &m.Email, &m.CredentialRef,
		&m.SignupOrdinal, &m.Tier.Name, &m.Tier.Title, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to scan member: %w", err)
	}
	return m, nil
}
