// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Round status constants (derived from closes_at, never stored)
const (
	RoundStatusNone   = "none"
	RoundStatusOpen   = "open"
	RoundStatusClosed = "closed"
)

// DefaultOptions is the feature slate the community votes on when the
// admin opens a round without an explicit option list.
var DefaultOptions = []string{
	"The Stage",
	"The Circle",
	"The Pool",
	"The Gallery",
	"The Library",
	"The Temple",
	"The Council",
	"The Archive",
}

// Request types

type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type UpdateCredentialRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type OpenRoundRequest struct {
	Options []string `json:"options,omitempty"`
	Hours   float64  `json:"hours"`
}

type CastBallotRequest struct {
	Option string `json:"option"`
}

type SubmitSuggestionRequest struct {
	Body string `json:"body"`
}

// Response types

type SessionResponse struct {
	SessionToken string `json:"session_token"`
	Member       Member `json:"member"`
}

type RoundStatusResponse struct {
	Round            *VoteRound `json:"round,omitempty"`
	Status           string     `json:"status"`
	RemainingSeconds int64      `json:"remaining_seconds"`
}

type CastBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Option   string `json:"option"`
}

type MyBallotResponse struct {
	HasVoted bool   `json:"has_voted"`
	Option   string `json:"option,omitempty"`
}

type TallyResponse struct {
	RoundID string         `json:"round_id"`
	Status  string         `json:"status"`
	Counts  map[string]int `json:"counts"`
	Total   int            `json:"total"`
}

type SubmitSuggestionResponse struct {
	SuggestionID string `json:"suggestion_id"`
}

// Domain types

// Tier is the membership band derived from a member's signup ordinal.
type Tier struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

type Member struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email"`
	CredentialRef string    `json:"-"` // opaque proof, never exposed
	SignupOrdinal int       `json:"signup_ordinal"`
	Tier          Tier      `json:"tier"`
	JoinedAt      time.Time `json:"joined_at"`
}

type VoteRound struct {
	ID       string    `json:"id"`
	Options  []string  `json:"options"`
	OpenedAt time.Time `json:"opened_at"`
	ClosesAt time.Time `json:"closes_at"`
}

type Ballot struct {
	ID         string    `json:"id"`
	RoundID    string    `json:"round_id"`
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	Option     string    `json:"option"`
	CastAt     time.Time `json:"cast_at"`
}

type Suggestion struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
