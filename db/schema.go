// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is deliberately portable across PostgreSQL and SQLite:
// no database-side timestamp defaults (all timestamps are written by
// the application) and no engine-specific column types. The UNIQUE
// constraints on member.email, member.signup_ordinal and
// (round_id, member_id) are load-bearing; registration and ballot
// casting rely on them for their atomic check-then-insert steps.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Members
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    credential_proof TEXT NOT NULL,
    signup_ordinal INTEGER NOT NULL UNIQUE,
    tier_name TEXT NOT NULL,
    tier_title TEXT NOT NULL,
    joined_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_member_email ON member(email);
CREATE INDEX IF NOT EXISTS idx_member_ordinal ON member(signup_ordinal);

-- Sessions
CREATE TABLE IF NOT EXISTS session (
    token TEXT PRIMARY KEY,
    member_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_member ON session(member_id);

-- Vote rounds. Open/closed is derived from closes_at at read time;
-- there is no status column to drift out of sync.
CREATE TABLE IF NOT EXISTS vote_round (
    id TEXT PRIMARY KEY,
    options TEXT NOT NULL,
    opened_at TIMESTAMP NOT NULL,
    closes_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_round_opened ON vote_round(opened_at);

-- Ballots. member_id is intentionally not a foreign key: deleting a
-- member orphans their ballots, and tallying never resolves member_id.
-- member_name is a snapshot taken at cast time for the activity feed.
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES vote_round(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    option_label TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (round_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_round ON ballot(round_id);
CREATE INDEX IF NOT EXISTS idx_ballot_member ON ballot(round_id, member_id);

-- Suggestions
CREATE TABLE IF NOT EXISTS suggestion (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_suggestion_created ON suggestion(created_at);
`
