// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/truthbtold/hub/auth"
	"github.com/truthbtold/hub/cliparse"
	hubdb "github.com/truthbtold/hub/db"
	"github.com/truthbtold/hub/models"
)

// TestAdminEmail matches the config returned by GetTestConfig.
const TestAdminEmail = "admin@truthbtoldhub.com"

// TestCredentialSalt is the salt behind TestCredentials.
const TestCredentialSalt = "test-credential-salt"

// TestCredentials is the credential collaborator used across the suite.
var TestCredentials = auth.Credentials{Salt: TestCredentialSalt}

var dbSerial atomic.Int64

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own named shared-cache database so tests
// never see each other's rows. The single-connection cap mirrors
// db.Open and keeps concurrent writers from hitting SQLITE_BUSY.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := fmt.Sprintf("file:hubtest%d?mode=memory&cache=shared", dbSerial.Add(1))
	conn, err := sql.Open("sqlite", url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := hubdb.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           4017,
		DatabaseURL:    "file:unused?mode=memory",
		DatabaseType:   "sqlite",
		AdminEmail:     TestAdminEmail,
		CredentialSalt: TestCredentialSalt,
	}
}

// CreateTestMember inserts a member row directly, with the next
// ordinal and its derived tier columns, and returns it.
func CreateTestMember(t *testing.T, db *sql.DB, displayName, email, password string) models.Member {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM member`).Scan(&count); err != nil {
		t.Fatalf("Failed to count members: %v", err)
	}
	ordinal := count + 1

	tierName, tierTitle := tierColumns(ordinal)
	m := models.Member{
		ID:            uuid.NewString(),
		DisplayName:   displayName,
		Email:         email,
		CredentialRef: TestCredentials.Prove(password),
		SignupOrdinal: ordinal,
		Tier:          models.Tier{Name: tierName, Title: tierTitle},
		JoinedAt:      time.Now().UTC(),
	}

	_, err := db.Exec(`
		INSERT INTO member (id, display_name, email, credential_proof, signup_ordinal, tier_name, tier_title, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.DisplayName, m.Email, m.CredentialRef, m.SignupOrdinal, m.Tier.Name, m.Tier.Title, m.JoinedAt)
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return m
}

func tierColumns(ordinal int) (name, title string) {
	switch {
	case ordinal <= 13:
		return "Founding", "First Flame"
	case ordinal <= 33:
		return "Circle", "Inner Flame"
	case ordinal <= 83:
		return "Keeper", "Keeper Flame"
	default:
		return "Member", "Community"
	}
}

// CreateTestSession stores a session token for the member.
func CreateTestSession(t *testing.T, db *sql.DB, memberID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	_, err = db.Exec(`
		INSERT INTO session (token, member_id, created_at)
		VALUES ($1, $2, $3)
	`, token, memberID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return token
}

// OpenTestRound inserts a round closing after the given duration
// (negative durations create an already-closed round).
func OpenTestRound(t *testing.T, db *sql.DB, options []string, duration time.Duration) models.VoteRound {
	t.Helper()

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("Failed to encode options: %v", err)
	}

	now := time.Now().UTC()
	round := models.VoteRound{
		ID:       uuid.NewString(),
		Options:  options,
		OpenedAt: now,
		ClosesAt: now.Add(duration),
	}

	_, err = db.Exec(`
		INSERT INTO vote_round (id, options, opened_at, closes_at)
		VALUES ($1, $2, $3, $4)
	`, round.ID, string(optionsJSON), round.OpenedAt, round.ClosesAt)
	if err != nil {
		t.Fatalf("Failed to create test round: %v", err)
	}

	return round
}

// CastTestBallot inserts a ballot row directly.
func CastTestBallot(t *testing.T, db *sql.DB, roundID string, member models.Member, option string) string {
	t.Helper()

	ballotID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO ballot (id, round_id, member_id, member_name, option_label, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ballotID, roundID, member.ID, member.DisplayName, option, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
