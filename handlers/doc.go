// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the hub API.

# Handler Types

Each handler is a struct holding the components it fronts:

  - MemberHandler: signup, sign-in, directory, profile editing
  - RoundHandler: round lifecycle and tallies (open/close are admin)
  - BallotHandler: casting, my-ballot, activity feed
  - SuggestionHandler: the suggestion box

Handlers are created via constructor functions, e.g.:

	memberHandler := handlers.NewMemberHandler(db, reg, cfg)

# Membership Flow

	POST /members   → Register (ordinal + tier assigned, session issued)
	POST /sessions  → SignIn
	GET  /members   → List (ascending signup ordinal)
	GET  /members/me, PUT /members/me, PUT /members/me/credential

Authenticated operations require the X-Session-Token header.

# Voting Flow

	GET  /rounds/current          → Current (status + remaining seconds)
	POST /rounds                  → Open (admin)
	POST /rounds/current/close    → Close (admin, idempotent)
	POST /rounds/current/ballots  → Cast
	GET  /rounds/current/my-ballot → MyBallot
	GET  /rounds/{id}/tally       → Tally (zero-filled counts)
	GET  /activity                → Activity (recent ballots)

Admin is the member whose email matches the configured ADMIN_EMAIL.

# Error Mapping

Component sentinel errors map onto HTTP statuses in writeDomainError.
Permanent rejections (duplicate email, already voted, no open round)
are plain 4xx; a lost signup race is a 409 with "retryable": true so
the client can re-submit silently.
*/
package handlers
