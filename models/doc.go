// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Member: identity, signup ordinal, derived tier
  - Tier: membership band name and title
  - VoteRound: option list plus opened/closes timestamps
  - Ballot: write-once vote record with a member-name snapshot
  - Suggestion: suggestion-box entry

# Round Status

Round state is derived from closes_at, never stored:

	RoundStatusNone   = "none"
	RoundStatusOpen   = "open"
	RoundStatusClosed = "closed"

# Default Options

DefaultOptions is the standard eight-entry feature slate used when the
admin opens a vote without an explicit option list.
*/
package models
