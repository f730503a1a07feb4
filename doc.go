// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Truth B Told Hub API server.

The hub is a small community-membership service: email/password signup
with a tiered membership-numbering scheme, a single community feature
vote with a countdown, a member directory, and a suggestion box.

# Starting the Server

The server reads environment variables (a .env file is honored) or CLI
flags for configuration:

	DATABASE_URL=file:hub.db CREDENTIAL_SALT=... go run main.go

Or with flags:

	go run main.go -p 4017 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - CREDENTIAL_SALT (--credential-salt): secret for credential proofing

Optional settings:

  - PORT (-p): server port (default: 4017)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ADMIN_EMAIL (--admin-email): account allowed to run votes

# Architecture

Three core components own all domain state, each behind its own
contract:

  - registry: member identity, signup ordinals, tier derivation
  - voteround: the single active vote round and its deadline
  - ballot: one-ballot-per-member enforcement and tallying

Around them the usual serving layers:

  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response and domain types
  - auth: credential proofing and session tokens
  - db: driver selection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
