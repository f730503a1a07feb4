// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/truthbtold/hub/auth"
	"github.com/truthbtold/hub/ballot"
	"github.com/truthbtold/hub/cliparse"
	"github.com/truthbtold/hub/handlers"
	"github.com/truthbtold/hub/middleware"
	"github.com/truthbtold/hub/registry"
	"github.com/truthbtold/hub/voteround"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire components: registry has no dependencies, the round manager
	// needs only a clock, the ledger consults both.
	reg := registry.New(db, auth.Credentials{Salt: cfg.CredentialSalt})
	rounds := voteround.New(db)
	ledger := ballot.New(db, reg, rounds)

	memberHandler := handlers.NewMemberHandler(db, reg, cfg)
	roundHandler := handlers.NewRoundHandler(db, reg, rounds, ledger, cfg)
	ballotHandler := handlers.NewBallotHandler(db, reg, rounds, ledger, cfg)
	suggestionHandler := handlers.NewSuggestionHandler(db, reg, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Membership
	mux.HandleFunc("POST /members", middleware.WithLogging(memberHandler.Register))
	mux.HandleFunc("POST /sessions", middleware.WithLogging(memberHandler.SignIn))
	mux.HandleFunc("GET /members", middleware.WithLogging(memberHandler.List))
	mux.HandleFunc("GET /members/me", middleware.WithLogging(memberHandler.GetMe))
	mux.HandleFunc("PUT /members/me", middleware.WithLogging(memberHandler.UpdateMe))
	mux.HandleFunc("PUT /members/me/credential", middleware.WithLogging(memberHandler.UpdateCredential))

	// Vote rounds (open/close are admin operations)
	mux.HandleFunc("GET /rounds/current", middleware.WithLogging(roundHandler.Current))
	mux.HandleFunc("POST /rounds", middleware.WithLogging(roundHandler.Open))
	mux.HandleFunc("POST /rounds/current/close", middleware.WithLogging(roundHandler.Close))
	mux.HandleFunc("GET /rounds/{id}/tally", middleware.WithLogging(roundHandler.Tally))

	// Ballots
	mux.HandleFunc("POST /rounds/current/ballots", middleware.WithLogging(ballotHandler.Cast))
	mux.HandleFunc("GET /rounds/current/my-ballot", middleware.WithLogging(ballotHandler.MyBallot))
	mux.HandleFunc("GET /activity", middleware.WithLogging(ballotHandler.Activity))

	// Suggestion box
	mux.HandleFunc("POST /suggestions", middleware.WithLogging(suggestionHandler.Submit))
	mux.HandleFunc("GET /suggestions", middleware.WithLogging(suggestionHandler.List))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("truth-b-told hub API v1"))
	})

	return mux
}
