// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pollwise/cache"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/handlers"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/session"
)

// NewRouter wires every route. The returned handler applies CORS and the
// session gate ahead of the mux.
func NewRouter(d *db.DB, cfg cliparse.Config, rc *cache.ResultsCache, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	sessions := session.NewManager(d, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d, cfg, sessions, m)
	pollHandler := handlers.NewPollHandler(d, cfg, rc, m)
	votingHandler := handlers.NewVotingHandler(d, cfg, sessions, rc, m)
	resultsHandler := handlers.NewResultsHandler(d, rc, m)
	dashboardHandler := handlers.NewDashboardHandler(d)
	healthHandler := handlers.NewHealthHandler(d, rc.Client())

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(m.Instrument(pattern, h)))
	}

	// Ops
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", m.Handler())

	// Auth
	handle("POST /auth/signup", authHandler.SignUp)
	handle("POST /auth/login", authHandler.SignIn)
	handle("POST /auth/logout", authHandler.SignOut)
	handle("GET /auth/me", sessions.RequireUser(authHandler.Me))
	handle("GET /login", authHandler.LoginPage)
	handle("GET /register", authHandler.RegisterPage)

	// Dashboard (signed in)
	handle("GET /dashboard", sessions.RequireUser(dashboardHandler.Dashboard))
	handle("GET /dashboard/polls", sessions.RequireUser(dashboardHandler.MyPolls))

	// Polls
	handle("GET /polls/new", sessions.RequireUser(pollHandler.NewPollForm))
	handle("POST /polls", sessions.RequireUser(pollHandler.CreatePoll))
	handle("GET /polls", pollHandler.ListPolls)
	handle("GET /polls/{id}", pollHandler.GetPoll)
	handle("DELETE /polls/{id}", sessions.RequireUser(pollHandler.DeletePoll))

	// Voting and results (public; requireAuth polls check the session)
	handle("POST /polls/{id}/votes", votingHandler.SubmitVote)
	handle("GET /polls/{id}/results", resultsHandler.GetResults)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.ErrorResponse(w, http.StatusNotFound, "route not found")
			return
		}
		w.Write([]byte("pollwise API v1"))
	})

	return middleware.CORS(middleware.SessionGate(cfg.CookieName, mux))
}
