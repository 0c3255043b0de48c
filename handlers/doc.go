// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollwise API.

# Handler Types

Each handler is a struct holding the database, config and whatever shared
services it needs:

  - AuthHandler: sign up, sign in, sign out and the current user
  - PollHandler: poll creation, listing, lookup and deletion
  - VotingHandler: vote submission
  - ResultsHandler: aggregated results, cached in Redis when configured
  - DashboardHandler: the signed-in user's polls and totals
  - HealthHandler: liveness with database and Redis checks

Handlers are created via constructor functions:

	polls := handlers.NewPollHandler(db, cfg, resultsCache, m)

# Polls

	POST   /polls         → CreatePoll (signed in)
	GET    /polls         → ListPolls (q, status, created_by, from, to, sort, dir, page, limit)
	GET    /polls/{id}    → GetPoll (id or slug)
	DELETE /polls/{id}    → DeletePoll (creator only)
	GET    /polls/new     → NewPollForm (signed in)

Status is derived on read: archived when inactive, expired when past its
expiry, draft with fewer than two options, otherwise active.

# Voting

	POST /polls/{id}/votes   → SubmitVote
	GET  /polls/{id}/results → GetResults

Only active polls accept votes. A single-vote poll accepts one submission
per signed-in user, or per hashed client address for anonymous voters;
the second attempt returns 409. Polls with requireAuth reject anonymous
voters with 401.

# Accounts

	POST /auth/signup → SignUp
	POST /auth/login  → SignIn
	POST /auth/logout → SignOut
	GET  /auth/me     → Me

Sessions are carried in an HttpOnly cookie managed by package session.
*/
package handlers
