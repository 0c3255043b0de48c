// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollwise API.

# Route Registration

NewRouter wires handlers onto an http.ServeMux and wraps it with CORS and
the session gate:

	handler := router.NewRouter(db, cfg, resultsCache, metrics)

Every API route is wrapped with request logging and Prometheus
instrumentation, labelled by its pattern.

# Endpoints

Ops:

	GET /health   - Database and Redis checks
	GET /metrics  - Prometheus exposition

Auth:

	POST /auth/signup  - Create account, sets session cookie
	POST /auth/login   - Sign in, sets session cookie
	POST /auth/logout  - Delete session, clears cookie
	GET  /auth/me      - Current user (session required)
	GET  /login        - Login page state (returnUrl)
	GET  /register     - Register page state

Dashboard (session required):

	GET /dashboard        - User, polls and quick stats
	GET /dashboard/polls  - User's polls, newest first

Polls:

	GET    /polls/new    - Form limits (session required)
	POST   /polls        - Create poll (session required)
	GET    /polls        - List: q, status, created_by, from, to, sort, dir, page, limit
	GET    /polls/{id}   - Poll by id or slug
	DELETE /polls/{id}   - Delete own poll (session required)

Voting and results:

	POST /polls/{id}/votes    - Submit optionIds
	GET  /polls/{id}/results  - Stats, leading option, dates
*/
package router
