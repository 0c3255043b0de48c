// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollwise API server.

Pollwise is a polling service: accounts sign up, create polls with two to ten
options, share them by slug, and watch results as votes come in.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	SESSION_SALT=change-me go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-salt change-me

# Configuration

Required settings:

  - SESSION_SALT (-session-salt): Secret for session token and IP hashing

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string (required for postgres)
  - REDIS_URL (-redis): Enables the results cache
  - SESSION_TTL, COOKIE_NAME, COOKIE_SECURE, BASE_URL

# Architecture

  - handlers: HTTP request handlers (auth, polls, voting, results, dashboard, health)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, session gate, JSON helpers
  - session: Cookie sessions backed by the database
  - tally: Pure result and listing functions
  - cache: Optional Redis results cache
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Tokens, hashing and password rules
  - db: Connections, goqu tables and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
