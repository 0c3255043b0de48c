// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadEnvFile(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnvFile reads a .env file (if present) into the environment first, so
values from the file behave exactly like exported variables.

# CLI Flags

	-p              Server port (default: 3318)
	-d              Database URL
	-t              Database type: sqlite (default) or postgres
	-redis          Redis URL for the results cache
	-base-url       Public base URL
	-session-salt   Session token and IP hashing salt
	-session-ttl    Session lifetime (default: 168h)
	-cookie         Session cookie name (default: pollwise_session)
	-cookie-secure  Mark the cookie Secure

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	REDIS_URL     → -redis
	BASE_URL      → -base-url
	SESSION_SALT  → -session-salt
	SESSION_TTL   → -session-ttl
	COOKIE_NAME   → -cookie
	COOKIE_SECURE → -cookie-secure

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - SESSION_SALT is missing
  - DATABASE_TYPE is postgres and DATABASE_URL is missing
  - PORT, SESSION_TTL or COOKIE_SECURE cannot be parsed
*/
package cliparse
