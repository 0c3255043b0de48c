// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and builds queries.

# Connections

Open picks the driver and matching goqu dialect:

	conn, err := db.Open(db.TypeSQLite, "pollwise.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite runs on a single connection, so callers must drain a result set
before issuing the next query, and queries inside a transaction must go
through the *sql.Tx.

# Queries

Queries are built with goqu and run through Exec, Query or Get, which
accept either the *DB or a *sql.Tx:

	err := db.Get(ctx, tx, conn.From(db.PollTable).
		Select(db.PollTableIDCol).
		Where(db.PollTableSlugCol.Eq(slug)), &id)

Table and column identifiers live in tables.go. PollColumns and
UserColumns pair with ScanPoll and ScanUser.

# Schema Creation

CreateSchema is safe to call multiple times; it uses IF NOT EXISTS for
all tables and indexes.

	app_user 1──* user_session
	app_user 1──* poll
	poll     1──* poll_option
	poll     1──* vote
	poll_option 1──* vote

Votes hold one row per selected option. voter_key is filled only on
single-vote polls, and UNIQUE (poll_id, voter_key) rejects a second
submission from the same voter.
*/
package db
