// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// DB pairs a connection pool with the goqu dialect matching its driver.
type DB struct {
	*sql.DB
	Type    string
	dialect goqu.DialectWrapper
}

// Builder is anything goqu can render into a query and its arguments.
type Builder interface {
	ToSQL() (string, []interface{}, error)
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to sqlite (modernc) or postgres (lib/pq).
func Open(databaseType, url string) (*DB, error) {
	var driver, dialect string
	switch databaseType {
	case TypeSQLite:
		driver, dialect = "sqlite", "sqlite3"
	case TypePostgres:
		driver, dialect = "postgres", "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", databaseType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if databaseType == TypeSQLite {
		// One connection: keeps :memory: databases alive and serializes writers.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{DB: conn, Type: databaseType, dialect: goqu.Dialect(dialect)}, nil
}

func (d *DB) From(table ...interface{}) *goqu.SelectDataset {
	return d.dialect.From(table...).Prepared(true)
}

func (d *DB) Insert(table interface{}) *goqu.InsertDataset {
	return d.dialect.Insert(table).Prepared(true)
}

func (d *DB) Update(table interface{}) *goqu.UpdateDataset {
	return d.dialect.Update(table).Prepared(true)
}

func (d *DB) Delete(table interface{}) *goqu.DeleteDataset {
	return d.dialect.Delete(table).Prepared(true)
}

// Exec renders b and executes it on q
func Exec(ctx context.Context, q Querier, b Builder) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.ExecContext(ctx, query, args...)
}

// Query renders b and returns the resulting rows
func Query(ctx context.Context, q Querier, b Builder) (*sql.Rows, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryContext(ctx, query, args...)
}

// Get renders b, runs it and scans a single row into dest.
// sql.ErrNoRows is returned unwrapped.
func Get(ctx context.Context, q Querier, b Builder, dest ...any) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryRowContext(ctx, query, args...).Scan(dest...)
}

// IsUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY conflict on either driver
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
