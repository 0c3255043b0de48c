// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"

	"github.com/danielhkuo/pollwise/models"
)

// Scanner is implemented by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// ScanPoll scans a row selected with PollColumns
func ScanPoll(s Scanner) (models.Poll, error) {
	var p models.Poll
	var description sql.NullString
	var expiresAt sql.NullTime

	err := s.Scan(
		&p.ID, &p.Title, &description, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt, &expiresAt,
		&p.IsActive, &p.AllowMultipleVotes, &p.RequireAuth,
		&p.Slug,
	)
	if err != nil {
		return models.Poll{}, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	p.Options = []models.PollOption{}

	return p, nil
}

// ScanUser scans a row selected with UserColumns
func ScanUser(s Scanner) (models.User, error) {
	var u models.User
	var avatar sql.NullString

	err := s.Scan(&u.ID, &u.Email, &u.Username, &avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}

	if avatar.Valid {
		u.Avatar = &avatar.String
	}

	return u, nil
}

// WithExtra returns a Scanner that appends extra destinations after the
// ones passed to Scan, for selects that add columns to PollColumns/UserColumns.
func WithExtra(s Scanner, extra ...any) Scanner {
	return extraScanner{s: s, extra: extra}
}

type extraScanner struct {
	s     Scanner
	extra []any
}

func (e extraScanner) Scan(dest ...any) error {
	return e.s.Scan(append(dest, e.extra...)...)
}
