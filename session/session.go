// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session issues and resolves cookie-backed login sessions.
// The cookie carries a random token; the database only sees its HMAC.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/pollwise/auth"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/models"
	"github.com/doug-martin/goqu/v9"
)

var ErrNoSession = errors.New("no valid session")

type ctxKey struct{}

type Manager struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewManager(d *db.DB, cfg cliparse.Config) *Manager {
	return &Manager{db: d, cfg: cfg, now: time.Now}
}

// Create stores a new session for userID and sets its cookie on w
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID string) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}
	tokenHash, err := auth.HashToken(token, m.cfg.SessionSalt)
	if err != nil {
		return err
	}

	now := m.now().UTC()
	expires := now.Add(m.cfg.SessionTTL)

	_, err = db.Exec(ctx, m.db, m.db.Insert(db.SessionTable).Rows(goqu.Record{
		"token_hash": tokenHash,
		"user_id":    userID,
		"created_at": now,
		"expires_at": expires,
	}))
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Destroy deletes the session named by the request cookie, if any, and
// always clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer m.clearCookie(w)

	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	tokenHash, err := auth.HashToken(c.Value, m.cfg.SessionSalt)
	if err != nil {
		return nil
	}

	_, err = db.Exec(ctx, m.db, m.db.Delete(db.SessionTable).Where(db.SessionTableTokenHashCol.Eq(tokenHash)))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// User resolves the request cookie to its user. ErrNoSession covers a
// missing, malformed, unknown or expired token.
func (m *Manager) User(ctx context.Context, r *http.Request) (models.User, error) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return models.User{}, ErrNoSession
	}
	tokenHash, err := auth.HashToken(c.Value, m.cfg.SessionSalt)
	if err != nil {
		return models.User{}, ErrNoSession
	}

	cols := append(append([]interface{}{}, db.UserColumns...), db.SessionTableExpiresAtCol)
	q := m.db.From(db.SessionTable).
		Join(db.UserTable, goqu.On(db.UserTableIDCol.Eq(db.SessionTableUserIDCol))).
		Select(cols...).
		Where(db.SessionTableTokenHashCol.Eq(tokenHash))

	query, args, err := q.ToSQL()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to build query: %w", err)
	}

	var expiresAt time.Time
	row := m.db.QueryRowContext(ctx, query, args...)
	u, err := db.ScanUser(db.WithExtra(row, &expiresAt))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load session: %w", err)
	}

	if !m.now().Before(expiresAt) {
		if _, err := db.Exec(ctx, m.db, m.db.Delete(db.SessionTable).Where(db.SessionTableTokenHashCol.Eq(tokenHash))); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return models.User{}, ErrNoSession
	}

	return u, nil
}

// RequireUser answers 401 unless the request has a valid session; the user
// is then available through UserFrom.
func (m *Manager) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := m.User(r.Context(), r)
		if errors.Is(err, ErrNoSession) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if err != nil {
			slog.Error("failed to resolve session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "failed to resolve session")
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), u)))
	}
}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the user stored by RequireUser
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)
	return u, ok
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
