// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/pollwise/auth"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/session"
	"github.com/danielhkuo/pollwise/tally"
	"github.com/doug-martin/goqu/v9"
)

type AuthHandler struct {
	db       *db.DB
	cfg      cliparse.Config
	sessions *session.Manager
	metrics  *metrics.Metrics
}

func NewAuthHandler(d *db.DB, cfg cliparse.Config, sessions *session.Manager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{db: d, cfg: cfg, sessions: sessions, metrics: m}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if !tally.ValidateEmail(email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}
	if err := auth.ValidateUsername(username); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// Report which field collides before attempting the insert
	var n int
	err := db.Get(ctx, h.db, h.db.From(db.UserTable).
		Select(goqu.COUNT(db.UserTableIDCol)).
		Where(db.UserTableEmailCol.Eq(email)), &n)
	if err != nil {
		slog.Error("failed to check email", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	err = db.Get(ctx, h.db, h.db.From(db.UserTable).
		Select(goqu.COUNT(db.UserTableIDCol)).
		Where(db.UserTableUsernameCol.Eq(username)), &n)
	if err != nil {
		slog.Error("failed to check username", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "This username is already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        auth.NewID(),
		Email:     email,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = db.Exec(ctx, h.db, h.db.Insert(db.UserTable).Rows(goqu.Record{
		"id":            user.ID,
		"email":         user.Email,
		"username":      user.Username,
		"password_hash": hash,
		"created_at":    now,
		"updated_at":    now,
	}))
	if db.IsUniqueViolation(err) {
		// Lost a race with a concurrent sign-up
		middleware.ErrorResponse(w, http.StatusConflict, "Email or username already taken")
		return
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	if err := h.sessions.Create(ctx, w, user.ID); err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	h.metrics.SignUps.Inc()
	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)

	strength := auth.Strength(req.Password)
	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		User:             user,
		PasswordStrength: &strength,
	})
}

// SignIn handles POST /auth/login
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx := r.Context()

	cols := append(append([]interface{}{}, db.UserColumns...), db.UserTablePasswordCol)
	query, args, err := h.db.From(db.UserTable).
		Select(cols...).
		Where(db.UserTableEmailCol.Eq(email)).
		ToSQL()
	if err != nil {
		slog.Error("failed to build query", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var hash string
	user, err := db.ScanUser(db.WithExtra(h.db.QueryRowContext(ctx, query, args...), &hash))
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}

	if err := h.sessions.Create(ctx, w, user.ID); err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("user signed in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{User: user})
}

// SignOut handles POST /auth/logout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("failed to destroy session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

// Me handles GET /auth/me (behind RequireUser)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{User: user})
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.AuthPage{
		Page:      "login",
		ReturnURL: safeReturnURL(r.URL.Query().Get("returnUrl")),
	})
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.AuthPage{
		Page:      "register",
		ReturnURL: safeReturnURL(r.URL.Query().Get("returnUrl")),
	})
}

// safeReturnURL keeps only same-site absolute paths
func safeReturnURL(u string) string {
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") || strings.HasPrefix(u, "/\\") {
		return ""
	}
	return u
}
