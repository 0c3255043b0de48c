// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollwise/auth"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/models"
	"github.com/doug-martin/goqu/v9"
)

// TestPassword satisfies the sign-up password rules
const TestPassword = "Passw0rdOK"

// SetupTestDB opens a private in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	d, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.CreateSchema(context.Background(), d); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return d
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  ":memory:",
		SessionSalt:  "test-session-salt",
		SessionTTL:   time.Hour,
		CookieName:   cliparse.DefaultCookieName,
		BaseURL:      cliparse.DefaultBaseURL,
	}
}

// CreateTestUser inserts a user whose password is TestPassword
func CreateTestUser(t *testing.T, d *db.DB, username string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        auth.NewID(),
		Email:     username + "@example.com",
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = db.Exec(context.Background(), d, d.Insert(db.UserTable).Rows(goqu.Record{
		"id":            u.ID,
		"email":         u.Email,
		"username":      u.Username,
		"password_hash": hash,
		"created_at":    now,
		"updated_at":    now,
	}))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return u
}

// CreateTestSession stores a session for userID and returns the cookie to send
func CreateTestSession(t *testing.T, d *db.DB, cfg cliparse.Config, userID string) *http.Cookie {
	t.Helper()

	token, _ := auth.GenerateSessionToken()
	hash, err := auth.HashToken(token, cfg.SessionSalt)
	if err != nil {
		t.Fatalf("Failed to hash token: %v", err)
	}

	now := time.Now().UTC()
	_, err = db.Exec(context.Background(), d, d.Insert(db.SessionTable).Rows(goqu.Record{
		"token_hash": hash,
		"user_id":    userID,
		"created_at": now,
		"expires_at": now.Add(cfg.SessionTTL),
	}))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return &http.Cookie{Name: cfg.CookieName, Value: token}
}

// PollOpts tweaks CreateTestPoll
type PollOpts struct {
	Title         string
	Inactive      bool
	AllowMultiple bool
	RequireAuth   bool
	ExpiresAt     *time.Time
	CreatedAt     time.Time
}

// CreateTestPoll inserts a poll owned by userID with the given option texts
// and returns it with its options filled in.
func CreateTestPoll(t *testing.T, d *db.DB, userID string, opts PollOpts, options ...string) models.Poll {
	t.Helper()
	ctx := context.Background()

	if opts.Title == "" {
		opts.Title = "Test Poll"
	}
	created := opts.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	p := models.Poll{
		ID:                 auth.NewID(),
		Title:              opts.Title,
		CreatedBy:          userID,
		CreatedAt:          created,
		UpdatedAt:          created,
		ExpiresAt:          opts.ExpiresAt,
		IsActive:           !opts.Inactive,
		AllowMultipleVotes: opts.AllowMultiple,
		RequireAuth:        opts.RequireAuth,
	}
	p.Slug = "test-poll-" + p.ID[:8]

	_, err := db.Exec(ctx, d, d.Insert(db.PollTable).Rows(goqu.Record{
		"id":                   p.ID,
		"title":                p.Title,
		"created_by":           p.CreatedBy,
		"created_at":           p.CreatedAt,
		"updated_at":           p.UpdatedAt,
		"expires_at":           p.ExpiresAt,
		"is_active":            p.IsActive,
		"allow_multiple_votes": p.AllowMultipleVotes,
		"require_auth":         p.RequireAuth,
		"slug":                 p.Slug,
	}))
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, text := range options {
		o := models.PollOption{ID: auth.NewID(), PollID: p.ID, Text: text, Order: i}
		_, err := db.Exec(ctx, d, d.Insert(db.OptionTable).Rows(goqu.Record{
			"id":       o.ID,
			"poll_id":  o.PollID,
			"text":     o.Text,
			"position": o.Order,
		}))
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		p.Options = append(p.Options, o)
	}

	return p
}

// AddTestVote records one vote row; userID may be empty for an anonymous vote
func AddTestVote(t *testing.T, d *db.DB, pollID, optionID, userID string, at time.Time) string {
	t.Helper()

	var uid *string
	if userID != "" {
		uid = &userID
	}

	voteID := auth.NewID()
	_, err := db.Exec(context.Background(), d, d.Insert(db.VoteTable).Rows(goqu.Record{
		"id":         voteID,
		"poll_id":    pollID,
		"option_id":  optionID,
		"user_id":    uid,
		"created_at": at.UTC(),
	}))
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, cookies ...*http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// SessionCookie returns the session cookie set on the response, if any
func SessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
