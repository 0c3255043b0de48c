// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/testutil"
	"github.com/doug-martin/goqu/v9"
)

func countSessions(t *testing.T, d *db.DB) int {
	t.Helper()
	var n int
	if err := db.Get(context.Background(), d, d.From(db.SessionTable).Select(goqu.COUNT(goqu.Star())), &n); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	return n
}

func TestCreateAndResolve(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	m := NewManager(d, cfg)
	user := testutil.CreateTestUser(t, d, "alice")

	w := httptest.NewRecorder()
	if err := m.Create(context.Background(), w, user.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cookie := testutil.SessionCookie(w, cfg.CookieName)
	if cookie == nil {
		t.Fatal("Expected a session cookie")
	}
	if !cookie.HttpOnly || cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("Unexpected cookie attributes %+v", cookie)
	}
	if cookie.MaxAge != int(cfg.SessionTTL.Seconds()) {
		t.Errorf("Expected MaxAge %d, got %d", int(cfg.SessionTTL.Seconds()), cookie.MaxAge)
	}

	// Only the hash is stored
	var stored string
	if err := db.Get(context.Background(), d, d.From(db.SessionTable).Select(db.SessionTableTokenHashCol), &stored); err != nil {
		t.Fatalf("Failed to read session: %v", err)
	}
	if stored == cookie.Value {
		t.Error("Session token stored in plain text")
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	got, err := m.User(context.Background(), req)
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	if got.ID != user.ID || got.Username != "alice" {
		t.Errorf("User() = %+v, want %s", got, user.ID)
	}
}

func TestUser_Invalid(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	m := NewManager(d, cfg)

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"empty value", &http.Cookie{Name: cfg.CookieName, Value: ""}},
		{"unknown token", &http.Cookie{Name: cfg.CookieName, Value: "not-a-real-token"}},
		{"other cookie name", &http.Cookie{Name: "something_else", Value: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if _, err := m.User(context.Background(), req); !errors.Is(err, ErrNoSession) {
				t.Errorf("User() error = %v, want ErrNoSession", err)
			}
		})
	}
}

func TestUser_Expired(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	m := NewManager(d, cfg)
	user := testutil.CreateTestUser(t, d, "bob")
	cookie := testutil.CreateTestSession(t, d, cfg, user.ID)

	m.now = func() time.Time { return time.Now().Add(cfg.SessionTTL + time.Minute) }

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	if _, err := m.User(context.Background(), req); !errors.Is(err, ErrNoSession) {
		t.Fatalf("User() error = %v, want ErrNoSession", err)
	}
	if n := countSessions(t, d); n != 0 {
		t.Errorf("Expected expired session to be deleted, %d left", n)
	}
}

func TestDestroy(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	m := NewManager(d, cfg)
	user := testutil.CreateTestUser(t, d, "carol")
	cookie := testutil.CreateTestSession(t, d, cfg, user.ID)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()

	if err := m.Destroy(context.Background(), w, req); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if n := countSessions(t, d); n != 0 {
		t.Errorf("Expected session removed, %d left", n)
	}

	cleared := testutil.SessionCookie(w, cfg.CookieName)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("Expected cookie cleared, got %+v", cleared)
	}

	// Without a cookie Destroy still clears and succeeds
	w = httptest.NewRecorder()
	if err := m.Destroy(context.Background(), w, httptest.NewRequest("POST", "/auth/logout", nil)); err != nil {
		t.Fatalf("Destroy() without cookie error = %v", err)
	}
	if testutil.SessionCookie(w, cfg.CookieName) == nil {
		t.Error("Expected clearing cookie without a session")
	}
}

func TestRequireUser(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	m := NewManager(d, cfg)
	user := testutil.CreateTestUser(t, d, "dave")
	cookie := testutil.CreateTestSession(t, d, cfg, user.ID)

	var seen string
	h := m.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok {
			t.Error("Expected user in context")
		}
		seen = u.ID
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/dashboard", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without session, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusNoContent || seen != user.ID {
		t.Errorf("Expected handler to run for %s, got status %d user %q", user.ID, w.Code, seen)
	}
}

func TestUserFrom_Empty(t *testing.T) {
	if _, ok := UserFrom(context.Background()); ok {
		t.Error("Expected no user in empty context")
	}
}
