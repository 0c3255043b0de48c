// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/pollwise/cache"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	d := testutil.SetupTestDB(t)
	m := metrics.New(nil)
	return NewRouter(d, testutil.GetTestConfig(), cache.NewWithClient(nil), m), m
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Checks map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", resp.Status)
	}
	if resp.Checks["database"].Status != "up" {
		t.Errorf("Expected database up, got %s", resp.Checks["database"].Status)
	}
	if resp.Checks["redis"].Status != "disabled" {
		t.Errorf("Expected redis disabled, got %s", resp.Checks["redis"].Status)
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "pollwise API v1" {
		t.Errorf("Unexpected root body '%s'", w.Body.String())
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// 400, 401 and 404 are all valid handler answers; 405 means no route
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"POST", "/auth/signup"},
		{"POST", "/auth/login"},
		{"POST", "/auth/logout"},
		{"GET", "/auth/me"},
		{"GET", "/login"},
		{"GET", "/register"},
		{"POST", "/polls"},
		{"GET", "/polls"},
		{"GET", "/polls/test-id"},
		{"DELETE", "/polls/test-id"},
		{"POST", "/polls/test-id/votes"},
		{"GET", "/polls/test-id/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/polls/test-id/votes"},
		{"DELETE", "/polls/test-id/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestSessionGateOnRouter(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		name     string
		path     string
		cookie   bool
		status   int
		location string
	}{
		{"dashboard without cookie", "/dashboard", false, http.StatusTemporaryRedirect, "/login?returnUrl=%2Fdashboard"},
		{"new poll without cookie", "/polls/new", false, http.StatusTemporaryRedirect, "/login?returnUrl=%2Fpolls%2Fnew"},
		{"login with cookie", "/login", true, http.StatusTemporaryRedirect, "/dashboard"},
		// Cookie present but unknown: the gate lets it through, the handler rejects it
		{"dashboard with stale cookie", "/dashboard", true, http.StatusUnauthorized, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.cookie {
				req.AddCookie(&http.Cookie{Name: "pollwise_session", Value: "not-a-real-session-token-value"})
			}
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Errorf("Expected %d, got %d", tc.status, w.Code)
			}
			if loc := w.Header().Get("Location"); loc != tc.location {
				t.Errorf("Expected Location '%s', got '%s'", tc.location, loc)
			}
		})
	}
}

func TestSignUpThenDashboard(t *testing.T) {
	mux, _ := newTestRouter(t)

	body := `{"email":"ada@example.com","username":"ada","password":"Secr3tPass"}`
	req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
	cookie := testutil.SessionCookie(w, "pollwise_session")
	if cookie == nil {
		t.Fatal("Expected session cookie on sign up")
	}

	req = httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.Username != "ada" {
		t.Errorf("Expected dashboard for ada, got %q", resp.User.Username)
	}
	if resp.Stats.TotalPolls != 0 {
		t.Errorf("Expected no polls, got %d", resp.Stats.TotalPolls)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	// Generate one instrumented request first
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/polls", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `pollwise_http_request_duration_seconds_count{method="GET",route="GET /polls",status="200"} 1`) {
		t.Errorf("Expected instrumented /polls request in metrics output")
	}
}

func TestPublicRoutesForSlugStartingWithNew(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(`{"email":"nia@example.com","username":"nia","password":"Secr3tPass"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)
	cookie := testutil.SessionCookie(w, "pollwise_session")
	if cookie == nil {
		t.Fatal("Expected session cookie on sign up")
	}

	create, _ := json.Marshal(models.CreatePollRequest{
		Title:   "New office snacks",
		Options: []models.CreateOptionRequest{{Text: "Chips"}, {Text: "Fruit", Order: 1}},
	})
	req = httptest.NewRequest("POST", "/polls", strings.NewReader(string(create)))
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var poll models.Poll
	testutil.AssertJSON(t, w, &poll)
	if !strings.HasPrefix(poll.Slug, "new-office-snacks-") {
		t.Fatalf("Unexpected slug %q", poll.Slug)
	}

	vote := `{"optionIds":["` + poll.Options[0].ID + `"]}`
	tests := []struct {
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"GET", "/polls/" + poll.Slug, "", http.StatusOK},
		{"POST", "/polls/" + poll.Slug + "/votes", vote, http.StatusCreated},
		{"GET", "/polls/" + poll.Slug + "/results", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if loc := w.Header().Get("Location"); loc != "" {
				t.Errorf("Expected no redirect, got Location %q", loc)
			}
		})
	}
}
