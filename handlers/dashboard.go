// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/session"
	"github.com/danielhkuo/pollwise/tally"
)

type DashboardHandler struct {
	db *db.DB
}

func NewDashboardHandler(d *db.DB) *DashboardHandler {
	return &DashboardHandler{db: d}
}

// Dashboard handles GET /dashboard (behind RequireUser)
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}

	polls, err := listPolls(r.Context(), h.db, h.db, db.PollTableCreatedByCol.Eq(user.ID))
	if err != nil {
		slog.Error("failed to list user polls", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		User:  user,
		Polls: polls,
		Stats: dashboardStats(polls),
	})
}

// MyPolls handles GET /dashboard/polls (behind RequireUser), newest first
func (h *DashboardHandler) MyPolls(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}

	polls, err := listPolls(r.Context(), h.db, h.db, db.PollTableCreatedByCol.Eq(user.ID))
	if err != nil {
		slog.Error("failed to list user polls", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

func dashboardStats(polls []models.Poll) models.DashboardStats {
	stats := models.DashboardStats{TotalPolls: len(polls)}
	for _, p := range polls {
		if p.Status == models.StatusActive {
			stats.ActivePolls++
		}
		stats.TotalVotes += p.TotalVotes
	}
	stats.TotalVotesLabel = tally.FormatCount(stats.TotalVotes)
	return stats
}
