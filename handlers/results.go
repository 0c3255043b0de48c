// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/pollwise/cache"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/tally"
)

type ResultsHandler struct {
	db      *db.DB
	cache   *cache.ResultsCache
	metrics *metrics.Metrics
}

func NewResultsHandler(d *db.DB, rc *cache.ResultsCache, m *metrics.Metrics) *ResultsHandler {
	return &ResultsHandler{db: d, cache: rc, metrics: m}
}

// GetResults handles GET /polls/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	idOrSlug := r.PathValue("id")
	if idOrSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	ctx := r.Context()

	if h.cache.Enabled() {
		cached, err := h.cache.Get(ctx, idOrSlug)
		if err != nil {
			slog.Warn("results cache read failed", "poll", idOrSlug, "error", err)
		}
		if cached != nil {
			h.metrics.CacheHits.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		h.metrics.CacheMisses.Inc()
	}

	results, err := h.computeResults(ctx, idOrSlug, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to compute results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load results")
		return
	}

	if err := h.cache.Set(ctx, idOrSlug, results); err != nil {
		slog.Warn("results cache write failed", "poll_id", results.Poll.ID, "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

func (h *ResultsHandler) computeResults(ctx context.Context, idOrSlug string, now time.Time) (models.PollResults, error) {
	poll, err := loadPoll(ctx, h.db, h.db, idOrSlug)
	if err != nil {
		return models.PollResults{}, err
	}

	votes, err := loadVotes(ctx, h.db, h.db, poll.ID)
	if err != nil {
		return models.PollResults{}, err
	}

	stats := tally.ComputeStats(poll.Options, votes)

	results := models.PollResults{
		Poll:         poll,
		Stats:        stats,
		IsExpired:    tally.IsExpired(poll, now),
		CreatedLabel: tally.FormatDate(poll.CreatedAt),
		CreatedAgo:   tally.RelativeTime(poll.CreatedAt, now),
	}

	if stats.TotalVotes > 0 {
		if lead, ok := tally.LeadingOption(stats.OptionStats); ok {
			results.LeadingOption = &lead
		}
	}

	return results, nil
}
