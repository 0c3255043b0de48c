// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/pollwise/auth"
	"github.com/danielhkuo/pollwise/cache"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/session"
	"github.com/danielhkuo/pollwise/tally"
	"github.com/doug-martin/goqu/v9"
)

type PollHandler struct {
	db      *db.DB
	cfg     cliparse.Config
	cache   *cache.ResultsCache
	metrics *metrics.Metrics
}

func NewPollHandler(d *db.DB, cfg cliparse.Config, rc *cache.ResultsCache, m *metrics.Metrics) *PollHandler {
	return &PollHandler{db: d, cfg: cfg, cache: rc, metrics: m}
}

// CreatePoll handles POST /polls (behind RequireUser)
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := time.Now().UTC()
	title, description, options, err := validatePoll(req, now)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	poll := models.Poll{
		ID:                 auth.NewID(),
		Title:              title,
		CreatedBy:          user.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
		IsActive:           true,
		AllowMultipleVotes: req.AllowMultipleVotes,
		RequireAuth:        req.RequireAuth,
		Options:            make([]models.PollOption, 0, len(options)),
	}
	if description != "" {
		poll.Description = &description
	}
	if req.ExpiresAt != nil {
		expires := req.ExpiresAt.UTC()
		poll.ExpiresAt = &expires
	}

	base := tally.GenerateSlug(title)
	if base == "" {
		base = "poll"
	}
	poll.Slug = base + "-" + auth.ShareSuffix(poll.ID, h.cfg.SessionSalt)

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}
	defer tx.Rollback()

	_, err = db.Exec(ctx, tx, h.db.Insert(db.PollTable).Rows(goqu.Record{
		"id":                   poll.ID,
		"title":                poll.Title,
		"description":          poll.Description,
		"created_by":           poll.CreatedBy,
		"created_at":           poll.CreatedAt,
		"updated_at":           poll.UpdatedAt,
		"expires_at":           poll.ExpiresAt,
		"is_active":            poll.IsActive,
		"allow_multiple_votes": poll.AllowMultipleVotes,
		"require_auth":         poll.RequireAuth,
		"slug":                 poll.Slug,
	}))
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	for i, text := range options {
		opt := models.PollOption{ID: auth.NewID(), PollID: poll.ID, Text: text, Order: i}
		_, err = db.Exec(ctx, tx, h.db.Insert(db.OptionTable).Rows(goqu.Record{
			"id":       opt.ID,
			"poll_id":  opt.PollID,
			"text":     opt.Text,
			"position": opt.Order,
		}))
		if err != nil {
			slog.Error("failed to insert option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		poll.Options = append(poll.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	poll.Status = tally.Status(poll, now)
	h.metrics.PollsCreated.Inc()
	slog.Info("poll created", "poll_id", poll.ID, "slug", poll.Slug, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// validatePoll trims and checks a create request, returning the cleaned
// title, description and non-blank option texts in order.
func validatePoll(req models.CreatePollRequest, now time.Time) (string, string, []string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", "", nil, errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return "", "", nil, fmt.Errorf("title must be at most %d characters", models.MaxTitleLength)
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > models.MaxDescLength {
		return "", "", nil, fmt.Errorf("description must be at most %d characters", models.MaxDescLength)
	}

	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			continue
		}
		if utf8.RuneCountInString(text) > models.MaxOptionLength {
			return "", "", nil, fmt.Errorf("each option must be at most %d characters", models.MaxOptionLength)
		}
		options = append(options, text)
	}
	if len(options) < models.MinOptions {
		return "", "", nil, fmt.Errorf("at least %d options are required", models.MinOptions)
	}
	if len(options) > models.MaxOptions {
		return "", "", nil, fmt.Errorf("at most %d options are allowed", models.MaxOptions)
	}

	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return "", "", nil, errors.New("expiration date must be in the future")
	}

	return title, description, options, nil
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	filter, sortOpts, page, limit, err := parseListQuery(r.URL.Query())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	polls, err := listPolls(r.Context(), h.db, h.db)
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	polls = tally.FilterPolls(polls, filter)
	tally.SortPolls(polls, sortOpts)

	pagination, start, end := tally.Paginate(len(polls), page, limit)

	middleware.JSONResponse(w, http.StatusOK, models.PaginatedPolls{
		Data:       polls[start:end],
		Pagination: pagination,
	})
}

// parseListQuery reads q, status, created_by, from, to, sort, dir, page and limit
func parseListQuery(v url.Values) (models.FilterOptions, models.SortOptions, int, int, error) {
	var f models.FilterOptions
	s := models.SortOptions{Field: models.SortCreatedAt, Direction: models.SortDesc}

	f.SearchQuery = strings.TrimSpace(v.Get("q"))
	f.CreatedBy = v.Get("created_by")

	if status := v.Get("status"); status != "" && status != "all" {
		if !tally.ValidStatus(status) {
			return f, s, 0, 0, fmt.Errorf("invalid status %q", status)
		}
		f.Status = status
	}

	from, to := v.Get("from"), v.Get("to")
	if from != "" || to != "" {
		rng := models.DateRange{End: time.Now().UTC()}
		if from != "" {
			t, err := parseDate(from, false)
			if err != nil {
				return f, s, 0, 0, errors.New("invalid from date")
			}
			rng.Start = t
		}
		if to != "" {
			t, err := parseDate(to, true)
			if err != nil {
				return f, s, 0, 0, errors.New("invalid to date")
			}
			rng.End = t
		}
		f.DateRange = &rng
	}

	if field := v.Get("sort"); field != "" {
		if !tally.ValidSortField(field) {
			return f, s, 0, 0, fmt.Errorf("invalid sort field %q", field)
		}
		s.Field = field
	}
	if dir := v.Get("dir"); dir != "" {
		if dir != models.SortAsc && dir != models.SortDesc {
			return f, s, 0, 0, fmt.Errorf("invalid sort direction %q", dir)
		}
		s.Direction = dir
	}

	page, err := intParam(v, "page", 1)
	if err != nil {
		return f, s, 0, 0, err
	}
	limit, err := intParam(v, "limit", tally.DefaultPageLimit)
	if err != nil {
		return f, s, 0, 0, err
	}

	return f, s, page, limit, nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD; a bare end date covers the whole day
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func intParam(v url.Values, key string, def int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// GetPoll handles GET /polls/{id}; id may also be the poll's slug
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	idOrSlug := r.PathValue("id")
	if idOrSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := loadPoll(r.Context(), h.db, h.db, idOrSlug)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/{id} (behind RequireUser)
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poll")
		return
	}
	defer tx.Rollback()

	idOrSlug := r.PathValue("id")
	var pollID, slug, owner string
	err = db.Get(ctx, tx, h.db.From(db.PollTable).
		Select(db.PollTableIDCol, db.PollTableSlugCol, db.PollTableCreatedByCol).
		Where(goqu.Or(db.PollTableIDCol.Eq(idOrSlug), db.PollTableSlugCol.Eq(idOrSlug))), &pollID, &slug, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if owner != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll creator can delete it")
		return
	}

	// Children first so the delete works without relying on cascades
	deletes := []db.Builder{
		h.db.Delete(db.VoteTable).Where(db.VoteTablePollIDCol.Eq(pollID)),
		h.db.Delete(db.OptionTable).Where(db.OptionTablePollIDCol.Eq(pollID)),
		h.db.Delete(db.PollTable).Where(db.PollTableIDCol.Eq(pollID)),
	}
	for _, d := range deletes {
		if _, err := db.Exec(ctx, tx, d); err != nil {
			slog.Error("failed to delete poll", "poll_id", pollID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poll")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit delete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poll")
		return
	}

	if err := h.cache.Invalidate(ctx, pollID, slug); err != nil {
		slog.Warn("failed to invalidate results cache", "poll_id", pollID, "error", err)
	}

	slog.Info("poll deleted", "poll_id", pollID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Poll deleted",
		"pollId":  pollID,
	})
}

// NewPollForm handles GET /polls/new (behind RequireUser)
func (h *PollHandler) NewPollForm(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.PollFormLimits{
		MinOptions:      models.MinOptions,
		MaxOptions:      models.MaxOptions,
		MaxTitleLength:  models.MaxTitleLength,
		MaxDescLength:   models.MaxDescLength,
		MaxOptionLength: models.MaxOptionLength,
	})
}
