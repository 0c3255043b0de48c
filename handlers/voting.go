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
	"github.com/danielhkuo/pollwise/cache"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/session"
	"github.com/doug-martin/goqu/v9"
)

type VotingHandler struct {
	db       *db.DB
	cfg      cliparse.Config
	sessions *session.Manager
	cache    *cache.ResultsCache
	metrics  *metrics.Metrics
}

func NewVotingHandler(d *db.DB, cfg cliparse.Config, sessions *session.Manager, rc *cache.ResultsCache, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{db: d, cfg: cfg, sessions: sessions, cache: rc, metrics: m}
}

// SubmitVote handles POST /polls/{id}/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	idOrSlug := r.PathValue("id")
	if idOrSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx := r.Context()

	// Optional session: anonymous voters are keyed by IP hash instead
	var userID *string
	user, err := h.sessions.User(ctx, r)
	switch {
	case err == nil:
		userID = &user.ID
	case errors.Is(err, session.ErrNoSession):
	default:
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	defer tx.Rollback()

	poll, err := loadPoll(ctx, h.db, tx, idOrSlug)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !pollAcceptsVotes(poll) {
		middleware.ErrorResponse(w, http.StatusConflict, "This poll is no longer accepting votes")
		return
	}

	if poll.RequireAuth && userID == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in to vote on this poll")
		return
	}

	if msg := validateSelection(poll, req.OptionIDs); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSalt)

	// Single-vote polls carry a voter key; the (poll_id, voter_key) UNIQUE
	// constraint rejects a second submission.
	var voterKey *string
	if !poll.AllowMultipleVotes {
		key := "ip:" + ipHash
		if userID != nil {
			key = "user:" + *userID
		}
		voterKey = &key
	}

	var voterName, voterEmail *string
	if req.VoterInfo != nil {
		voterName = nonEmpty(req.VoterInfo.Name)
		voterEmail = nonEmpty(req.VoterInfo.Email)
	}

	now := time.Now().UTC()
	voteIDs := make([]string, 0, len(req.OptionIDs))
	for _, optionID := range req.OptionIDs {
		voteID := auth.NewID()
		_, err := db.Exec(ctx, tx, h.db.Insert(db.VoteTable).Rows(goqu.Record{
			"id":          voteID,
			"poll_id":     poll.ID,
			"option_id":   optionID,
			"user_id":     userID,
			"voter_name":  voterName,
			"voter_email": voterEmail,
			"ip_hash":     ipHash,
			"voter_key":   voterKey,
			"created_at":  now,
		}))
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this poll")
			return
		}
		if err != nil {
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
		voteIDs = append(voteIDs, voteID)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this poll")
			return
		}
		slog.Error("failed to commit votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	kind := metrics.VoteAnonymous
	if userID != nil {
		kind = metrics.VoteSignedIn
	}
	h.metrics.RecordVotes(kind, len(voteIDs))

	if err := h.cache.Invalidate(ctx, poll.ID, poll.Slug); err != nil {
		slog.Warn("failed to invalidate results cache", "poll_id", poll.ID, "error", err)
	}

	slog.Info("vote recorded", "poll_id", poll.ID, "options", len(voteIDs), "kind", kind)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		VoteIDs: voteIDs,
		Message: "Vote recorded successfully",
	})
}

// validateSelection returns a client-facing message for an unacceptable
// set of option ids, or "" when the selection is valid for poll.
func validateSelection(poll models.Poll, optionIDs []string) string {
	if len(optionIDs) == 0 {
		return "Select at least one option"
	}
	if !poll.AllowMultipleVotes && len(optionIDs) > 1 {
		return "This poll allows only one selection"
	}

	valid := make(map[string]bool, len(poll.Options))
	for _, o := range poll.Options {
		valid[o.ID] = true
	}

	seen := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		if !valid[id] {
			return "Option does not belong to this poll"
		}
		if seen[id] {
			return "Each option can only be selected once"
		}
		seen[id] = true
	}
	return ""
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
