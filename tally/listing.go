// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/pollwise/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Status derives a poll's display status at time now
func Status(p models.Poll, now time.Time) string {
	switch {
	case !p.IsActive:
		return models.StatusArchived
	case p.ExpiresAt != nil && p.ExpiresAt.Before(now):
		return models.StatusExpired
	case len(p.Options) < models.MinOptions:
		return models.StatusDraft
	}
	return models.StatusActive
}

// IsExpired reports whether the poll has an expiry in the past
func IsExpired(p models.Poll, now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// ValidStatus reports whether s names a poll status
func ValidStatus(s string) bool {
	switch s {
	case models.StatusActive, models.StatusExpired, models.StatusDraft, models.StatusArchived:
		return true
	}
	return false
}

// FilterPolls returns the polls matching every set field of f.
// Status compares against Poll.Status, so callers derive it first.
func FilterPolls(polls []models.Poll, f models.FilterOptions) []models.Poll {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))

	out := make([]models.Poll, 0, len(polls))
	for _, p := range polls {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.CreatedBy != "" && p.CreatedBy != f.CreatedBy {
			continue
		}
		if f.DateRange != nil {
			if p.CreatedAt.Before(f.DateRange.Start) || p.CreatedAt.After(f.DateRange.End) {
				continue
			}
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p models.Poll, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), query)
}

// ValidSortField reports whether field can be passed to SortPolls
func ValidSortField(field string) bool {
	switch field {
	case models.SortCreatedAt, models.SortUpdatedAt, models.SortTitle, models.SortTotalVotes:
		return true
	}
	return false
}

// SortPolls sorts polls in place, stably. Unknown fields sort by createdAt;
// any direction other than "asc" is descending.
func SortPolls(polls []models.Poll, s models.SortOptions) {
	less := func(a, b models.Poll) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch s.Field {
	case models.SortUpdatedAt:
		less = func(a, b models.Poll) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case models.SortTitle:
		less = func(a, b models.Poll) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case models.SortTotalVotes:
		less = func(a, b models.Poll) bool { return a.TotalVotes < b.TotalVotes }
	}

	asc := s.Direction == models.SortAsc
	sort.SliceStable(polls, func(i, j int) bool {
		if asc {
			return less(polls[i], polls[j])
		}
		return less(polls[j], polls[i])
	})
}

// Paginate clamps page/limit and computes page metadata for total items.
// It returns the pagination block and the [start, end) slice bounds.
func Paginate(total, page, limit int) (models.Pagination, int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if page < 1 {
		page = 1
	}

	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return models.Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, start, end
}
