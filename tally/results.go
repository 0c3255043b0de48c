// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally holds the pure functions behind poll listings and result
// views: percentages, leading option, status, filtering, sorting and text helpers.
package tally

import (
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/pollwise/models"
)

// CalculatePercentage returns round(votes/total*100), or 0 when total is 0
func CalculatePercentage(votes, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// LeadingOption returns the option with the most votes.
// Ties go to the earliest option; ok is false for an empty slice.
func LeadingOption(stats []models.OptionStat) (lead models.OptionStat, ok bool) {
	if len(stats) == 0 {
		return models.OptionStat{}, false
	}

	lead = stats[0]
	for _, s := range stats[1:] {
		if s.Votes > lead.Votes {
			lead = s
		}
	}
	return lead, true
}

// ComputeStats aggregates votes per option (in option order) and per UTC day
func ComputeStats(options []models.PollOption, votes []models.Vote) models.PollStats {
	counts := make(map[string]int, len(options))
	byDay := make(map[string]int)
	total := 0

	for _, v := range votes {
		counts[v.OptionID]++
		byDay[v.CreatedAt.UTC().Format(time.DateOnly)]++
		total++
	}

	sorted := make([]models.PollOption, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	stats := models.PollStats{
		TotalVotes:    total,
		OptionStats:   make([]models.OptionStat, 0, len(sorted)),
		VotingHistory: make([]models.HistoryPoint, 0, len(byDay)),
	}

	for _, opt := range sorted {
		n := counts[opt.ID]
		stats.OptionStats = append(stats.OptionStats, models.OptionStat{
			OptionID:   opt.ID,
			Text:       opt.Text,
			Votes:      n,
			Percentage: CalculatePercentage(n, total),
		})
	}

	for day, n := range byDay {
		stats.VotingHistory = append(stats.VotingHistory, models.HistoryPoint{Date: day, Votes: n})
	}
	// YYYY-MM-DD sorts lexically
	sort.Slice(stats.VotingHistory, func(i, j int) bool {
		return stats.VotingHistory[i].Date < stats.VotingHistory[j].Date
	})

	return stats
}
