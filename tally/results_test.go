// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"
	"time"

	"github.com/danielhkuo/pollwise/models"
)

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		votes, total, want int
	}{
		{45, 130, 35},
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{10, 10, 100},
	}

	for _, tt := range tests {
		if got := CalculatePercentage(tt.votes, tt.total); got != tt.want {
			t.Errorf("CalculatePercentage(%d, %d) = %d, want %d", tt.votes, tt.total, got, tt.want)
		}
	}
}

func TestCalculatePercentage_Bounds(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for votes := 0; votes <= total; votes++ {
			got := CalculatePercentage(votes, total)
			if got < 0 || got > 100 {
				t.Fatalf("CalculatePercentage(%d, %d) = %d out of range", votes, total, got)
			}
		}
	}
}

func TestLeadingOption(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, ok := LeadingOption(nil); ok {
			t.Error("expected ok=false for empty input")
		}
	})

	t.Run("max wins", func(t *testing.T) {
		stats := []models.OptionStat{
			{OptionID: "a", Votes: 3},
			{OptionID: "b", Votes: 9},
			{OptionID: "c", Votes: 4},
		}
		lead, ok := LeadingOption(stats)
		if !ok || lead.OptionID != "b" {
			t.Errorf("LeadingOption() = %+v, %v; want b", lead, ok)
		}
	})

	t.Run("tie goes to first", func(t *testing.T) {
		stats := []models.OptionStat{
			{OptionID: "a", Votes: 2},
			{OptionID: "b", Votes: 7},
			{OptionID: "c", Votes: 7},
		}
		lead, _ := LeadingOption(stats)
		if lead.OptionID != "b" {
			t.Errorf("LeadingOption() = %s, want b", lead.OptionID)
		}
	})

	t.Run("all zero", func(t *testing.T) {
		stats := []models.OptionStat{{OptionID: "a"}, {OptionID: "b"}}
		lead, _ := LeadingOption(stats)
		if lead.OptionID != "a" {
			t.Errorf("LeadingOption() = %s, want a", lead.OptionID)
		}
	})
}

func TestComputeStats(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 23, 59, 0, 0, time.UTC)

	options := []models.PollOption{
		{ID: "o2", Text: "Second", Order: 1},
		{ID: "o1", Text: "First", Order: 0},
		{ID: "o3", Text: "Third", Order: 2},
	}
	votes := []models.Vote{
		{OptionID: "o1", CreatedAt: day2},
		{OptionID: "o1", CreatedAt: day1},
		{OptionID: "o2", CreatedAt: day1},
	}

	stats := ComputeStats(options, votes)

	if stats.TotalVotes != 3 {
		t.Errorf("TotalVotes = %d, want 3", stats.TotalVotes)
	}

	want := []models.OptionStat{
		{OptionID: "o1", Text: "First", Votes: 2, Percentage: 67},
		{OptionID: "o2", Text: "Second", Votes: 1, Percentage: 33},
		{OptionID: "o3", Text: "Third", Votes: 0, Percentage: 0},
	}
	if len(stats.OptionStats) != len(want) {
		t.Fatalf("got %d option stats, want %d", len(stats.OptionStats), len(want))
	}
	for i, w := range want {
		if stats.OptionStats[i] != w {
			t.Errorf("OptionStats[%d] = %+v, want %+v", i, stats.OptionStats[i], w)
		}
	}

	if len(stats.VotingHistory) != 2 {
		t.Fatalf("got %d history points, want 2", len(stats.VotingHistory))
	}
	if stats.VotingHistory[0] != (models.HistoryPoint{Date: "2025-03-01", Votes: 2}) {
		t.Errorf("VotingHistory[0] = %+v", stats.VotingHistory[0])
	}
	if stats.VotingHistory[1] != (models.HistoryPoint{Date: "2025-03-02", Votes: 1}) {
		t.Errorf("VotingHistory[1] = %+v", stats.VotingHistory[1])
	}

	// input order is untouched
	if options[0].ID != "o2" {
		t.Error("ComputeStats reordered its input")
	}
}

func TestComputeStats_NoVotes(t *testing.T) {
	stats := ComputeStats([]models.PollOption{{ID: "a"}, {ID: "b", Order: 1}}, nil)

	if stats.TotalVotes != 0 {
		t.Errorf("TotalVotes = %d, want 0", stats.TotalVotes)
	}
	for _, s := range stats.OptionStats {
		if s.Percentage != 0 {
			t.Errorf("Percentage for %s = %d, want 0", s.OptionID, s.Percentage)
		}
	}
	if stats.VotingHistory == nil || len(stats.VotingHistory) != 0 {
		t.Errorf("VotingHistory = %v, want empty non-nil", stats.VotingHistory)
	}
}
