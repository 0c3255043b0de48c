// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/models"
	"github.com/danielhkuo/pollwise/tally"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// loadPoll fetches one poll by id or slug with its options, vote counts and
// derived status. sql.ErrNoRows is returned unwrapped.
func loadPoll(ctx context.Context, d *db.DB, q db.Querier, idOrSlug string) (models.Poll, error) {
	query, args, err := d.From(db.PollTable).
		Select(db.PollColumns...).
		Where(goqu.Or(db.PollTableIDCol.Eq(idOrSlug), db.PollTableSlugCol.Eq(idOrSlug))).
		Limit(1).
		ToSQL()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := db.ScanPoll(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Poll{}, err
	}

	polls := []models.Poll{p}
	if err := attachOptions(ctx, d, q, polls); err != nil {
		return models.Poll{}, err
	}
	return polls[0], nil
}

// listPolls fetches every poll matching where (all polls when empty),
// each with options, vote counts and status.
func listPolls(ctx context.Context, d *db.DB, q db.Querier, where ...exp.Expression) ([]models.Poll, error) {
	ds := d.From(db.PollTable).Select(db.PollColumns...).Order(db.PollTableCreatedAtCol.Desc())
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	rows, err := db.Query(ctx, q, ds)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}

	polls := []models.Poll{}
	for rows.Next() {
		p, err := db.ScanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}

	if len(polls) == 0 {
		return polls, nil
	}
	if err := attachOptions(ctx, d, q, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// attachOptions fills Options, VoteCount, TotalVotes and Status in place.
// Each result set is drained before the next query runs.
func attachOptions(ctx context.Context, d *db.DB, q db.Querier, polls []models.Poll) error {
	ids := make([]string, len(polls))
	index := make(map[string]int, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
		index[p.ID] = i
	}

	counts, err := voteCounts(ctx, d, q, ids)
	if err != nil {
		return err
	}

	rows, err := db.Query(ctx, q, d.From(db.OptionTable).
		Select(db.OptionTableIDCol, db.OptionTablePollIDCol, db.OptionTableTextCol, db.OptionTablePositionCol).
		Where(db.OptionTablePollIDCol.In(ids)).
		Order(db.OptionTablePollIDCol.Asc(), db.OptionTablePositionCol.Asc()))
	if err != nil {
		return fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Order); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		o.VoteCount = counts[o.ID]

		p := &polls[index[o.PollID]]
		p.Options = append(p.Options, o)
		p.TotalVotes += o.VoteCount
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate options: %w", err)
	}

	now := time.Now()
	for i := range polls {
		polls[i].Status = tally.Status(polls[i], now)
	}
	return nil
}

// voteCounts returns vote rows per option id for the given polls
func voteCounts(ctx context.Context, d *db.DB, q db.Querier, pollIDs []string) (map[string]int, error) {
	rows, err := db.Query(ctx, q, d.From(db.VoteTable).
		Select(db.VoteTableOptionIDCol, goqu.COUNT(db.VoteTableIDCol)).
		Where(db.VoteTablePollIDCol.In(pollIDs)).
		GroupBy(db.VoteTableOptionIDCol))
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var optionID string
		var n int
		if err := rows.Scan(&optionID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionID] = n
	}
	return counts, rows.Err()
}

// loadVotes returns the vote rows of a poll, oldest first
func loadVotes(ctx context.Context, d *db.DB, q db.Querier, pollID string) ([]models.Vote, error) {
	rows, err := db.Query(ctx, q, d.From(db.VoteTable).
		Select(db.VoteTableIDCol, db.VoteTableOptionIDCol, db.VoteTableCreatedAtCol).
		Where(db.VoteTablePollIDCol.Eq(pollID)).
		Order(db.VoteTableCreatedAtCol.Asc()))
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v := models.Vote{PollID: pollID}
		if err := rows.Scan(&v.ID, &v.OptionID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// pollAcceptsVotes reports whether votes may be recorded; drafts, expired
// and archived polls are closed.
func pollAcceptsVotes(p models.Poll) bool {
	return p.Status == models.StatusActive
}
