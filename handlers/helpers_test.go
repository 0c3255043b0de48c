// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/danielhkuo/pollwise/cache"
	"github.com/danielhkuo/pollwise/cliparse"
	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/metrics"
	"github.com/danielhkuo/pollwise/session"
	"github.com/danielhkuo/pollwise/testutil"
	"github.com/redis/go-redis/v9"
)

// testEnv bundles what every handler constructor needs
type testEnv struct {
	db       *db.DB
	cfg      cliparse.Config
	sessions *session.Manager
	cache    *cache.ResultsCache
	metrics  *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	return &testEnv{
		db:       d,
		cfg:      cfg,
		sessions: session.NewManager(d, cfg),
		cache:    cache.NewWithClient(nil),
		metrics:  metrics.New(nil),
	}
}

// newCachedTestEnv is newTestEnv with the results cache backed by an
// in-process Redis server
func newCachedTestEnv(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	env := newTestEnv(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	env.cache = cache.NewWithClient(rdb)
	return env, mr
}

func (e *testEnv) auth() *AuthHandler {
	return NewAuthHandler(e.db, e.cfg, e.sessions, e.metrics)
}

func (e *testEnv) polls() *PollHandler {
	return NewPollHandler(e.db, e.cfg, e.cache, e.metrics)
}

func (e *testEnv) voting() *VotingHandler {
	return NewVotingHandler(e.db, e.cfg, e.sessions, e.cache, e.metrics)
}

func (e *testEnv) results() *ResultsHandler {
	return NewResultsHandler(e.db, e.cache, e.metrics)
}

func strPtr(s string) *string { return &s }
