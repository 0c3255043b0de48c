// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache is a Redis cache-aside layer for computed poll results.
// A ResultsCache without a client is valid; every operation is then a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultsTTL bounds how stale a cached result view can be if an
// invalidation is lost.
const ResultsTTL = 30 * time.Second

type ResultsCache struct {
	rdb *redis.Client
}

// NewResultsCache connects to redisURL. An empty URL, a bad URL or a failed
// ping yields a disabled cache rather than an error.
func NewResultsCache(redisURL string) *ResultsCache {
	if redisURL == "" {
		slog.Info("redis not configured, results caching disabled")
		return &ResultsCache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("invalid redis URL, results caching disabled", "error", err)
		return &ResultsCache{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis connection failed, results caching disabled", "error", err)
		rdb.Close()
		return &ResultsCache{}
	}

	slog.Info("redis connected, results caching enabled")
	return &ResultsCache{rdb: rdb}
}

// NewWithClient wraps an existing client. A nil client disables the cache.
func NewWithClient(rdb *redis.Client) *ResultsCache {
	return &ResultsCache{rdb: rdb}
}

// Enabled reports whether a Redis client is attached
func (c *ResultsCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Client returns the underlying client for health checks. May be nil.
func (c *ResultsCache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// Get returns the cached results document for key, or nil on a miss
func (c *ResultsCache) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, resultsKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Set stores v as the results document for key
func (c *ResultsCache) Set(ctx context.Context, key string, v interface{}) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, resultsKey(key), b, ResultsTTL).Err()
}

// Invalidate drops the cached results stored under any of keys (a poll's id
// and slug both address it).
func (c *ResultsCache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = resultsKey(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *ResultsCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

func resultsKey(key string) string {
	return "pollwise:results:" + key
}
