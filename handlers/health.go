// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielhkuo/pollwise/db"
	"github.com/danielhkuo/pollwise/middleware"
	"github.com/redis/go-redis/v9"
)

// Version is reported by /health
const Version = "1.0.0"

type HealthHandler struct {
	db      *db.DB
	rdb     *redis.Client
	startAt time.Time
}

// NewHealthHandler builds the health check; rdb may be nil when caching is off
func NewHealthHandler(d *db.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: d, rdb: rdb, startAt: time.Now()}
}

type dependencyCheck struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs,omitempty"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status        string                     `json:"status"`
	Checks        map[string]dependencyCheck `json:"checks"`
	UptimeSeconds int                        `json:"uptimeSeconds"`
	Version       string                     `json:"version"`
}

// Health handles GET /health. The database is required; Redis is optional,
// so "disabled" does not degrade the service.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]dependencyCheck{
		"database": checkDB(ctx, h.db),
		"redis":    checkRedis(ctx, h.rdb),
	}

	overall := "healthy"
	for _, c := range checks {
		if c.Status == "down" {
			overall = "degraded"
		}
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}

	middleware.JSONResponse(w, status, healthResponse{
		Status:        overall,
		Checks:        checks,
		UptimeSeconds: int(time.Since(h.startAt).Seconds()),
		Version:       Version,
	})
}

func checkDB(ctx context.Context, d *db.DB) dependencyCheck {
	start := time.Now()
	err := d.PingContext(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return dependencyCheck{Status: "down", LatencyMS: latency, Error: "connection failed"}
	}
	return dependencyCheck{Status: "up", LatencyMS: latency}
}

func checkRedis(ctx context.Context, rdb *redis.Client) dependencyCheck {
	if rdb == nil {
		return dependencyCheck{Status: "disabled"}
	}

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return dependencyCheck{Status: "down", LatencyMS: latency, Error: "connection failed"}
	}
	return dependencyCheck{Status: "up", LatencyMS: latency}
}
