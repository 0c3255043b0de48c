// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/pollwise/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Vote kinds recorded on VotesTotal
const (
	VoteSignedIn  = "signed_in"
	VoteAnonymous = "anonymous"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	VotesTotal       *prometheus.CounterVec
	PollsCreated     prometheus.Counter
	SignUps          prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// New registers every collector on a fresh registry. db may be nil; when set,
// its pool statistics are exported too.
func New(db *sql.DB) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		VotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pollwise_votes_total",
				Help: "Total vote rows recorded, by voter kind.",
			},
			[]string{"kind"},
		),
		PollsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_polls_created_total",
			Help: "Total polls created.",
		}),
		SignUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_signups_total",
			Help: "Total accounts registered.",
		}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pollwise_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by route, method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pollwise_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_results_cache_hits_total",
			Help: "Results served from Redis.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_results_cache_misses_total",
			Help: "Results computed from the database.",
		}),
	}

	m.Registry.MustRegister(
		m.VotesTotal,
		m.PollsCreated,
		m.SignUps,
		m.RequestDuration,
		m.RequestsInFlight,
		m.CacheHits,
		m.CacheMisses,
		collectors.NewGoCollector(),
	)
	if db != nil {
		m.Registry.MustRegister(collectors.NewDBStatsCollector(db, "pollwise"))
	}

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Instrument records duration and in-flight count for next under the route
// pattern, which keeps label cardinality bounded.
func (m *Metrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next(rec, r)

		m.RequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(rec.Status)).
			Observe(time.Since(start).Seconds())
	}
}

// RecordVotes counts n vote rows of the given kind
func (m *Metrics) RecordVotes(kind string, n int) {
	m.VotesTotal.WithLabelValues(kind).Add(float64(n))
}
