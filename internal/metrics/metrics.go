// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package metrics defines the Prometheus instrumentation for the service:
// HTTP latency and throughput, vector search performance, record store
// efficiency, embedding/LLM provider health, and the interaction event
// pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Vector Index Metrics
	VectorSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vector_search_duration_seconds",
			Help:    "Duration of vector index searches in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	VectorIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vector_index_size",
			Help: "Current number of vectors in the index (including duplicates)",
		},
	)

	VectorIndexUpgrades = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vector_index_upgrades_total",
			Help: "Number of flat-to-IVF index structure upgrades (at most one per process)",
		},
	)

	VectorSnapshotsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vector_snapshots_saved_total",
			Help: "Number of index snapshots written to disk",
		},
	)

	// Record Store Metrics
	RecordStoreHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_store_hits_total",
			Help: "Record lookups that found a live record",
		},
	)

	RecordStoreMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_store_misses_total",
			Help: "Record lookups that found nothing (absent or expired)",
		},
	)

	RecordStoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_store_errors_total",
			Help: "Record store operations that failed with an availability error",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total recommendation requests by outcome kind",
		},
		[]string{"kind"}, // ok, empty, degraded, error
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end duration of the embed-search-fetch-rank pipeline",
			Buckets: prometheus.DefBuckets,
		},
	)

	CandidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_candidates_dropped_total",
			Help: "Candidates dropped before ranking",
		},
		[]string{"reason"}, // below_threshold, missing_record, store_error, allergy
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "In-process cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "In-process cache misses",
		},
		[]string{"cache"},
	)

	// Embedding Provider Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Embedding provider calls by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	EmbeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Duration of embedding provider calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	// LLM Metrics
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Chat-completion calls by outcome",
		},
		[]string{"outcome"}, // success, failure, retry
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Interaction Event Metrics
	InteractionEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_events_published_total",
			Help: "Interaction events published to the in-process bus",
		},
		[]string{"type"},
	)

	InteractionEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_events_consumed_total",
			Help: "Interaction events persisted by the consumer",
		},
		[]string{"type", "outcome"},
	)
)

// ObserveHTTPRequest records a completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveDBQuery records a database query duration, or an error.
func ObserveDBQuery(operation, table string, start time.Time, err error) {
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
		return
	}
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
