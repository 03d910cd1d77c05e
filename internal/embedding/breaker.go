// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package embedding

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
)

// BreakerProvider wraps a Provider with a circuit breaker so a failing
// upstream fails fast instead of stalling every recommendation request
// behind a 30 second timeout.
//
// Breaker policy:
//   - opens at a 60% failure rate with at least 10 requests observed
//   - 1 minute measurement window in the closed state
//   - 2 minute cooldown before half-open probing
//   - 3 concurrent requests allowed while half-open
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[[][]float32]
}

// NewBreakerProvider wraps the given provider.
func NewBreakerProvider(inner Provider, logger zerolog.Logger) *BreakerProvider {
	const cbName = "embedding-api"
	log := logger.With().Str("component", "embedding_breaker").Logger()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening embedding circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			log.Info().Str("from", fromStr).Str("to", toStr).Msg("Embedding circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerProvider{inner: inner, cb: cb}
}

// Embed delegates to the wrapped provider under circuit protection.
func (b *BreakerProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return b.cb.Execute(func() ([][]float32, error) {
		return b.inner.Embed(ctx, texts)
	})
}

// Dimension delegates to the wrapped provider.
func (b *BreakerProvider) Dimension() int {
	return b.inner.Dimension()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
