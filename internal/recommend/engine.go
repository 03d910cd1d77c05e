// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/cache"
	"github.com/ramalmr/cocktail-advisor/internal/metrics"
	"github.com/ramalmr/cocktail-advisor/internal/models"
	"github.com/ramalmr/cocktail-advisor/internal/vector"
)

// ErrEmbedding wraps embedding-provider failures. A recommendation
// request cannot proceed without a query vector, so these propagate to
// the caller instead of degrading the result.
var ErrEmbedding = errors.New("recommend: embedding failed")

// ResultKind tells callers apart the three shapes a recommendation
// outcome can take, so an empty list from a healthy pipeline is
// distinguishable from one produced under infrastructure failure.
type ResultKind string

const (
	// KindOK means the pipeline ran cleanly.
	KindOK ResultKind = "ok"
	// KindEmpty means the pipeline ran cleanly but nothing cleared
	// the similarity threshold or survived filtering.
	KindEmpty ResultKind = "empty"
	// KindDegraded means record lookups failed mid-request and the
	// list may be missing candidates the index matched.
	KindDegraded ResultKind = "degraded"
)

// Embedder turns texts into fixed-dimension vectors, order-preserving.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher is the vector-index read surface the engine depends on.
type Searcher interface {
	Search(query []float32, k int) ([]vector.Hit, error)
}

// RecordGetter resolves a cocktail ID to its stored document. The
// boolean reports presence; the error is reserved for store failures.
type RecordGetter interface {
	Get(id int64) (*models.Cocktail, bool, error)
}

// Config bounds and tunes the recommendation pipeline.
type Config struct {
	// DefaultLimit applies when the caller passes limit <= 0.
	DefaultLimit int `koanf:"default_limit"`
	// MaxLimit caps the caller-supplied limit.
	MaxLimit int `koanf:"max_limit"`
	// Overfetch multiplies the limit for the index search so that
	// filtering and allergy exclusion still leave enough candidates.
	Overfetch int `koanf:"overfetch"`
	// MinSimilarity drops index hits below this similarity.
	MinSimilarity float64 `koanf:"min_similarity"`
	// CacheTTL bounds how long an identical recommendation request is
	// answered from cache. Zero disables response caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	Weights Weights `koanf:"weights"`
}

// Validate checks the config for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("recommend: default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("recommend: max_limit %d below default_limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.Overfetch < 1 {
		return fmt.Errorf("recommend: overfetch must be at least 1, got %d", c.Overfetch)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("recommend: min_similarity must be in [0,1], got %v", c.MinSimilarity)
	}
	return nil
}

// Result is one recommendation outcome.
type Result struct {
	Cocktails []*models.Cocktail
	Kind      ResultKind
	// Dropped counts candidates the index matched but the result
	// omits: below-threshold hits, unresolvable records and store
	// failures.
	Dropped int
}

// Match pairs a resolved cocktail with its raw index similarity.
type Match struct {
	Cocktail   *models.Cocktail
	Similarity float64
}

// SimilarResult is the outcome of a raw similarity lookup.
type SimilarResult struct {
	Matches []Match
	Kind    ResultKind
	Dropped int
}

// Engine composes embedding, vector search, record resolution and
// preference ranking. All collaborators are injected; the engine owns
// no goroutines and is safe for concurrent use.
type Engine struct {
	cfg      Config
	embedder Embedder
	searcher Searcher
	records  RecordGetter
	cache    *cache.Cache
	logger   zerolog.Logger
}

// NewEngine wires the pipeline. The cache is optional: pass nil to
// disable response memoization.
func NewEngine(cfg Config, embedder Embedder, searcher Searcher, records RecordGetter, c *cache.Cache, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil || searcher == nil || records == nil {
		return nil, errors.New("recommend: embedder, searcher and records are required")
	}
	return &Engine{
		cfg:      cfg,
		embedder: embedder,
		searcher: searcher,
		records:  records,
		cache:    c,
		logger:   logger.With().Str("component", "recommend_engine").Logger(),
	}, nil
}

// Recommend runs the full pipeline for a free-text query. Preferences
// are optional: with prefs the candidates are preference-ranked, and
// without them they stay in raw similarity order. The returned list is
// never longer than the effective limit.
func (e *Engine) Recommend(ctx context.Context, query string, prefs *models.UserPreference, limit int) (*Result, error) {
	start := time.Now()
	limit = e.clampLimit(limit)

	cacheKey := ""
	if e.cache != nil && e.cfg.CacheTTL > 0 {
		cacheKey = cache.GenerateKey("recommend", struct {
			Query string
			Prefs *models.UserPreference
			Limit int
		}{query, prefs, limit})
		if cached, ok := e.cache.Get(cacheKey); ok {
			metrics.CacheHits.WithLabelValues("recommend").Inc()
			return cached.(*Result), nil
		}
		metrics.CacheMisses.WithLabelValues("recommend").Inc()
	}

	vec, err := e.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := e.searcher.Search(vec, limit*e.cfg.Overfetch)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}

	candidates, dropped, degraded := e.resolve(hits)

	if prefs != nil {
		candidates = Rank(candidates, prefs, e.cfg.Weights)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := &Result{
		Cocktails: candidates,
		Kind:      resultKind(len(candidates), degraded),
		Dropped:   dropped,
	}

	metrics.RecommendationRequests.WithLabelValues(string(result.Kind)).Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	if cacheKey != "" && result.Kind != KindDegraded {
		e.cache.SetWithTTL(cacheKey, result, e.cfg.CacheTTL)
	}
	return result, nil
}

// FindSimilar resolves the k nearest cocktails to a pre-computed query
// vector, keeping raw similarities and skipping preference ranking. A
// non-positive minSimilarity falls back to the configured threshold.
func (e *Engine) FindSimilar(ctx context.Context, queryVec []float32, k int, minSimilarity float64) (*SimilarResult, error) {
	if minSimilarity <= 0 {
		minSimilarity = e.cfg.MinSimilarity
	}
	k = e.clampLimit(k)

	hits, err := e.searcher.Search(queryVec, k*e.cfg.Overfetch)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}

	var (
		matches  []Match
		dropped  int
		degraded bool
	)
	for _, hit := range hits {
		if hit.Similarity < minSimilarity {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("below_similarity").Inc()
			continue
		}
		c, ok, err := e.records.Get(hit.ID)
		if err != nil {
			degraded = true
			dropped++
			metrics.CandidatesDropped.WithLabelValues("store_error").Inc()
			e.logger.Warn().Err(err).Int64("cocktail_id", hit.ID).Msg("Record fetch failed during similarity lookup")
			continue
		}
		if !ok {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("missing_record").Inc()
			continue
		}
		matches = append(matches, Match{Cocktail: c, Similarity: hit.Similarity})
		if len(matches) == k {
			break
		}
	}

	return &SimilarResult{
		Matches: matches,
		Kind:    resultKind(len(matches), degraded),
		Dropped: dropped,
	}, nil
}

// Search embeds a free-text query and returns raw similarity matches.
// It is the text-query front of FindSimilar.
func (e *Engine) Search(ctx context.Context, query string, k int) (*SimilarResult, error) {
	vec, err := e.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return e.FindSimilar(ctx, vec, k, e.cfg.MinSimilarity)
}

func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: provider returned %d vectors for 1 text", ErrEmbedding, len(vectors))
	}
	return vectors[0], nil
}

// resolve fetches records for index hits, applying the similarity
// threshold. Missing records are tolerated; store failures mark the
// request degraded.
func (e *Engine) resolve(hits []vector.Hit) (candidates []*models.Cocktail, dropped int, degraded bool) {
	for _, hit := range hits {
		if hit.Similarity < e.cfg.MinSimilarity {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("below_similarity").Inc()
			continue
		}
		c, ok, err := e.records.Get(hit.ID)
		if err != nil {
			degraded = true
			dropped++
			metrics.CandidatesDropped.WithLabelValues("store_error").Inc()
			e.logger.Warn().Err(err).Int64("cocktail_id", hit.ID).Msg("Record fetch failed during recommendation")
			continue
		}
		if !ok {
			dropped++
			metrics.CandidatesDropped.WithLabelValues("missing_record").Inc()
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, dropped, degraded
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

func resultKind(n int, degraded bool) ResultKind {
	switch {
	case degraded:
		return KindDegraded
	case n == 0:
		return KindEmpty
	default:
		return KindOK
	}
}
