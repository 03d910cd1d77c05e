// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/database"
	"github.com/ramalmr/cocktail-advisor/internal/events"
	"github.com/ramalmr/cocktail-advisor/internal/models"
	"github.com/ramalmr/cocktail-advisor/internal/recommend"
)

// ChatService is the conversational surface the handlers need.
type ChatService interface {
	Process(ctx context.Context, userID, message string) *models.ChatResponse
	HistoryFor(userID string, limit int) []models.ChatMessage
}

// Engine is the recommendation surface the handlers need.
type Engine interface {
	Recommend(ctx context.Context, query string, prefs *models.UserPreference, limit int) (*recommend.Result, error)
	Search(ctx context.Context, query string, k int) (*recommend.SimilarResult, error)
}

// Store is the relational persistence surface the handlers need.
type Store interface {
	GetCocktail(ctx context.Context, id int64) (*models.Cocktail, error)
	ListIngredients(ctx context.Context, prefix string, limit int) ([]string, error)
	CountCocktails(ctx context.Context) (int, error)
	GetPreferences(ctx context.Context, userID string) (*models.UserPreference, error)
	UpsertPreferences(ctx context.Context, prefs *models.UserPreference) error
	PopularCocktails(ctx context.Context, limit int) ([]database.PopularCocktail, error)
	PopularIngredients(ctx context.Context, limit int) ([]database.PopularIngredient, error)
	Ping(ctx context.Context) error
}

// Authenticator checks credentials and issues session tokens.
type Authenticator interface {
	Login(username, password string) (string, error)
}

// IndexStats reports vector index state for health and stats output.
type IndexStats interface {
	Len() int
	Clustered() bool
}

// Handlers bundles the dependencies behind the HTTP endpoints.
type Handlers struct {
	chat      ChatService
	engine    Engine
	store     Store
	auth      Authenticator
	index     IndexStats
	publisher events.Publisher
	logger    zerolog.Logger

	version   string
	startTime time.Time
	ready     atomic.Bool
}

func NewHandlers(chat ChatService, engine Engine, store Store, auth Authenticator,
	index IndexStats, publisher events.Publisher, version string, logger zerolog.Logger) *Handlers {
	return &Handlers{
		chat:      chat,
		engine:    engine,
		store:     store,
		auth:      auth,
		index:     index,
		publisher: publisher,
		logger:    logger.With().Str("component", "api").Logger(),
		version:   version,
		startTime: time.Now(),
	}
}

// SetReady flips the readiness gate once startup ingestion completes.
func (h *Handlers) SetReady(ready bool) {
	h.ready.Store(ready)
}

// HandleHealth reports liveness plus basic component state.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	dbStatus := "ok"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		dbStatus = "unavailable"
	}

	rw.Success(map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"database":       dbStatus,
		"vector_index": map[string]interface{}{
			"size":      h.index.Len(),
			"clustered": h.index.Clustered(),
		},
	})
}

// HandleReady reports readiness; the gate opens after ingestion.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.ready.Load() {
		rw.ServiceUnavailable("service is starting up")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// HandlePopularCocktails lists cocktails by interaction count.
func (h *Handlers) HandlePopularCocktails(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	limit := clamp(queryInt(r, "limit", 10), 1, 50)

	popular, err := h.store.PopularCocktails(r.Context(), limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithCount(popular, len(popular))
}

// HandlePopularIngredients lists ingredients by usage count.
func (h *Handlers) HandlePopularIngredients(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	limit := clamp(queryInt(r, "limit", 10), 1, 100)

	popular, err := h.store.PopularIngredients(r.Context(), limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithCount(popular, len(popular))
}

// HandleStats reports catalog-level counters.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	count, err := h.store.CountCocktails(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]interface{}{
		"cocktails":          count,
		"vector_index_size":  h.index.Len(),
		"vector_index_ivf":   h.index.Clustered(),
		"uptime_seconds":     int64(time.Since(h.startTime).Seconds()),
	})
}

func (h *Handlers) publish(event *events.InteractionEvent) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(event); err != nil {
		h.logger.Warn().Err(err).Str("type", event.Type).Msg("Interaction event dropped")
	}
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
