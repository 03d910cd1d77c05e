// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramalmr/cocktail-advisor/internal/database"
	"github.com/ramalmr/cocktail-advisor/internal/events"
	"github.com/ramalmr/cocktail-advisor/internal/models"
	"github.com/ramalmr/cocktail-advisor/internal/recommend"
)

// SearchMatch is one semantic search result.
type SearchMatch struct {
	Cocktail   *models.Cocktail `json:"cocktail"`
	Similarity float64          `json:"similarity"`
}

// SearchResponse is the payload of POST /cocktails/search.
type SearchResponse struct {
	Matches []SearchMatch `json:"matches"`
	Kind    string        `json:"kind"`
	Dropped int           `json:"dropped,omitempty"`
}

// RecommendResponse is the payload of POST /cocktails/recommend.
type RecommendResponse struct {
	Cocktails []*models.Cocktail `json:"cocktails"`
	Kind      string             `json:"kind"`
	Dropped   int                `json:"dropped,omitempty"`
}

// kindPopular marks a recommendation built from interaction counts
// instead of the embedding pipeline.
const kindPopular = "popular"

// HandleSearch runs semantic search over the cocktail embeddings.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SearchRequest
	if details, err := decodeJSON(w, r, &req); err != nil {
		if details != nil {
			rw.ValidationError("invalid search request", details)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	result, err := h.engine.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, recommend.ErrEmbedding) {
			rw.ExternalServiceError("embedding", err)
			return
		}
		rw.InternalError("search failed")
		return
	}

	h.publish(&events.InteractionEvent{Type: events.TypeSearch, Query: req.Query})

	matches := make([]SearchMatch, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, SearchMatch{Cocktail: m.Cocktail, Similarity: m.Similarity})
	}
	rw.SuccessWithCount(SearchResponse{
		Matches: matches,
		Kind:    string(result.Kind),
		Dropped: result.Dropped,
	}, len(matches))
}

// HandleRecommend runs the full recommendation pipeline, applying the
// user's stored preferences when a user id is supplied.
func (h *Handlers) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if details, err := decodeJSON(w, r, &req); err != nil {
		if details != nil {
			rw.ValidationError("invalid recommend request", details)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	var prefs *models.UserPreference
	if req.UserID != "" {
		stored, err := h.store.GetPreferences(r.Context(), req.UserID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			// Users without stored preferences get interaction-ranked
			// popular cocktails instead of raw similarity order.
			h.recommendPopular(rw, r, &req)
			return
		case err != nil:
			rw.DatabaseError(err)
			return
		default:
			prefs = stored
		}
	}

	result, err := h.engine.Recommend(r.Context(), req.Query, prefs, req.Limit)
	if err != nil {
		if errors.Is(err, recommend.ErrEmbedding) {
			rw.ExternalServiceError("embedding", err)
			return
		}
		rw.InternalError("recommendation failed")
		return
	}

	for _, c := range result.Cocktails {
		h.publish(&events.InteractionEvent{
			UserID:     req.UserID,
			Type:       events.TypeRecommendation,
			Query:      req.Query,
			CocktailID: c.ID,
		})
	}

	rw.SuccessWithCount(RecommendResponse{
		Cocktails: result.Cocktails,
		Kind:      string(result.Kind),
		Dropped:   result.Dropped,
	}, len(result.Cocktails))
}

func (h *Handlers) recommendPopular(rw *ResponseWriter, r *http.Request, req *RecommendRequest) {
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}
	popular, err := h.store.PopularCocktails(r.Context(), clamp(limit, 1, 50))
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	cocktails := make([]*models.Cocktail, 0, len(popular))
	for i := range popular {
		c := popular[i].Cocktail
		cocktails = append(cocktails, &c)
		h.publish(&events.InteractionEvent{
			UserID:     req.UserID,
			Type:       events.TypeRecommendation,
			Query:      req.Query,
			CocktailID: c.ID,
		})
	}
	rw.SuccessWithCount(RecommendResponse{Cocktails: cocktails, Kind: kindPopular}, len(cocktails))
}

// HandleGetCocktail fetches one cocktail by id.
func (h *Handlers) HandleGetCocktail(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		rw.BadRequest("cocktail id must be an integer")
		return
	}

	cocktail, err := h.store.GetCocktail(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("cocktail not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	h.publish(&events.InteractionEvent{Type: events.TypeView, CocktailID: id})
	rw.Success(cocktail)
}

// HandleSimilarCocktails finds cocktails similar to the given one by
// searching with its own embedding text and dropping the source.
func (h *Handlers) HandleSimilarCocktails(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		rw.BadRequest("cocktail id must be an integer")
		return
	}
	limit := clamp(queryInt(r, "limit", 5), 1, 10)

	cocktail, err := h.store.GetCocktail(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("cocktail not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	// Fetch one extra because the source cocktail matches itself.
	result, err := h.engine.Search(r.Context(), cocktail.EmbeddingText(), limit+1)
	if err != nil {
		if errors.Is(err, recommend.ErrEmbedding) {
			rw.ExternalServiceError("embedding", err)
			return
		}
		rw.InternalError("similarity search failed")
		return
	}

	matches := make([]SearchMatch, 0, limit)
	for _, m := range result.Matches {
		if m.Cocktail.ID == id {
			continue
		}
		matches = append(matches, SearchMatch{Cocktail: m.Cocktail, Similarity: m.Similarity})
		if len(matches) == limit {
			break
		}
	}
	rw.SuccessWithCount(SearchResponse{Matches: matches, Kind: string(result.Kind)}, len(matches))
}

// HandleListIngredients lists distinct ingredient names.
func (h *Handlers) HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	prefix := r.URL.Query().Get("prefix")
	limit := clamp(queryInt(r, "limit", 100), 1, 500)

	ingredients, err := h.store.ListIngredients(r.Context(), prefix, limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithCount(ingredients, len(ingredients))
}
