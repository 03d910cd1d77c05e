// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramalmr/cocktail-advisor/internal/database"
	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// HandleGetPreferences returns the stored preferences for a user.
func (h *Handlers) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	prefs, err := h.store.GetPreferences(r.Context(), userID)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("no preferences stored for this user")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(prefs)
}

// HandlePutPreferences fully replaces the stored preferences for a
// user. Partial updates are not supported; the body is the new record.
func (h *Handlers) HandlePutPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PreferencesRequest
	if details, err := decodeJSON(w, r, &req); err != nil {
		if details != nil {
			rw.ValidationError("invalid preferences", details)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	prefs := models.UserPreference{
		UserID:                chi.URLParam(r, "userID"),
		FavoriteIngredients:   req.FavoriteIngredients,
		FavoriteCocktails:     req.FavoriteCocktails,
		Allergies:             req.Allergies,
		PreferredAlcoholTypes: req.PreferredAlcoholTypes,
		LastUpdated:           time.Now().UTC(),
	}
	prefs.Normalize()

	if prefs.UserID == "" {
		rw.BadRequest("user id is required")
		return
	}
	if err := h.store.UpsertPreferences(r.Context(), &prefs); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(prefs)
}
