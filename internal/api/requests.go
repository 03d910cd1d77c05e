// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// maxBodyBytes bounds request bodies; chat messages and preference
// lists are small.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ChatRequest is the body of POST /chat/message.
type ChatRequest struct {
	UserID  string `json:"user_id" validate:"required,min=1,max=128"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// SearchRequest is the body of POST /cocktails/search.
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
	Limit int    `json:"limit" validate:"omitempty,min=1"`
}

// RecommendRequest is the body of POST /cocktails/recommend.
type RecommendRequest struct {
	Query  string `json:"query" validate:"required,min=1,max=500"`
	UserID string `json:"user_id" validate:"omitempty,max=128"`
	Limit  int    `json:"limit" validate:"omitempty,min=1"`
}

// PreferencesRequest is the body of PUT /preferences/{userID}. The
// lists fully replace the stored record.
type PreferencesRequest struct {
	FavoriteIngredients   []string `json:"favorite_ingredients" validate:"omitempty,max=100,dive,max=128"`
	FavoriteCocktails     []string `json:"favorite_cocktails" validate:"omitempty,max=100,dive,max=128"`
	Allergies             []string `json:"allergies" validate:"omitempty,max=100,dive,max=128"`
	PreferredAlcoholTypes []string `json:"preferred_alcohol_types" validate:"omitempty,max=100,dive,max=128"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// decodeJSON decodes and validates a request body into dst. The
// returned details map, when non-nil, names each failing field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors, ok := err.(validator.ValidationErrors); ok {
			invalid = errors
		} else {
			return nil, err
		}
		details := make(map[string]string, len(invalid))
		for _, fe := range invalid {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return details, fmt.Errorf("validation failed")
	}
	return nil, nil
}

// queryInt reads an integer query parameter, falling back to def for
// missing or unparseable values.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
