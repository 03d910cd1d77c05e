// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package models defines the domain types shared across the service:
// cocktails, user preferences, and chat messages.
package models

import (
	"strings"
	"time"
	"unicode"
)

// Ingredient is a single cocktail ingredient. Names are stored lowercased
// and trimmed; the measure is free text and optional.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// Cocktail is the stored attribute set for a single drink. Instances are
// immutable once embedded, except for popularity/complexity recomputation.
type Cocktail struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Alcoholic    bool         `json:"alcoholic"`
	Category     string       `json:"category"`
	GlassType    string       `json:"glass_type"`
	Instructions string       `json:"instructions"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Tags         []string     `json:"tags,omitempty"`

	// ComplexityScore and PopularityScore are both in [0, 1].
	ComplexityScore float64 `json:"complexity_score"`
	PopularityScore float64 `json:"popularity_score"`
}

// Normalize applies the canonical field normalization: the cocktail name is
// trimmed and title-cased, ingredient names are trimmed and lowercased.
func (c *Cocktail) Normalize() {
	c.Name = TitleCase(strings.TrimSpace(c.Name))
	for i := range c.Ingredients {
		c.Ingredients[i].Name = strings.ToLower(strings.TrimSpace(c.Ingredients[i].Name))
		c.Ingredients[i].Measure = strings.TrimSpace(c.Ingredients[i].Measure)
	}
}

// EmbeddingText returns the text representation used to embed this cocktail.
func (c *Cocktail) EmbeddingText() string {
	names := make([]string, 0, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		names = append(names, ing.Name)
	}
	return c.Name + " " + strings.Join(names, " ") + " " + c.Instructions
}

// UserPreference holds a user's stored taste profile. The list fields are
// logical sets: lowercased, trimmed, insertion order irrelevant. An update
// fully replaces the preceding record for the user, never merges.
type UserPreference struct {
	UserID                string    `json:"user_id" validate:"required,min=1,max=128"`
	FavoriteIngredients   []string  `json:"favorite_ingredients"`
	FavoriteCocktails     []string  `json:"favorite_cocktails"`
	Allergies             []string  `json:"allergies"`
	PreferredAlcoholTypes []string  `json:"preferred_alcohol_types"`
	LastUpdated           time.Time `json:"last_updated"`
}

// Normalize lowercases and trims the set-like fields and drops empties.
// Favorite cocktail names are normalized the same way cocktail names are,
// so the scorer can compare them for exact equality.
func (p *UserPreference) Normalize() {
	p.UserID = strings.TrimSpace(p.UserID)
	p.FavoriteIngredients = normalizeSet(p.FavoriteIngredients)
	p.Allergies = normalizeSet(p.Allergies)
	p.PreferredAlcoholTypes = normalizeSet(p.PreferredAlcoholTypes)

	cocktails := make([]string, 0, len(p.FavoriteCocktails))
	for _, name := range p.FavoriteCocktails {
		if name = strings.TrimSpace(name); name != "" {
			cocktails = append(cocktails, TitleCase(name))
		}
	}
	p.FavoriteCocktails = cocktails
}

// normalizeSet trims and lowercases every entry, dropping empty strings.
func normalizeSet(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// TitleCase uppercases the first letter of each space-separated word and
// lowercases the rest, matching the canonical cocktail name form
// ("old fashioned" -> "Old Fashioned").
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			prevSpace = true
			b.WriteRune(r)
		case prevSpace:
			b.WriteRune(unicode.ToUpper(r))
			prevSpace = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
