// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package recommend implements preference-aware cocktail ranking: a
// pure scoring function over (cocktail, preferences) pairs and an
// orchestrator that composes embedding, vector search, record fetch
// and ranking into a single recommendation call.
package recommend

import (
	"sort"
	"strings"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// Weights holds the additive bonuses applied by Score. Each rule fires
// at most once per cocktail regardless of how many entries match.
type Weights struct {
	FavoriteIngredient float64 `koanf:"favorite_ingredient"`
	AlcoholType        float64 `koanf:"alcohol_type"`
	FavoriteCocktail   float64 `koanf:"favorite_cocktail"`
}

// DefaultWeights preserves the historical scoring constants.
func DefaultWeights() Weights {
	return Weights{
		FavoriteIngredient: 0.3,
		AlcoholType:        0.2,
		FavoriteCocktail:   0.5,
	}
}

// Score computes the preference relevance of a cocktail. The boolean
// reports whether the cocktail is excluded outright because one of its
// ingredients contains an allergy term; excluded cocktails score 0.
//
// Matching rules, each awarded at most once:
//   - favorite ingredient: exact case-insensitive ingredient name match
//   - preferred alcohol type: case-insensitive substring of any
//     ingredient name
//   - favorite cocktail: exact name match after normalization
func Score(c *models.Cocktail, prefs *models.UserPreference, w Weights) (float64, bool) {
	if prefs == nil {
		return 0, false
	}

	names := make([]string, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		names[i] = strings.ToLower(strings.TrimSpace(ing.Name))
	}

	for _, allergy := range prefs.Allergies {
		allergy = strings.ToLower(strings.TrimSpace(allergy))
		if allergy == "" {
			continue
		}
		for _, name := range names {
			if strings.Contains(name, allergy) {
				return 0, true
			}
		}
	}

	var score float64

	if anyExactMatch(names, prefs.FavoriteIngredients) {
		score += w.FavoriteIngredient
	}
	if anySubstringMatch(names, prefs.PreferredAlcoholTypes) {
		score += w.AlcoholType
	}
	for _, fav := range prefs.FavoriteCocktails {
		if c.Name == fav {
			score += w.FavoriteCocktail
			break
		}
	}

	return score, false
}

// Rank orders cocktails by descending preference score, dropping any
// cocktail that trips the allergy filter. The sort is stable: zero
// scoring cocktails are retained and keep their input order, so
// repeated calls on the same input produce the same output.
func Rank(cocktails []*models.Cocktail, prefs *models.UserPreference, w Weights) []*models.Cocktail {
	type scored struct {
		cocktail *models.Cocktail
		score    float64
	}

	kept := make([]scored, 0, len(cocktails))
	for _, c := range cocktails {
		s, excluded := Score(c, prefs, w)
		if excluded {
			continue
		}
		kept = append(kept, scored{cocktail: c, score: s})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	out := make([]*models.Cocktail, len(kept))
	for i, s := range kept {
		out[i] = s.cocktail
	}
	return out
}

func anyExactMatch(ingredientNames, wanted []string) bool {
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		for _, name := range ingredientNames {
			if name == w {
				return true
			}
		}
	}
	return false
}

func anySubstringMatch(ingredientNames, wanted []string) bool {
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		for _, name := range ingredientNames {
			if strings.Contains(name, w) {
				return true
			}
		}
	}
	return false
}
