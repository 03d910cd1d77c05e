// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package recommend

import (
	"math"
	"testing"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

func mojito() *models.Cocktail {
	return &models.Cocktail{
		ID:   1,
		Name: "Mojito",
		Ingredients: []models.Ingredient{
			{Name: "rum"},
			{Name: "lime"},
			{Name: "mint"},
			{Name: "soda"},
		},
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		cocktail     *models.Cocktail
		prefs        *models.UserPreference
		wantScore    float64
		wantExcluded bool
	}{
		{
			name:      "nil preferences score zero",
			cocktail:  mojito(),
			prefs:     nil,
			wantScore: 0,
		},
		{
			name:     "favorite ingredient and alcohol type",
			cocktail: mojito(),
			prefs: &models.UserPreference{
				FavoriteIngredients:   []string{"rum", "lime"},
				PreferredAlcoholTypes: []string{"rum"},
			},
			wantScore: 0.5,
		},
		{
			name:     "favorite ingredient bonus fires once",
			cocktail: mojito(),
			prefs: &models.UserPreference{
				FavoriteIngredients: []string{"rum", "lime", "mint", "soda"},
			},
			wantScore: 0.3,
		},
		{
			name:     "favorite cocktail name match",
			cocktail: mojito(),
			prefs: &models.UserPreference{
				FavoriteCocktails: []string{"Mojito"},
			},
			wantScore: 0.5,
		},
		{
			name:     "all rules together",
			cocktail: mojito(),
			prefs: &models.UserPreference{
				FavoriteIngredients:   []string{"lime"},
				PreferredAlcoholTypes: []string{"rum"},
				FavoriteCocktails:     []string{"Mojito"},
			},
			wantScore: 1.0,
		},
		{
			name:     "alcohol type matches by substring",
			cocktail: &models.Cocktail{Name: "Daiquiri", Ingredients: []models.Ingredient{{Name: "white rum"}}},
			prefs: &models.UserPreference{
				PreferredAlcoholTypes: []string{"rum"},
			},
			wantScore: 0.2,
		},
		{
			name:     "favorite ingredient requires exact match",
			cocktail: &models.Cocktail{Name: "Daiquiri", Ingredients: []models.Ingredient{{Name: "white rum"}}},
			prefs: &models.UserPreference{
				FavoriteIngredients: []string{"rum"},
			},
			wantScore: 0,
		},
		{
			name:     "allergy excludes by substring",
			cocktail: mojito(),
			prefs: &models.UserPreference{
				FavoriteIngredients: []string{"rum"},
				Allergies:           []string{"mint"},
			},
			wantScore:    0,
			wantExcluded: true,
		},
		{
			name:     "no matching rule scores zero but stays",
			cocktail: mojito(),
			prefs: &models.UserPreference{
				FavoriteIngredients: []string{"gin"},
			},
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, excluded := Score(tt.cocktail, tt.prefs, DefaultWeights())
			if math.Abs(score-tt.wantScore) > 1e-9 {
				t.Errorf("Score = %v, want %v", score, tt.wantScore)
			}
			if excluded != tt.wantExcluded {
				t.Errorf("excluded = %v, want %v", excluded, tt.wantExcluded)
			}
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	prefs := &models.UserPreference{FavoriteIngredients: []string{"gin"}}

	without := &models.Cocktail{Name: "Test", Ingredients: []models.Ingredient{{Name: "vodka"}}}
	with := &models.Cocktail{Name: "Test", Ingredients: []models.Ingredient{{Name: "vodka"}, {Name: "gin"}}}

	sWithout, _ := Score(without, prefs, DefaultWeights())
	sWith, _ := Score(with, prefs, DefaultWeights())
	if sWith < sWithout {
		t.Errorf("adding a matching ingredient decreased score: %v -> %v", sWithout, sWith)
	}
}

func TestRankOrdering(t *testing.T) {
	a := &models.Cocktail{Name: "A", Ingredients: []models.Ingredient{{Name: "vodka"}}}
	b := &models.Cocktail{Name: "B", Ingredients: []models.Ingredient{{Name: "gin"}}}
	c := &models.Cocktail{Name: "C", Ingredients: []models.Ingredient{{Name: "tonic"}}}

	prefs := &models.UserPreference{FavoriteIngredients: []string{"gin"}}

	ranked := Rank([]*models.Cocktail{a, b, c}, prefs, DefaultWeights())
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}
	if ranked[0].Name != "B" {
		t.Errorf("ranked[0] = %q, want B", ranked[0].Name)
	}
	// Zero scorers keep their input order behind the match.
	if ranked[1].Name != "A" || ranked[2].Name != "C" {
		t.Errorf("tie order = %q, %q, want A, C", ranked[1].Name, ranked[2].Name)
	}
}

func TestRankExcludesAllergies(t *testing.T) {
	prefs := &models.UserPreference{Allergies: []string{"mint"}}

	ranked := Rank([]*models.Cocktail{mojito()}, prefs, DefaultWeights())
	if len(ranked) != 0 {
		t.Errorf("len(ranked) = %d, want 0 (allergy exclusion)", len(ranked))
	}
}

func TestRankIsDeterministic(t *testing.T) {
	input := []*models.Cocktail{
		{Name: "A", Ingredients: []models.Ingredient{{Name: "gin"}}},
		{Name: "B", Ingredients: []models.Ingredient{{Name: "gin"}}},
		{Name: "C", Ingredients: []models.Ingredient{{Name: "gin"}}},
	}
	prefs := &models.UserPreference{FavoriteIngredients: []string{"gin"}}

	first := Rank(input, prefs, DefaultWeights())
	second := Rank(input, prefs, DefaultWeights())
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Fatalf("order differs between runs at %d: %q vs %q", i, first[i].Name, second[i].Name)
		}
	}
}
