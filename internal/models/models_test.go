// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package models

import "testing"

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"old fashioned", "Old Fashioned"},
		{"MOJITO", "Mojito"},
		{"piña colada", "Piña Colada"},
		{"", ""},
		{"a", "A"},
		{"  spaced  words ", "  Spaced  Words "},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCocktailNormalize(t *testing.T) {
	c := Cocktail{
		Name: "  whiskey SOUR ",
		Ingredients: []Ingredient{
			{Name: " Bourbon ", Measure: " 2 oz "},
			{Name: "LEMON JUICE"},
		},
	}
	c.Normalize()

	if c.Name != "Whiskey Sour" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Ingredients[0].Name != "bourbon" || c.Ingredients[0].Measure != "2 oz" {
		t.Errorf("ingredient 0 = %+v", c.Ingredients[0])
	}
	if c.Ingredients[1].Name != "lemon juice" {
		t.Errorf("ingredient 1 = %+v", c.Ingredients[1])
	}
}

func TestEmbeddingText(t *testing.T) {
	c := Cocktail{
		Name:         "Mojito",
		Instructions: "Muddle mint.",
		Ingredients:  []Ingredient{{Name: "light rum"}, {Name: "mint"}},
	}
	want := "Mojito light rum mint Muddle mint."
	if got := c.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText = %q, want %q", got, want)
	}
}

func TestUserPreferenceNormalize(t *testing.T) {
	p := UserPreference{
		UserID:                " u1 ",
		FavoriteIngredients:   []string{" Mint ", "", "LIME"},
		FavoriteCocktails:     []string{" old fashioned ", ""},
		Allergies:             []string{"Peanut"},
		PreferredAlcoholTypes: []string{" RUM "},
	}
	p.Normalize()

	if p.UserID != "u1" {
		t.Errorf("user id = %q", p.UserID)
	}
	if len(p.FavoriteIngredients) != 2 || p.FavoriteIngredients[1] != "lime" {
		t.Errorf("favorite ingredients = %v", p.FavoriteIngredients)
	}
	// Cocktail names keep the canonical display form for exact matching.
	if len(p.FavoriteCocktails) != 1 || p.FavoriteCocktails[0] != "Old Fashioned" {
		t.Errorf("favorite cocktails = %v", p.FavoriteCocktails)
	}
	if p.PreferredAlcoholTypes[0] != "rum" {
		t.Errorf("alcohol types = %v", p.PreferredAlcoholTypes)
	}
}
