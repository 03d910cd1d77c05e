// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package catalog

import (
	"testing"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

func testCocktails() []*models.Cocktail {
	return []*models.Cocktail{
		{
			ID: 1, Name: "Mojito", ComplexityScore: 0.4,
			Ingredients: []models.Ingredient{{Name: "light rum"}, {Name: "lime"}, {Name: "mint"}},
		},
		{
			ID: 2, Name: "Daiquiri", ComplexityScore: 0.7,
			Ingredients: []models.Ingredient{{Name: "light rum"}, {Name: "lime"}},
		},
		{
			ID: 3, Name: "Gin Tonic", ComplexityScore: 0.4,
			Ingredients: []models.Ingredient{{Name: "gin"}, {Name: "tonic water"}, {Name: "lime"}},
		},
	}
}

func TestCatalogLookups(t *testing.T) {
	cat := NewCatalog()
	cat.Add(testCocktails()...)

	if cat.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cat.Len())
	}

	c, ok := cat.Get(2)
	if !ok || c.Name != "Daiquiri" {
		t.Fatalf("Get(2) = %v, %v", c, ok)
	}

	c, ok = cat.GetByName("  gin tonic ")
	if !ok || c.ID != 3 {
		t.Fatalf("GetByName = %v, %v", c, ok)
	}

	if _, ok := cat.Get(99); ok {
		t.Error("Get(99) should miss")
	}
}

func TestCatalogByIngredients(t *testing.T) {
	cat := NewCatalog()
	cat.Add(testCocktails()...)

	tests := []struct {
		name    string
		query   []string
		limit   int
		wantIDs []int64
	}{
		{name: "complexity order", query: []string{"lime"}, wantIDs: []int64{2, 1, 3}},
		{name: "conjunction", query: []string{"light rum", "lime"}, wantIDs: []int64{2, 1}},
		{name: "case insensitive", query: []string{"Light Rum"}, wantIDs: []int64{2, 1}},
		{name: "limit keeps most complex", query: []string{"lime"}, limit: 1, wantIDs: []int64{2}},
		{name: "equal complexity breaks by id", query: []string{"lime"}, limit: 3, wantIDs: []int64{2, 1, 3}},
		{name: "no match", query: []string{"vodka"}, wantIDs: nil},
		{name: "empty query", query: nil, wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cat.ByIngredients(tt.query, tt.limit)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d cocktails, want %d", len(got), len(tt.wantIDs))
			}
			for i, c := range got {
				if c.ID != tt.wantIDs[i] {
					t.Errorf("result %d id = %d, want %d", i, c.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestCatalogIngredients(t *testing.T) {
	cat := NewCatalog()
	cat.Add(testCocktails()...)

	all := cat.Ingredients("", 0)
	want := []string{"gin", "light rum", "lime", "mint", "tonic water"}
	if len(all) != len(want) {
		t.Fatalf("got %v, want %v", all, want)
	}
	for i := range all {
		if all[i] != want[i] {
			t.Errorf("ingredient %d = %q, want %q", i, all[i], want[i])
		}
	}

	limes := cat.Ingredients("li", 0)
	if len(limes) != 2 || limes[0] != "light rum" || limes[1] != "lime" {
		t.Fatalf("prefix filter = %v, want [light rum lime]", limes)
	}

	limited := cat.Ingredients("", 2)
	if len(limited) != 2 {
		t.Fatalf("limit = %v, want 2 entries", limited)
	}
}
