// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/config"
	"github.com/ramalmr/cocktail-advisor/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{Path: ":memory:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testCocktail(id int64, name string, ingredients ...string) *models.Cocktail {
	c := &models.Cocktail{
		ID:              id,
		Name:            name,
		Alcoholic:       true,
		Category:        "Cocktail",
		GlassType:       "Highball glass",
		Instructions:    "Mix and serve.",
		Tags:            []string{"classic"},
		PopularityScore: 0.5,
	}
	for _, ing := range ingredients {
		c.Ingredients = append(c.Ingredients, models.Ingredient{Name: ing, Measure: "1 oz"})
	}
	return c
}

func TestUpsertAndGetCocktail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	want := testCocktail(1, "Mojito", "rum", "lime", "mint")
	if err := db.UpsertCocktails(ctx, []*models.Cocktail{want}); err != nil {
		t.Fatalf("UpsertCocktails: %v", err)
	}

	got, err := db.GetCocktail(ctx, 1)
	if err != nil {
		t.Fatalf("GetCocktail: %v", err)
	}
	if got.Name != "Mojito" {
		t.Errorf("Name = %q, want Mojito", got.Name)
	}
	if len(got.Ingredients) != 3 {
		t.Fatalf("len(Ingredients) = %d, want 3", len(got.Ingredients))
	}
	if got.Ingredients[0].Name != "rum" {
		t.Errorf("Ingredients[0] = %q, want rum (position order)", got.Ingredients[0].Name)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "classic" {
		t.Errorf("Tags = %v, want [classic]", got.Tags)
	}
}

func TestUpsertReplacesIngredients(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertCocktails(ctx, []*models.Cocktail{testCocktail(1, "Daiquiri", "rum", "lime", "sugar")}); err != nil {
		t.Fatalf("UpsertCocktails: %v", err)
	}
	if err := db.UpsertCocktails(ctx, []*models.Cocktail{testCocktail(1, "Daiquiri", "rum", "lime juice")}); err != nil {
		t.Fatalf("UpsertCocktails replace: %v", err)
	}

	got, err := db.GetCocktail(ctx, 1)
	if err != nil {
		t.Fatalf("GetCocktail: %v", err)
	}
	if len(got.Ingredients) != 2 {
		t.Errorf("len(Ingredients) = %d after replace, want 2", len(got.Ingredients))
	}
}

func TestGetCocktailNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetCocktail(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListIngredients(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertCocktails(ctx, []*models.Cocktail{
		testCocktail(1, "Mojito", "rum", "lime", "mint"),
		testCocktail(2, "Daiquiri", "rum", "lime juice"),
	}); err != nil {
		t.Fatalf("UpsertCocktails: %v", err)
	}

	all, err := db.ListIngredients(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("len(all) = %d, want 4 distinct names", len(all))
	}

	limes, err := db.ListIngredients(ctx, "lim", 100)
	if err != nil {
		t.Fatalf("ListIngredients with prefix: %v", err)
	}
	if len(limes) != 2 {
		t.Errorf("prefix result = %v, want lime and lime juice", limes)
	}
}

func TestPreferencesRoundTripAndReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &models.UserPreference{
		UserID:              "alice",
		FavoriteIngredients: []string{"gin", "tonic"},
		Allergies:           []string{"mint"},
	}
	if err := db.UpsertPreferences(ctx, first); err != nil {
		t.Fatalf("UpsertPreferences: %v", err)
	}

	second := &models.UserPreference{
		UserID:                "alice",
		FavoriteIngredients:   []string{"rum"},
		PreferredAlcoholTypes: []string{"rum"},
	}
	if err := db.UpsertPreferences(ctx, second); err != nil {
		t.Fatalf("UpsertPreferences replace: %v", err)
	}

	got, err := db.GetPreferences(ctx, "alice")
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if len(got.FavoriteIngredients) != 1 || got.FavoriteIngredients[0] != "rum" {
		t.Errorf("FavoriteIngredients = %v, want full replacement with [rum]", got.FavoriteIngredients)
	}
	if len(got.Allergies) != 0 {
		t.Errorf("Allergies = %v, want empty after replacement", got.Allergies)
	}
	if got.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}
}

func TestGetPreferencesNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPreferences(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInteractionsAndPopularity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertCocktails(ctx, []*models.Cocktail{
		testCocktail(1, "Mojito", "rum", "lime", "mint"),
		testCocktail(2, "Daiquiri", "rum", "lime juice"),
	}); err != nil {
		t.Fatalf("UpsertCocktails: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := db.InsertInteraction(ctx, &Interaction{
			UserID:     "alice",
			Type:       "view",
			CocktailID: 2,
		}); err != nil {
			t.Fatalf("InsertInteraction: %v", err)
		}
	}

	popular, err := db.PopularCocktails(ctx, 2)
	if err != nil {
		t.Fatalf("PopularCocktails: %v", err)
	}
	if len(popular) != 2 {
		t.Fatalf("len(popular) = %d, want 2", len(popular))
	}
	if popular[0].Cocktail.ID != 2 || popular[0].Count != 3 {
		t.Errorf("popular[0] = id %d count %d, want id 2 count 3", popular[0].Cocktail.ID, popular[0].Count)
	}

	ingredients, err := db.PopularIngredients(ctx, 1)
	if err != nil {
		t.Fatalf("PopularIngredients: %v", err)
	}
	if len(ingredients) != 1 || ingredients[0].Name != "rum" || ingredients[0].Count != 2 {
		t.Errorf("ingredients = %+v, want rum used by 2 cocktails", ingredients)
	}
}

func TestCountCocktails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := db.CountCocktails(ctx)
	if err != nil {
		t.Fatalf("CountCocktails: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d on empty catalog, want 0", n)
	}

	if err := db.UpsertCocktails(ctx, []*models.Cocktail{testCocktail(1, "Mojito", "rum")}); err != nil {
		t.Fatalf("UpsertCocktails: %v", err)
	}
	n, err = db.CountCocktails(ctx)
	if err != nil {
		t.Fatalf("CountCocktails: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
