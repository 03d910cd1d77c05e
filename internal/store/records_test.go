// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

func newTestRecords(t *testing.T) *Records {
	t.Helper()
	r, err := Open(Config{InMemory: true, TTL: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleCocktail(id int64, name string) *models.Cocktail {
	return &models.Cocktail{
		ID:        id,
		Name:      name,
		Alcoholic: true,
		Category:  "Cocktail",
		Ingredients: []models.Ingredient{
			{Name: "white rum", Measure: "2 oz"},
			{Name: "lime juice", Measure: "1 oz"},
		},
		Instructions: "Shake with ice and strain.",
	}
}

func TestOpenRejectsZeroTTL(t *testing.T) {
	_, err := Open(Config{InMemory: true}, zerolog.Nop())
	if err == nil {
		t.Fatal("Open accepted zero TTL")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	r := newTestRecords(t)

	want := sampleCocktail(11, "Daiquiri")
	if err := r.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := r.Get(11)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get reported missing after Put")
	}
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if len(got.Ingredients) != 2 {
		t.Errorf("len(Ingredients) = %d, want 2", len(got.Ingredients))
	}
}

func TestGetMissingIsNotAnError(t *testing.T) {
	r := newTestRecords(t)

	c, ok, err := r.Get(404)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || c != nil {
		t.Errorf("Get(404) = (%v, %v), want (nil, false)", c, ok)
	}
}

func TestPutBatch(t *testing.T) {
	r := newTestRecords(t)

	batch := []*models.Cocktail{
		sampleCocktail(1, "Mojito"),
		sampleCocktail(2, "Margarita"),
		sampleCocktail(3, "Negroni"),
	}
	if err := r.PutBatch(batch); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	for _, want := range batch {
		got, ok, err := r.Get(want.ID)
		if err != nil {
			t.Fatalf("Get(%d): %v", want.ID, err)
		}
		if !ok {
			t.Errorf("Get(%d) missing after batch put", want.ID)
			continue
		}
		if got.Name != want.Name {
			t.Errorf("Get(%d).Name = %q, want %q", want.ID, got.Name, want.Name)
		}
	}
}

func TestPutOverwritesExisting(t *testing.T) {
	r := newTestRecords(t)

	if err := r.Put(sampleCocktail(7, "Old Name")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Put(sampleCocktail(7, "New Name")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, ok, err := r.Get(7)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Name != "New Name" {
		t.Errorf("Name = %q, want %q", got.Name, "New Name")
	}
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	r, err := Open(Config{InMemory: true, TTL: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := r.Put(sampleCocktail(1, "Mojito")); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Put on closed store = %v, want ErrStoreUnavailable", err)
	}
	if _, _, err := r.Get(1); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Get on closed store = %v, want ErrStoreUnavailable", err)
	}
}
