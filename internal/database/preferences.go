// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// UpsertPreferences stores the full preference record for a user. An
// existing record is replaced outright, not merged.
func (db *DB) UpsertPreferences(ctx context.Context, prefs *models.UserPreference) error {
	start := time.Now()
	err := db.upsertPreferences(ctx, prefs)
	metrics.ObserveDBQuery("upsert", "user_preferences", start, err)
	return err
}

func (db *DB) upsertPreferences(ctx context.Context, prefs *models.UserPreference) error {
	if prefs.UserID == "" {
		return fmt.Errorf("database: user_id is required")
	}

	cols, err := encodePreferenceLists(prefs)
	if err != nil {
		return err
	}

	if prefs.LastUpdated.IsZero() {
		prefs.LastUpdated = time.Now().UTC()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO user_preferences
			(user_id, favorite_ingredients, favorite_cocktails, allergies, preferred_alcohol_types, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			favorite_ingredients = excluded.favorite_ingredients,
			favorite_cocktails = excluded.favorite_cocktails,
			allergies = excluded.allergies,
			preferred_alcohol_types = excluded.preferred_alcohol_types,
			last_updated = excluded.last_updated`,
		prefs.UserID, cols[0], cols[1], cols[2], cols[3], prefs.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert preferences for %s: %w", prefs.UserID, err)
	}
	return nil
}

// GetPreferences loads a user's preference record. Returns ErrNotFound
// when the user has never written preferences.
func (db *DB) GetPreferences(ctx context.Context, userID string) (*models.UserPreference, error) {
	start := time.Now()
	prefs, err := db.getPreferences(ctx, userID)
	if !errors.Is(err, ErrNotFound) {
		metrics.ObserveDBQuery("select", "user_preferences", start, err)
	}
	return prefs, err
}

func (db *DB) getPreferences(ctx context.Context, userID string) (*models.UserPreference, error) {
	var (
		prefs models.UserPreference
		lists [4]string
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT user_id, favorite_ingredients, favorite_cocktails, allergies, preferred_alcohol_types, last_updated
		FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&prefs.UserID, &lists[0], &lists[1], &lists[2], &lists[3], &prefs.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("preferences for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select preferences for %s: %w", userID, err)
	}

	targets := []*[]string{
		&prefs.FavoriteIngredients,
		&prefs.FavoriteCocktails,
		&prefs.Allergies,
		&prefs.PreferredAlcoholTypes,
	}
	for i, raw := range lists {
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return nil, fmt.Errorf("decode preference list for %s: %w", userID, err)
		}
	}
	return &prefs, nil
}

func encodePreferenceLists(prefs *models.UserPreference) ([4]string, error) {
	var out [4]string
	sources := [][]string{
		prefs.FavoriteIngredients,
		prefs.FavoriteCocktails,
		prefs.Allergies,
		prefs.PreferredAlcoholTypes,
	}
	for i, src := range sources {
		if src == nil {
			src = []string{}
		}
		data, err := json.Marshal(src)
		if err != nil {
			return out, fmt.Errorf("encode preference list: %w", err)
		}
		out[i] = string(data)
	}
	return out, nil
}
