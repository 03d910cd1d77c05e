// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// Interaction is one logged user action: a search, a chat exchange, a
// cocktail view or a delivered recommendation.
type Interaction struct {
	ID         string
	UserID     string
	Type       string
	Query      string
	CocktailID int64 // 0 when the interaction has no subject cocktail
	CreatedAt  time.Time
}

// PopularCocktail pairs a cocktail with its interaction count.
type PopularCocktail struct {
	Cocktail models.Cocktail `json:"cocktail"`
	Count    int             `json:"count"`
}

// PopularIngredient pairs an ingredient name with how many cocktails
// use it.
type PopularIngredient struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// InsertInteraction logs one interaction. A missing ID is filled with
// a fresh UUID.
func (db *DB) InsertInteraction(ctx context.Context, in *Interaction) error {
	start := time.Now()
	err := db.insertInteraction(ctx, in)
	metrics.ObserveDBQuery("insert", "interactions", start, err)
	return err
}

func (db *DB) insertInteraction(ctx context.Context, in *Interaction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	var cocktailID any
	if in.CocktailID != 0 {
		cocktailID = in.CocktailID
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO interactions (id, user_id, type, query, cocktail_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Type, in.Query, cocktailID, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// PopularCocktails returns the most-interacted-with cocktails. Ties
// and cold-start gaps fall back to the static popularity score.
func (db *DB) PopularCocktails(ctx context.Context, limit int) ([]PopularCocktail, error) {
	start := time.Now()
	out, err := db.popularCocktails(ctx, limit)
	metrics.ObserveDBQuery("select", "interactions", start, err)
	return out, err
}

func (db *DB) popularCocktails(ctx context.Context, limit int) ([]PopularCocktail, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.name, c.alcoholic, c.category, c.glass_type, c.instructions,
		       c.thumbnail_url, c.complexity_score, c.popularity_score,
		       count(i.id) AS interactions
		FROM cocktails c
		LEFT JOIN interactions i ON i.cocktail_id = c.id
		GROUP BY c.id, c.name, c.alcoholic, c.category, c.glass_type, c.instructions,
		         c.thumbnail_url, c.complexity_score, c.popularity_score
		ORDER BY interactions DESC, c.popularity_score DESC, c.name
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select popular cocktails: %w", err)
	}
	defer rows.Close()

	var out []PopularCocktail
	for rows.Next() {
		var p PopularCocktail
		if err := rows.Scan(&p.Cocktail.ID, &p.Cocktail.Name, &p.Cocktail.Alcoholic,
			&p.Cocktail.Category, &p.Cocktail.GlassType, &p.Cocktail.Instructions,
			&p.Cocktail.ThumbnailURL, &p.Cocktail.ComplexityScore, &p.Cocktail.PopularityScore,
			&p.Count); err != nil {
			return nil, fmt.Errorf("scan popular cocktail: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PopularIngredients returns the ingredients used by the most
// cocktails in the catalog.
func (db *DB) PopularIngredients(ctx context.Context, limit int) ([]PopularIngredient, error) {
	start := time.Now()
	out, err := db.popularIngredients(ctx, limit)
	metrics.ObserveDBQuery("select", "cocktail_ingredients", start, err)
	return out, err
}

func (db *DB) popularIngredients(ctx context.Context, limit int) ([]PopularIngredient, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, count(*) AS uses
		FROM cocktail_ingredients
		GROUP BY name
		ORDER BY uses DESC, name
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select popular ingredients: %w", err)
	}
	defer rows.Close()

	var out []PopularIngredient
	for rows.Next() {
		var p PopularIngredient
		if err := rows.Scan(&p.Name, &p.Count); err != nil {
			return nil, fmt.Errorf("scan popular ingredient: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
