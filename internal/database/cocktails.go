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
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("database: not found")

// UpsertCocktails replaces the stored rows for the given cocktails in
// one transaction, ingredients included.
func (db *DB) UpsertCocktails(ctx context.Context, cocktails []*models.Cocktail) error {
	start := time.Now()
	err := db.upsertCocktails(ctx, cocktails)
	metrics.ObserveDBQuery("upsert", "cocktails", start, err)
	return err
}

func (db *DB) upsertCocktails(ctx context.Context, cocktails []*models.Cocktail) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cocktails {
		tags, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for cocktail %d: %w", c.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO cocktails
				(id, name, alcoholic, category, glass_type, instructions, thumbnail_url, tags, complexity_score, popularity_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Alcoholic, c.Category, c.GlassType, c.Instructions,
			c.ThumbnailURL, string(tags), c.ComplexityScore, c.PopularityScore,
		); err != nil {
			return fmt.Errorf("upsert cocktail %d: %w", c.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cocktail_ingredients WHERE cocktail_id = ?`, c.ID); err != nil {
			return fmt.Errorf("clear ingredients for cocktail %d: %w", c.ID, err)
		}
		for pos, ing := range c.Ingredients {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cocktail_ingredients (cocktail_id, position, name, measure)
				VALUES (?, ?, ?, ?)`,
				c.ID, pos, ing.Name, ing.Measure,
			); err != nil {
				return fmt.Errorf("insert ingredient %q for cocktail %d: %w", ing.Name, c.ID, err)
			}
		}
	}

	return tx.Commit()
}

// GetCocktail loads one cocktail with its ingredients.
func (db *DB) GetCocktail(ctx context.Context, id int64) (*models.Cocktail, error) {
	start := time.Now()
	c, err := db.getCocktail(ctx, id)
	if !errors.Is(err, ErrNotFound) {
		metrics.ObserveDBQuery("select", "cocktails", start, err)
	}
	return c, err
}

func (db *DB) getCocktail(ctx context.Context, id int64) (*models.Cocktail, error) {
	var (
		c    models.Cocktail
		tags string
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, name, alcoholic, category, glass_type, instructions, thumbnail_url, tags, complexity_score, popularity_score
		FROM cocktails WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Alcoholic, &c.Category, &c.GlassType, &c.Instructions,
		&c.ThumbnailURL, &tags, &c.ComplexityScore, &c.PopularityScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cocktail %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select cocktail %d: %w", id, err)
	}

	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for cocktail %d: %w", id, err)
		}
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, measure FROM cocktail_ingredients
		WHERE cocktail_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select ingredients for cocktail %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.Name, &ing.Measure); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		c.Ingredients = append(c.Ingredients, ing)
	}
	return &c, rows.Err()
}

// ListIngredients returns distinct ingredient names, optionally
// filtered by a case-insensitive prefix, in alphabetical order.
func (db *DB) ListIngredients(ctx context.Context, prefix string, limit int) ([]string, error) {
	start := time.Now()
	names, err := db.listIngredients(ctx, prefix, limit)
	metrics.ObserveDBQuery("select", "cocktail_ingredients", start, err)
	return names, err
}

func (db *DB) listIngredients(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT name FROM cocktail_ingredients
		WHERE lower(name) LIKE ? ORDER BY name LIMIT ?`,
		strings.ToLower(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan ingredient name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountCocktails reports how many cocktails the catalog holds.
func (db *DB) CountCocktails(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM cocktails`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cocktails: %w", err)
	}
	return n, nil
}
