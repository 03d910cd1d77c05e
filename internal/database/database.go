// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package database provides DuckDB-backed relational persistence for
// the cocktail catalog, user preference records and the interaction
// log that feeds popularity statistics.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/config"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// New opens (or creates) the database and initializes the schema. A
// path of ":memory:" or "" opens an in-memory database.
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	if path != "" {
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		logger: logger.With().Str("component", "database").Logger(),
	}

	if err := db.initSchema(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	db.logger.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Msg("Database opened")
	return db, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies database liveness for readiness checks.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cocktails (
			id BIGINT PRIMARY KEY,
			name VARCHAR NOT NULL,
			alcoholic BOOLEAN,
			category VARCHAR,
			glass_type VARCHAR,
			instructions VARCHAR,
			thumbnail_url VARCHAR,
			tags VARCHAR,
			complexity_score DOUBLE DEFAULT 0,
			popularity_score DOUBLE DEFAULT 0.5
		)`,
		`CREATE TABLE IF NOT EXISTS cocktail_ingredients (
			cocktail_id BIGINT NOT NULL,
			position INTEGER NOT NULL,
			name VARCHAR NOT NULL,
			measure VARCHAR,
			PRIMARY KEY (cocktail_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id VARCHAR PRIMARY KEY,
			favorite_ingredients VARCHAR NOT NULL DEFAULT '[]',
			favorite_cocktails VARCHAR NOT NULL DEFAULT '[]',
			allergies VARCHAR NOT NULL DEFAULT '[]',
			preferred_alcohol_types VARCHAR NOT NULL DEFAULT '[]',
			last_updated TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			type VARCHAR NOT NULL,
			query VARCHAR,
			cocktail_id BIGINT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ingredients_name ON cocktail_ingredients (name)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_cocktail ON interactions (cocktail_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
