// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package config provides layered configuration loading via Koanf v2:
// built-in defaults, then an optional YAML file, then environment
// variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Records   RecordsConfig   `koanf:"records"`
	Vector    VectorConfig    `koanf:"vector"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	LLM       LLMConfig       `koanf:"llm"`
	Recommend RecommendConfig `koanf:"recommend"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings for relational persistence
// (cocktail catalog, user preferences, interaction log).
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" opens an in-memory
	// database, useful for tests.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// RecordsConfig holds BadgerDB settings for the cocktail record store.
type RecordsConfig struct {
	Path string `koanf:"path"`
	// InMemory runs Badger without disk persistence (tests only).
	InMemory bool `koanf:"in_memory"`
	// TTL is the record expiry applied on every put.
	TTL time.Duration `koanf:"ttl"`
}

// VectorConfig holds vector index settings.
type VectorConfig struct {
	// Dimension is the embedding dimension shared by every vector in the
	// index. Mismatched vectors are rejected at insertion.
	Dimension int `koanf:"dimension"`

	// MinSimilarity is the default similarity floor for search results.
	MinSimilarity float64 `koanf:"min_similarity"`

	// SnapshotDir is where index snapshots and the manifest live.
	SnapshotDir string `koanf:"snapshot_dir"`

	// SnapshotInterval is how often the background snapshotter persists
	// the index. Zero disables periodic snapshots.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`

	// UpgradeThreshold is the index size past which the flat index is
	// converted (one-way) to a clustered IVF layout. Zero disables the
	// upgrade and keeps exact search.
	UpgradeThreshold int `koanf:"upgrade_threshold"`

	// NProbe is the number of IVF clusters probed per query after the
	// upgrade. Higher values trade latency for recall.
	NProbe int `koanf:"nprobe"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	// BatchSize caps how many texts are embedded per request.
	BatchSize int `koanf:"batch_size"`
	// RequestsPerSecond limits outbound embedding calls client-side.
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Timeout           time.Duration `koanf:"timeout"`
}

// LLMConfig holds chat-completion settings for response generation.
type LLMConfig struct {
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	MaxRetries  int           `koanf:"max_retries"`
	RetryDelay  time.Duration `koanf:"retry_delay"`
	Timeout     time.Duration `koanf:"timeout"`
}

// RecommendConfig holds recommendation pipeline settings. The scoring
// weights and over-fetch factor are behavioral constants preserved as
// configuration defaults; change them only deliberately.
type RecommendConfig struct {
	// DefaultLimit is the result count when the caller does not specify one.
	DefaultLimit int `koanf:"default_limit"`
	// MaxLimit caps the per-request result count.
	MaxLimit int `koanf:"max_limit"`
	// OverfetchFactor multiplies the requested limit for the index search
	// so downstream filtering does not require a second round trip.
	OverfetchFactor int `koanf:"overfetch_factor"`
	// CacheTTL is the lifetime of cached recommendation responses.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Scoring weights (additive, capped by construction).
	FavoriteIngredientWeight float64 `koanf:"favorite_ingredient_weight"`
	AlcoholTypeWeight        float64 `koanf:"alcohol_type_weight"`
	FavoriteCocktailWeight   float64 `koanf:"favorite_cocktail_weight"`
}

// CatalogConfig holds dataset ingestion settings.
type CatalogConfig struct {
	// CSVPath is the cocktail dataset to ingest at startup. Empty skips
	// ingestion (the index is expected to load from a snapshot instead).
	CSVPath string `koanf:"csv_path"`
	// EmbedBatchSize is how many cocktails are embedded per provider call
	// during ingestion.
	EmbedBatchSize int `koanf:"embed_batch_size"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// AuthMode is "none" or "jwt".
	AuthMode      string        `koanf:"auth_mode"`
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenLifetime time.Duration `koanf:"token_lifetime"`
	AdminUsername string        `koanf:"admin_username"`
	AdminPassword string        `koanf:"admin_password"`

	// RateLimitReqs requests are allowed per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Vector.Dimension <= 0 {
		return fmt.Errorf("vector.dimension must be positive, got %d", c.Vector.Dimension)
	}
	if c.Vector.MinSimilarity < 0 || c.Vector.MinSimilarity > 1 {
		return fmt.Errorf("vector.min_similarity must be in [0, 1], got %f", c.Vector.MinSimilarity)
	}
	if c.Vector.NProbe < 1 {
		return fmt.Errorf("vector.nprobe must be at least 1, got %d", c.Vector.NProbe)
	}
	if c.Recommend.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", c.Recommend.DefaultLimit)
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= default_limit (%d)",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	if c.Recommend.OverfetchFactor < 1 {
		return fmt.Errorf("recommend.overfetch_factor must be at least 1, got %d", c.Recommend.OverfetchFactor)
	}
	if c.Records.TTL <= 0 {
		return fmt.Errorf("records.ttl must be positive, got %s", c.Records.TTL)
	}
	switch c.Security.AuthMode {
	case "none":
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters in jwt mode")
		}
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("security.admin_username and admin_password are required in jwt mode")
		}
	default:
		return fmt.Errorf("security.auth_mode must be \"none\" or \"jwt\", got %q", c.Security.AuthMode)
	}
	return nil
}
