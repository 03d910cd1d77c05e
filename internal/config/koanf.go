// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cocktail-advisor/config.yaml",
	"/etc/cocktail-advisor/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:      "/data/cocktails.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Records: RecordsConfig{
			Path:     "/data/records",
			InMemory: false,
			TTL:      time.Hour,
		},
		Vector: VectorConfig{
			Dimension:        1536, // text-embedding-ada-002
			MinSimilarity:    0.7,
			SnapshotDir:      "/data/vector",
			SnapshotInterval: 15 * time.Minute,
			UpgradeThreshold: 1000,
			NProbe:           4,
		},
		Embedding: EmbeddingConfig{
			BaseURL:           "https://api.openai.com/v1",
			APIKey:            "",
			Model:             "text-embedding-ada-002",
			BatchSize:         100,
			RequestsPerSecond: 5,
			Timeout:           30 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKey:      "",
			Model:       "gpt-3.5-turbo-16k",
			Temperature: 0.7,
			MaxTokens:   800,
			MaxRetries:  3,
			RetryDelay:  time.Second,
			Timeout:     60 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultLimit:    5,
			MaxLimit:        10,
			OverfetchFactor: 2,
			CacheTTL:        time.Minute,

			FavoriteIngredientWeight: 0.3,
			AlcoholTypeWeight:        0.2,
			FavoriteCocktailWeight:   0.5,
		},
		Catalog: CatalogConfig{
			CSVPath:        "",
			EmbedBatchSize: 100,
		},
		Security: SecurityConfig{
			AuthMode:        "none",
			JWTSecret:       "",
			TokenLifetime:   30 * time.Minute,
			AdminUsername:   "",
			AdminPassword:   "",
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// Load builds the configuration from layered sources (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	// A single OPENAI_API_KEY serves both clients unless overridden.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = cfg.Embedding.APIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive as strings from environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names to koanf config paths.
// Only listed variables are honored; everything else in the environment
// is ignored so unrelated variables cannot clobber config keys.
var envMappings = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"records_path": "records.path",
	"records_ttl":  "records.ttl",

	"vector_dimension":         "vector.dimension",
	"min_similarity_score":     "vector.min_similarity",
	"vector_snapshot_dir":      "vector.snapshot_dir",
	"vector_snapshot_interval": "vector.snapshot_interval",
	"vector_upgrade_threshold": "vector.upgrade_threshold",
	"vector_nprobe":            "vector.nprobe",

	"openai_api_key":         "embedding.api_key",
	"embedding_base_url":     "embedding.base_url",
	"embedding_model":        "embedding.model",
	"embedding_batch_size":   "embedding.batch_size",
	"embedding_requests_per_second": "embedding.requests_per_second",

	"llm_api_key":     "llm.api_key",
	"llm_base_url":    "llm.base_url",
	"llm_model":       "llm.model",
	"llm_temperature": "llm.temperature",
	"llm_max_tokens":  "llm.max_tokens",
	"llm_max_retries": "llm.max_retries",

	"max_recommendations":  "recommend.max_limit",
	"recommend_cache_ttl":  "recommend.cache_ttl",

	"cocktails_csv_path": "catalog.csv_path",

	"auth_mode":         "security.auth_mode",
	"jwt_secret":        "security.jwt_secret",
	"token_lifetime":    "security.token_lifetime",
	"admin_username":    "security.admin_username",
	"admin_password":    "security.admin_password",
	"rate_limit_reqs":   "security.rate_limit_reqs",
	"rate_limit_window": "security.rate_limit_window",
	"cors_origins":      "security.cors_origins",
}

// envTransformFunc maps environment variable names to koanf paths, e.g.
// OPENAI_API_KEY -> embedding.api_key. Unknown variables are dropped.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
