// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Command server runs the cocktail advisor: dataset ingestion, the
// recommendation engine and the HTTP API, supervised as one process.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/ramalmr/cocktail-advisor/internal/api"
	"github.com/ramalmr/cocktail-advisor/internal/auth"
	"github.com/ramalmr/cocktail-advisor/internal/cache"
	"github.com/ramalmr/cocktail-advisor/internal/catalog"
	"github.com/ramalmr/cocktail-advisor/internal/chat"
	"github.com/ramalmr/cocktail-advisor/internal/config"
	"github.com/ramalmr/cocktail-advisor/internal/database"
	"github.com/ramalmr/cocktail-advisor/internal/embedding"
	"github.com/ramalmr/cocktail-advisor/internal/events"
	"github.com/ramalmr/cocktail-advisor/internal/llm"
	"github.com/ramalmr/cocktail-advisor/internal/logging"
	"github.com/ramalmr/cocktail-advisor/internal/recommend"
	"github.com/ramalmr/cocktail-advisor/internal/store"
	"github.com/ramalmr/cocktail-advisor/internal/supervisor"
	"github.com/ramalmr/cocktail-advisor/internal/supervisor/services"
	"github.com/ramalmr/cocktail-advisor/internal/vector"
)

// version is stamped by the build via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Str("version", version).Msg("Starting cocktail advisor")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Relational persistence: catalog rows, preferences, interactions.
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Fast id lookups for the recommendation pipeline.
	records, err := store.Open(store.Config{
		Path:     cfg.Records.Path,
		InMemory: cfg.Records.InMemory,
		TTL:      cfg.Records.TTL,
	}, logger)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer records.Close()

	index, err := vector.New(vector.Config{
		Dimension:        cfg.Vector.Dimension,
		UpgradeThreshold: cfg.Vector.UpgradeThreshold,
		NProbe:           cfg.Vector.NProbe,
	}, logger)
	if err != nil {
		return fmt.Errorf("create vector index: %w", err)
	}
	if cfg.Vector.SnapshotDir != "" {
		if err := index.Load(cfg.Vector.SnapshotDir); err != nil {
			return fmt.Errorf("load vector snapshot: %w", err)
		}
	}

	provider, err := embedding.NewOpenAIProvider(embedding.Config{
		APIKey:            cfg.Embedding.APIKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		Dimension:         cfg.Vector.Dimension,
		BatchSize:         cfg.Embedding.BatchSize,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	}, logger)
	if err != nil {
		return fmt.Errorf("create embedding provider: %w", err)
	}
	embedder := embedding.NewBreakerProvider(provider, logger)

	llmClient, err := llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		MaxRetries:  cfg.LLM.MaxRetries,
		RetryDelay:  cfg.LLM.RetryDelay,
	}, logger)
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}
	llmService := llm.NewService(llmClient, logger)

	engine, err := recommend.NewEngine(recommend.Config{
		DefaultLimit:  cfg.Recommend.DefaultLimit,
		MaxLimit:      cfg.Recommend.MaxLimit,
		Overfetch:     cfg.Recommend.OverfetchFactor,
		MinSimilarity: cfg.Vector.MinSimilarity,
		CacheTTL:      cfg.Recommend.CacheTTL,
		Weights: recommend.Weights{
			FavoriteIngredient: cfg.Recommend.FavoriteIngredientWeight,
			AlcoholType:        cfg.Recommend.AlcoholTypeWeight,
			FavoriteCocktail:   cfg.Recommend.FavoriteCocktailWeight,
		},
	}, embedder, index, records, cache.New(cfg.Recommend.CacheTTL), logger)
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	// In-process interaction event pipeline.
	bus := events.NewBus(watermill.NewSlogLogger(logging.NewSlogLogger()))
	defer bus.Close()
	consumer := events.NewConsumer(bus, db, logger)

	cat := catalog.NewCatalog()
	if cfg.Catalog.CSVPath != "" {
		ingestor := catalog.NewIngestor(db, records, embedder, index, cat,
			cfg.Vector.SnapshotDir, logger)
		ingestor.SetEmbedBatchSize(cfg.Catalog.EmbedBatchSize)

		if index.Len() == 0 {
			if err := ingestor.Run(ctx, cfg.Catalog.CSVPath); err != nil {
				return fmt.Errorf("ingest dataset: %w", err)
			}
		} else {
			// Snapshot restored the vectors; only the lookups need
			// rebuilding.
			if _, err := ingestor.Hydrate(ctx, cfg.Catalog.CSVPath); err != nil {
				return fmt.Errorf("hydrate catalog: %w", err)
			}
		}
	}

	chatService := chat.NewService(llmService, engine, cat, db, bus, logger)

	var authManager *auth.Manager
	if cfg.Security.AuthMode == "jwt" {
		authManager, err = auth.NewManager(&cfg.Security)
		if err != nil {
			return fmt.Errorf("create auth manager: %w", err)
		}
	}

	var authenticator api.Authenticator
	if authManager != nil {
		authenticator = authManager
	}
	handlers := api.NewHandlers(chatService, engine, db, authenticator, index, bus, version, logger)
	handlers.SetReady(true)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers, authManager, &cfg.Security),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(consumer)
	if cfg.Vector.SnapshotDir != "" && cfg.Vector.SnapshotInterval > 0 {
		tree.AddDataService(vector.NewSnapshotter(index, cfg.Vector.SnapshotDir,
			cfg.Vector.SnapshotInterval, logger))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logger.Info().
		Str("addr", server.Addr).
		Int("cocktails", cat.Len()).
		Int("index_size", index.Len()).
		Msg("Serving")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor: %w", err)
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
