// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// EmbedBatchSize is the number of cocktails embedded per provider call.
const EmbedBatchSize = 100

// Embedder produces embedding vectors for a batch of texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex receives embedded cocktails and can persist itself.
type VectorIndex interface {
	Insert(ids []int64, vectors [][]float32) error
	Save(dir string) error
	Len() int
}

// CocktailUpserter persists cocktail rows.
type CocktailUpserter interface {
	UpsertCocktails(ctx context.Context, cocktails []*models.Cocktail) error
}

// RecordWriter persists cocktail records for fast id lookup.
type RecordWriter interface {
	PutBatch(cocktails []*models.Cocktail) error
}

// Ingestor drives the startup pipeline: dataset rows into the
// database, record store, lookup catalog and vector index.
type Ingestor struct {
	db          CocktailUpserter
	records     RecordWriter
	embedder    Embedder
	index       VectorIndex
	catalog     *Catalog
	snapshotDir string
	batchSize   int
	logger      zerolog.Logger
}

func NewIngestor(db CocktailUpserter, records RecordWriter, embedder Embedder,
	index VectorIndex, catalog *Catalog, snapshotDir string, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		db:          db,
		records:     records,
		embedder:    embedder,
		index:       index,
		catalog:     catalog,
		snapshotDir: snapshotDir,
		batchSize:   EmbedBatchSize,
		logger:      logger.With().Str("component", "ingestor").Logger(),
	}
}

// SetEmbedBatchSize overrides the embedding batch size. Values below 1
// keep the default.
func (in *Ingestor) SetEmbedBatchSize(n int) {
	if n >= 1 {
		in.batchSize = n
	}
}

// Run ingests the dataset at path. The database and record store are
// loaded first so a later embedding failure leaves lookups working.
func (in *Ingestor) Run(ctx context.Context, path string) error {
	start := time.Now()

	cocktails, err := in.Hydrate(ctx, path)
	if err != nil {
		return err
	}

	if err := in.embed(ctx, cocktails); err != nil {
		return err
	}

	if in.snapshotDir != "" {
		if err := in.index.Save(in.snapshotDir); err != nil {
			in.logger.Error().Err(err).Msg("vector snapshot after ingest failed")
		}
	}

	in.logger.Info().
		Int("cocktails", len(cocktails)).
		Int("index_size", in.index.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("dataset ingested")
	return nil
}

// Hydrate loads the dataset into the database, record store and lookup
// catalog without touching the vector index. Used when the index was
// restored from a snapshot and re-embedding would be wasted work.
func (in *Ingestor) Hydrate(ctx context.Context, path string) ([]*models.Cocktail, error) {
	cocktails, skipped, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		in.logger.Warn().Int("skipped", skipped).Msg("dataset rows skipped")
	}
	if len(cocktails) == 0 {
		return nil, fmt.Errorf("dataset %s contains no usable rows", path)
	}

	if err := in.db.UpsertCocktails(ctx, cocktails); err != nil {
		return nil, fmt.Errorf("persist cocktails: %w", err)
	}
	if err := in.records.PutBatch(cocktails); err != nil {
		return nil, fmt.Errorf("store cocktail records: %w", err)
	}
	in.catalog.Add(cocktails...)
	return cocktails, nil
}

func (in *Ingestor) embed(ctx context.Context, cocktails []*models.Cocktail) error {
	for offset := 0; offset < len(cocktails); offset += in.batchSize {
		end := offset + in.batchSize
		if end > len(cocktails) {
			end = len(cocktails)
		}
		batch := cocktails[offset:end]

		texts := make([]string, len(batch))
		ids := make([]int64, len(batch))
		for i, c := range batch {
			texts[i] = c.EmbeddingText()
			ids[i] = c.ID
		}

		vectors, err := in.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch at %d: %w", offset, err)
		}
		if err := in.index.Insert(ids, vectors); err != nil {
			return fmt.Errorf("index batch at %d: %w", offset, err)
		}
	}
	return nil
}
