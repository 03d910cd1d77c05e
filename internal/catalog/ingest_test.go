// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

type mockUpserter struct {
	cocktails []*models.Cocktail
	err       error
}

func (m *mockUpserter) UpsertCocktails(_ context.Context, cocktails []*models.Cocktail) error {
	if m.err != nil {
		return m.err
	}
	m.cocktails = append(m.cocktails, cocktails...)
	return nil
}

type mockRecordWriter struct {
	stored int
}

func (m *mockRecordWriter) PutBatch(cocktails []*models.Cocktail) error {
	m.stored += len(cocktails)
	return nil
}

type mockEmbedder struct {
	calls int
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

type mockIndex struct {
	ids   []int64
	saved int
}

func (m *mockIndex) Insert(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.New("id/vector length mismatch")
	}
	m.ids = append(m.ids, ids...)
	return nil
}

func (m *mockIndex) Save(string) error { m.saved++; return nil }
func (m *mockIndex) Len() int          { return len(m.ids) }

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cocktails.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestorRun(t *testing.T) {
	db := &mockUpserter{}
	records := &mockRecordWriter{}
	embedder := &mockEmbedder{}
	index := &mockIndex{}
	cat := NewCatalog()

	snapDir := t.TempDir()
	in := NewIngestor(db, records, embedder, index, cat, snapDir, zerolog.Nop())
	if err := in.Run(context.Background(), writeDataset(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(db.cocktails) != 3 {
		t.Errorf("upserted %d cocktails, want 3", len(db.cocktails))
	}
	if records.stored != 3 {
		t.Errorf("stored %d records, want 3", records.stored)
	}
	if cat.Len() != 3 {
		t.Errorf("catalog has %d cocktails, want 3", cat.Len())
	}
	if len(index.ids) != 3 {
		t.Errorf("indexed %d vectors, want 3", len(index.ids))
	}
	if index.saved != 1 {
		t.Errorf("snapshots = %d, want 1", index.saved)
	}
	if embedder.calls != 1 {
		t.Errorf("embed calls = %d, want a single batch", embedder.calls)
	}
}

func TestIngestorBatchesEmbedding(t *testing.T) {
	embedder := &mockEmbedder{}
	index := &mockIndex{}

	in := NewIngestor(&mockUpserter{}, &mockRecordWriter{}, embedder, index, NewCatalog(), "", zerolog.Nop())
	in.SetEmbedBatchSize(2)
	if err := in.Run(context.Background(), writeDataset(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if embedder.calls != 2 {
		t.Errorf("embed calls = %d, want 2 for 3 cocktails at batch size 2", embedder.calls)
	}
	if len(index.ids) != 3 {
		t.Errorf("indexed %d vectors, want 3", len(index.ids))
	}
}

func TestIngestorEmbeddingFailureKeepsLookups(t *testing.T) {
	db := &mockUpserter{}
	embedder := &mockEmbedder{err: errors.New("quota exceeded")}
	cat := NewCatalog()

	in := NewIngestor(db, &mockRecordWriter{}, embedder, &mockIndex{}, cat, "", zerolog.Nop())
	err := in.Run(context.Background(), writeDataset(t))
	if err == nil {
		t.Fatal("expected embedding error")
	}
	if cat.Len() != 3 {
		t.Errorf("catalog has %d cocktails, want 3 despite embedding failure", cat.Len())
	}
	if len(db.cocktails) != 3 {
		t.Errorf("upserted %d cocktails, want 3 despite embedding failure", len(db.cocktails))
	}
}

func TestIngestorMissingFile(t *testing.T) {
	in := NewIngestor(&mockUpserter{}, &mockRecordWriter{}, &mockEmbedder{}, &mockIndex{}, NewCatalog(), "", zerolog.Nop())
	if err := in.Run(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing dataset")
	}
}
