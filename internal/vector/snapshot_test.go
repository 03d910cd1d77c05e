// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package vector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ix := newTestIndex(t, Config{Dimension: 3})
	if err := ix.Insert([]int64{1, 2, 3}, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := ix.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestIndex(t, Config{Dimension: 3})
	if err := restored.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if restored.Len() != 3 {
		t.Fatalf("restored Len() = %d, want 3", restored.Len())
	}

	hits, err := restored.Search([]float32{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != 2 || hits[0].Similarity != 1 {
		t.Errorf("hits = %+v, want exact match for ID 2", hits)
	}
}

func TestLoadMissingDirectoryIsEmpty(t *testing.T) {
	ix := newTestIndex(t, Config{Dimension: 3})

	if err := ix.Load(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
}

func TestLoadDimensionMismatch(t *testing.T) {
	dir := t.TempDir()

	ix := newTestIndex(t, Config{Dimension: 2})
	if err := ix.Insert([]int64{1}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := ix.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := newTestIndex(t, Config{Dimension: 3})
	err := other.Load(dir)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Load error = %v, want ErrDimensionMismatch", err)
	}
}

func TestManifestPointsAtLatestSnapshot(t *testing.T) {
	dir := t.TempDir()

	ix := newTestIndex(t, Config{Dimension: 2})
	if err := ix.Insert([]int64{1}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := ix.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Active == "" {
		t.Fatal("manifest has empty active snapshot")
	}
	if m.Count != 1 {
		t.Errorf("manifest count = %d, want 1", m.Count)
	}
	if m.Dimension != 2 {
		t.Errorf("manifest dimension = %d, want 2", m.Dimension)
	}
	if _, err := os.Stat(filepath.Join(dir, m.Active)); err != nil {
		t.Errorf("active snapshot %q not on disk: %v", m.Active, err)
	}
}

func TestSaveSurvivesClusteredState(t *testing.T) {
	dir := t.TempDir()

	ix := newTestIndex(t, Config{Dimension: 2, UpgradeThreshold: 4, NProbe: 2})
	var ids []int64
	var vectors [][]float32
	for i := 0; i < 10; i++ {
		ids = append(ids, int64(i))
		vectors = append(vectors, []float32{float32(i), float32(i % 3)})
	}
	if err := ix.Insert(ids, vectors); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !ix.Clustered() {
		t.Fatal("index did not upgrade")
	}

	if err := ix.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestIndex(t, Config{Dimension: 2, NProbe: 2})
	if err := restored.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !restored.Clustered() {
		t.Error("restored index lost clustered state")
	}
	if restored.Len() != 10 {
		t.Errorf("restored Len() = %d, want 10", restored.Len())
	}
}
