// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package vector

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
)

const manifestName = "manifest.json"

// Manifest records which snapshot file is active. It replaces a
// filesystem symlink so the snapshot directory stays portable and the
// active pointer updates atomically via rename.
type Manifest struct {
	Active    string    `json:"active"`
	SavedAt   time.Time `json:"saved_at"`
	Count     int       `json:"count"`
	Dimension int       `json:"dimension"`
	Clustered bool      `json:"clustered"`
}

// snapshotState is the on-disk gob payload.
type snapshotState struct {
	Dimension int
	IDs       []int64
	Vectors   [][]float32
	Clustered bool
	Centroids [][]float32
	Lists     [][]int32
}

// Save writes the index to a timestamped snapshot file under dir and
// atomically repoints the manifest at it. Older snapshot files are left
// in place for manual recovery.
func (ix *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	ix.mu.RLock()
	state := snapshotState{
		Dimension: ix.dim,
		IDs:       ix.ids,
		Vectors:   ix.vectors,
		Clustered: ix.clustered,
		Centroids: ix.centroids,
		Lists:     ix.lists,
	}
	ix.mu.RUnlock()

	name := fmt.Sprintf("index_%s.gob", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(&state); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize snapshot: %w", err)
	}

	manifest := Manifest{
		Active:    name,
		SavedAt:   time.Now().UTC(),
		Count:     len(state.IDs),
		Dimension: state.Dimension,
		Clustered: state.Clustered,
	}
	if err := writeManifest(dir, manifest); err != nil {
		return err
	}

	metrics.VectorSnapshotsSaved.Inc()
	ix.logger.Info().
		Str("snapshot", name).
		Int("vectors", manifest.Count).
		Msg("Vector index snapshot saved")
	return nil
}

// Load restores the index from the snapshot the manifest points at.
// A missing directory or manifest is not an error: the index simply
// starts empty. A snapshot with the wrong dimension is rejected.
func (ix *Index) Load(dir string) error {
	manifest, err := readManifest(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	f, err := os.Open(filepath.Join(dir, manifest.Active))
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", manifest.Active, err)
	}
	defer f.Close()

	var state snapshotState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", manifest.Active, err)
	}
	if state.Dimension != ix.dim {
		return fmt.Errorf("%w: snapshot has %d dimensions, index expects %d",
			ErrDimensionMismatch, state.Dimension, ix.dim)
	}

	ix.mu.Lock()
	ix.ids = state.IDs
	ix.vectors = state.Vectors
	ix.clustered = state.Clustered
	ix.centroids = state.Centroids
	ix.lists = state.Lists
	ix.mu.Unlock()

	metrics.VectorIndexSize.Set(float64(len(state.IDs)))
	ix.logger.Info().
		Str("snapshot", manifest.Active).
		Int("vectors", len(state.IDs)).
		Bool("clustered", state.Clustered).
		Msg("Vector index restored from snapshot")
	return nil
}

func writeManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, manifestName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize manifest: %w", err)
	}
	return nil
}

func readManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Active == "" {
		return nil, fmt.Errorf("manifest has no active snapshot")
	}
	return &m, nil
}
