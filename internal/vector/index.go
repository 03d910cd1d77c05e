// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package vector implements the in-process embedding index used for
// cocktail similarity search. The index starts as a flat exhaustive
// scan and upgrades itself to an inverted-file (IVF) layout once it
// grows past a configured threshold. The upgrade is one-way for the
// lifetime of the process.
package vector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
)

// ErrDimensionMismatch is returned when a vector's dimensionality does
// not match the index, or when the ids and vectors of an insert batch
// disagree in length.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// Hit is a single search result. Distance is the Euclidean (L2)
// distance between the query and the stored vector, Similarity is the
// bounded transform 1/(1+distance).
type Hit struct {
	ID         int64
	Distance   float64
	Similarity float64
}

// Config controls index geometry and the IVF upgrade policy.
type Config struct {
	// Dimension is the expected vector width. Must be positive.
	Dimension int

	// UpgradeThreshold is the vector count past which the index
	// rebuilds itself into IVF form. Zero disables the upgrade.
	UpgradeThreshold int

	// NProbe is the number of inverted lists scanned per IVF search.
	NProbe int
}

// Index is a thread-safe similarity index over float32 vectors.
// Inserts are append-only: re-inserting an ID stores a second copy and
// both remain searchable.
type Index struct {
	mu sync.RWMutex

	dim              int
	upgradeThreshold int
	nprobe           int

	ids     []int64
	vectors [][]float32

	// IVF state, populated after the upgrade.
	clustered bool
	centroids [][]float32
	lists     [][]int32

	logger zerolog.Logger
}

// New creates an empty index.
func New(cfg Config, logger zerolog.Logger) (*Index, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("vector: dimension must be positive, got %d", cfg.Dimension)
	}
	if cfg.NProbe <= 0 {
		cfg.NProbe = 1
	}
	return &Index{
		dim:              cfg.Dimension,
		upgradeThreshold: cfg.UpgradeThreshold,
		nprobe:           cfg.NProbe,
		logger:           logger.With().Str("component", "vector_index").Logger(),
	}, nil
}

// Dimension returns the configured vector width.
func (ix *Index) Dimension() int {
	return ix.dim
}

// Len returns the number of stored vectors, duplicates included.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.ids)
}

// Clustered reports whether the IVF upgrade has happened.
func (ix *Index) Clustered() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.clustered
}

// Insert appends a batch of vectors under the given IDs. The batch is
// applied atomically: on any validation failure nothing is stored.
func (ix *Index) Insert(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("%w: %d ids for %d vectors", ErrDimensionMismatch, len(ids), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, index expects %d",
				ErrDimensionMismatch, i, len(v), ix.dim)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	for i := range ids {
		pos := int32(len(ix.ids))
		ix.ids = append(ix.ids, ids[i])
		ix.vectors = append(ix.vectors, vectors[i])
		if ix.clustered {
			c := nearestCentroid(vectors[i], ix.centroids)
			ix.lists[c] = append(ix.lists[c], pos)
		}
	}

	metrics.VectorIndexSize.Set(float64(len(ix.ids)))

	if !ix.clustered && ix.upgradeThreshold > 0 && len(ix.ids) > ix.upgradeThreshold {
		ix.upgradeLocked()
	}
	return nil
}

// Search returns the k nearest stored vectors to the query, ordered by
// ascending distance. Ties preserve insertion order. Fewer than k hits
// are returned when the index is small or, in IVF mode, when the probed
// lists contain fewer candidates.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			ErrDimensionMismatch, len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.ids) == 0 {
		return nil, nil
	}

	var hits []Hit
	if ix.clustered {
		hits = ix.searchIVFLocked(query, k)
	} else {
		hits = ix.searchFlatLocked(query, k)
	}
	return hits, nil
}

func (ix *Index) searchFlatLocked(query []float32, k int) []Hit {
	hits := make([]Hit, 0, len(ix.ids))
	for pos, v := range ix.vectors {
		d := euclidean(query, v)
		hits = append(hits, Hit{ID: ix.ids[pos], Distance: d, Similarity: similarity(d)})
	}
	return topK(hits, k)
}

func (ix *Index) searchIVFLocked(query []float32, k int) []Hit {
	probes := nearestCentroids(query, ix.centroids, ix.nprobe)
	var hits []Hit
	for _, c := range probes {
		for _, pos := range ix.lists[c] {
			d := euclidean(query, ix.vectors[pos])
			hits = append(hits, Hit{ID: ix.ids[pos], Distance: d, Similarity: similarity(d)})
		}
	}
	return topK(hits, k)
}

// topK sorts hits by ascending distance with a stable sort, so that
// equidistant vectors keep their insertion order, and trims to k.
func topK(hits []Hit, k int) []Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// upgradeLocked rebuilds the index into IVF form. Callers must hold the
// write lock.
func (ix *Index) upgradeLocked() {
	n := len(ix.vectors)
	nlist := int(math.Floor(math.Sqrt(float64(n))))
	if nlist < 1 {
		nlist = 1
	}

	ix.centroids = kmeans(ix.vectors, nlist, kmeansIterations)
	ix.lists = make([][]int32, len(ix.centroids))
	for pos, v := range ix.vectors {
		c := nearestCentroid(v, ix.centroids)
		ix.lists[c] = append(ix.lists[c], int32(pos))
	}
	ix.clustered = true

	metrics.VectorIndexUpgrades.Inc()
	ix.logger.Info().
		Int("vectors", n).
		Int("nlist", len(ix.centroids)).
		Int("nprobe", ix.nprobe).
		Msg("Vector index upgraded to IVF")
}

func similarity(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func nearestCentroid(v []float32, centroids [][]float32) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centroids {
		if d := euclidean(v, c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// nearestCentroids returns the indices of the n closest centroids to
// the query, nearest first.
func nearestCentroids(query []float32, centroids [][]float32, n int) []int {
	type cdist struct {
		idx  int
		dist float64
	}
	ds := make([]cdist, len(centroids))
	for i, c := range centroids {
		ds[i] = cdist{idx: i, dist: euclidean(query, c)}
	}
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].dist < ds[j].dist })
	if n > len(ds) {
		n = len(ds)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = ds[i].idx
	}
	return out
}
