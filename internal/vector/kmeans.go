// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package vector

import (
	"math/rand"
)

const (
	kmeansIterations = 10
	kmeansSeed       = 42
)

// kmeans clusters vectors into k centroids with a fixed-seed Lloyd's
// iteration, so repeated upgrades over the same data produce the same
// layout. Empty clusters are re-seeded from a random vector.
func kmeans(vectors [][]float32, k, iterations int) [][]float32 {
	n := len(vectors)
	if k >= n {
		out := make([][]float32, n)
		for i, v := range vectors {
			out[i] = cloneVector(v)
		}
		return out
	}

	rng := rand.New(rand.NewSource(kmeansSeed))

	centroids := make([][]float32, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = cloneVector(vectors[idx])
	}

	assignments := make([]int, n)
	for iter := 0; iter < iterations; iter++ {
		changed := false
		for i, v := range vectors {
			c := nearestCentroid(v, centroids)
			if c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dim := len(vectors[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := assignments[i]
			counts[c]++
			for j, x := range v {
				sums[c][j] += float64(x)
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				centroids[c] = cloneVector(vectors[rng.Intn(n)])
				continue
			}
			for j := 0; j < dim; j++ {
				centroids[c][j] = float32(sums[c][j] / float64(counts[c]))
			}
		}
	}
	return centroids
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
