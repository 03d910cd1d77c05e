// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package embedding provides the text-embedding client that backs
// vector search, with rate limiting and circuit breaking around the
// upstream provider.
package embedding

import (
	"context"
)

// Provider turns texts into fixed-dimension vectors. Implementations
// must preserve input order: output[i] embeds texts[i].
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
