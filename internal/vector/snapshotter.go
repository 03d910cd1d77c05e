// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package vector

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Snapshotter periodically persists the index. It implements
// suture.Service and saves one final snapshot on shutdown.
type Snapshotter struct {
	index    *Index
	dir      string
	interval time.Duration
	logger   zerolog.Logger
}

func NewSnapshotter(index *Index, dir string, interval time.Duration, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		index:    index,
		dir:      dir,
		interval: interval,
		logger:   logger.With().Str("component", "vector_snapshotter").Logger(),
	}
}

func (s *Snapshotter) String() string { return "vector-snapshotter" }

// Serve saves the index on every tick until the context is cancelled.
// Save failures are logged and retried on the next tick rather than
// crashing the service.
func (s *Snapshotter) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.index.Save(s.dir); err != nil {
				s.logger.Error().Err(err).Msg("Final snapshot failed")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.index.Save(s.dir); err != nil {
				s.logger.Error().Err(err).Msg("Periodic snapshot failed")
			}
		}
	}
}
