// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/database"
)

type capturingWriter struct {
	mu       sync.Mutex
	inserted []*database.Interaction
}

func (w *capturingWriter) InsertInteraction(_ context.Context, in *database.Interaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inserted = append(w.inserted, in)
	return nil
}

func (w *capturingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inserted)
}

func TestPublishReachesConsumer(t *testing.T) {
	bus := NewBus(watermill.NopLogger{})
	defer bus.Close()

	writer := &capturingWriter{}
	consumer := NewConsumer(bus, writer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Serve(ctx)

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	if err := bus.Publish(&InteractionEvent{
		UserID:     "alice",
		Type:       TypeSearch,
		Query:      "refreshing citrus drink",
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for writer.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("event never reached the consumer")
		case <-time.After(10 * time.Millisecond):
		}
	}

	writer.mu.Lock()
	got := writer.inserted[0]
	writer.mu.Unlock()
	if got.UserID != "alice" || got.Type != TypeSearch {
		t.Errorf("persisted interaction = %+v, want alice/search", got)
	}
	if got.Query != "refreshing citrus drink" {
		t.Errorf("Query = %q", got.Query)
	}
}

func TestPublishFillsTimestamp(t *testing.T) {
	bus := NewBus(watermill.NopLogger{})
	defer bus.Close()

	event := &InteractionEvent{UserID: "bob", Type: TypeView, CocktailID: 7}
	if err := bus.Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if event.OccurredAt.IsZero() {
		t.Error("OccurredAt not defaulted on publish")
	}
}
