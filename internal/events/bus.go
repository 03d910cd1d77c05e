// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
)

// Publisher is the write side of the interaction bus.
type Publisher interface {
	Publish(event *InteractionEvent) error
}

// Bus is an in-process Watermill pub/sub for interaction events.
// Publishing is buffered and non-blocking up to the buffer size; a
// full buffer drops the send into a blocking publish rather than
// losing the event.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. The Watermill logger is typically the slog
// bridge over the service's zerolog logger.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
		Persistent:          false,
	}, logger)
	return &Bus{pubsub: pubsub}
}

// Publish emits one interaction event.
func (b *Bus) Publish(event *InteractionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode interaction event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := b.pubsub.Publish(InteractionTopic, msg); err != nil {
		return fmt.Errorf("publish interaction event: %w", err)
	}

	metrics.InteractionEventsPublished.WithLabelValues(event.Type).Inc()
	return nil
}

// Subscribe returns the consumer-side channel for a topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down; in-flight subscribers are closed.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
