// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package events

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/database"
	"github.com/ramalmr/cocktail-advisor/internal/metrics"
)

// InteractionWriter persists one interaction row.
type InteractionWriter interface {
	InsertInteraction(ctx context.Context, in *database.Interaction) error
}

// Consumer drains the interaction topic into the database. It
// implements suture.Service. Events that fail to decode are dropped
// with a log line; database failures are logged and the message acked
// anyway, because interaction logging is best effort and must never
// wedge the bus.
type Consumer struct {
	bus    *Bus
	writer InteractionWriter
	logger zerolog.Logger
}

func NewConsumer(bus *Bus, writer InteractionWriter, logger zerolog.Logger) *Consumer {
	return &Consumer{
		bus:    bus,
		writer: writer,
		logger: logger.With().Str("component", "interaction_consumer").Logger(),
	}
}

func (c *Consumer) String() string { return "interaction-consumer" }

// Serve consumes until the context is cancelled.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.bus.Subscribe(ctx, InteractionTopic)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			c.handle(ctx, msg.Payload)
			msg.Ack()
		}
	}
}

func (c *Consumer) handle(ctx context.Context, payload []byte) {
	var event InteractionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.logger.Warn().Err(err).Msg("Dropping undecodable interaction event")
		metrics.InteractionEventsConsumed.WithLabelValues("unknown", "decode_error").Inc()
		return
	}

	err := c.writer.InsertInteraction(ctx, &database.Interaction{
		UserID:     event.UserID,
		Type:       event.Type,
		Query:      event.Query,
		CocktailID: event.CocktailID,
		CreatedAt:  event.OccurredAt,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to persist interaction")
		metrics.InteractionEventsConsumed.WithLabelValues(event.Type, "error").Inc()
		return
	}
	metrics.InteractionEventsConsumed.WithLabelValues(event.Type, "success").Inc()
}
