// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package events carries user interaction events from request handlers
// to the persistence consumer over an in-process Watermill pub/sub, so
// logging an interaction never blocks a response.
package events

import (
	"time"
)

// Interaction event types.
const (
	TypeView           = "view"
	TypeSearch         = "search"
	TypeChat           = "chat"
	TypeRecommendation = "recommendation"
)

// InteractionTopic is the pub/sub topic interaction events travel on.
const InteractionTopic = "interactions"

// InteractionEvent is one user action worth recording.
type InteractionEvent struct {
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Query      string    `json:"query,omitempty"`
	CocktailID int64     `json:"cocktail_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
