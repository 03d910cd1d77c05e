// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package chat turns user messages into bartender replies by routing
// them through intent analysis and the recommendation engine.
package chat

import (
	"sync"
	"time"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// historyDepth is the rolling window of turns kept per user.
const historyDepth = 10

// History keeps an in-memory rolling conversation window per user.
type History struct {
	mu    sync.Mutex
	turns map[string][]models.ChatMessage
}

func NewHistory() *History {
	return &History{turns: make(map[string][]models.ChatMessage)}
}

// Append records a turn and trims the window to the newest entries.
func (h *History) Append(userID, role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := append(h.turns[userID], models.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if len(turns) > historyDepth {
		turns = turns[len(turns)-historyDepth:]
	}
	h.turns[userID] = turns
}

// Recent returns up to limit of the newest turns for the user, oldest
// first. A non-positive limit returns the full window.
func (h *History) Recent(userID string, limit int) []models.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := h.turns[userID]
	if limit <= 0 || limit > len(turns) {
		limit = len(turns)
	}
	out := make([]models.ChatMessage, limit)
	copy(out, turns[len(turns)-limit:])
	return out
}
