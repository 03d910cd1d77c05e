// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package models

import "time"

// ChatMessage is a single turn in a user's conversation history.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatResponse is the assistant's reply to a chat message, optionally
// accompanied by the cocktails it talks about.
type ChatResponse struct {
	Message         string     `json:"message"`
	Cocktails       []Cocktail `json:"cocktails,omitempty"`
	ConfidenceScore float64    `json:"confidence_score"`
	ProcessingTime  float64    `json:"processing_time"`
	Timestamp       time.Time  `json:"timestamp"`
}
