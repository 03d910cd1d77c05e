// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"net/http"
)

// HandleChatMessage processes one conversational turn.
func (h *Handlers) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ChatRequest
	if details, err := decodeJSON(w, r, &req); err != nil {
		if details != nil {
			rw.ValidationError("invalid chat request", details)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	resp := h.chat.Process(r.Context(), req.UserID, req.Message)
	rw.Success(resp)
}

// HandleChatHistory returns the user's recent conversation turns.
func (h *Handlers) HandleChatHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		rw.BadRequest("user_id is required")
		return
	}
	limit := clamp(queryInt(r, "limit", 10), 1, 10)

	turns := h.chat.HistoryFor(userID, limit)
	rw.SuccessWithCount(turns, len(turns))
}
