// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"errors"
	"net/http"

	"github.com/ramalmr/cocktail-advisor/internal/auth"
)

// HandleLogin exchanges admin credentials for a session token.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.auth == nil {
		rw.NotFound("authentication is disabled")
		return
	}

	var req LoginRequest
	if details, err := decodeJSON(w, r, &req); err != nil {
		if details != nil {
			rw.ValidationError("invalid login request", details)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		rw.Unauthorized("invalid credentials")
		return
	}
	if err != nil {
		rw.InternalError("login failed")
		return
	}

	rw.Success(map[string]string{"token": token})
}
