// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ramalmr/cocktail-advisor/internal/auth"
	"github.com/ramalmr/cocktail-advisor/internal/config"
	"github.com/ramalmr/cocktail-advisor/internal/middleware"
)

// loginRateLimit throttles credential guessing independently of the
// general API limit.
const (
	loginRateLimit  = 5
	loginRateWindow = 5 * time.Minute
)

// NewRouter wires the full HTTP surface. Auth enforcement and rate
// limits follow the security configuration.
func NewRouter(h *Handlers, authManager *auth.Manager, cfg *config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", h.HandleHealth)
	r.Get("/readyz", h.HandleReady)

	rateLimit := httprate.LimitByIP(rateLimitReqs(cfg), rateLimitWindow(cfg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(loginRateLimit, loginRateWindow))
			r.Post("/auth/login", h.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Use(auth.Middleware(authManager, cfg.AuthMode))

			r.Post("/chat/message", h.HandleChatMessage)
			r.Get("/chat/history", h.HandleChatHistory)

			r.Post("/cocktails/search", h.HandleSearch)
			r.Post("/cocktails/recommend", h.HandleRecommend)
			r.Get("/cocktails/{id}", h.HandleGetCocktail)
			r.Get("/cocktails/{id}/similar", h.HandleSimilarCocktails)

			r.Get("/ingredients", h.HandleListIngredients)

			r.Get("/preferences/{userID}", h.HandleGetPreferences)
			r.Put("/preferences/{userID}", h.HandlePutPreferences)

			r.Get("/stats", h.HandleStats)
			r.Get("/stats/popular/cocktails", h.HandlePopularCocktails)
			r.Get("/stats/popular/ingredients", h.HandlePopularIngredients)
		})
	})

	return r
}

func corsOrigins(cfg *config.SecurityConfig) []string {
	if len(cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSOrigins
}

func rateLimitReqs(cfg *config.SecurityConfig) int {
	if cfg.RateLimitReqs <= 0 {
		return 100
	}
	return cfg.RateLimitReqs
}

func rateLimitWindow(cfg *config.SecurityConfig) time.Duration {
	if cfg.RateLimitWindow <= 0 {
		return time.Minute
	}
	return cfg.RateLimitWindow
}
