// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/database"
	"github.com/ramalmr/cocktail-advisor/internal/events"
	"github.com/ramalmr/cocktail-advisor/internal/llm"
	"github.com/ramalmr/cocktail-advisor/internal/models"
	"github.com/ramalmr/cocktail-advisor/internal/recommend"
)

// Confidence scores per conversation path.
const (
	confidenceRecommendation = 0.95
	confidenceIngredient     = 0.9
	confidencePreference     = 1.0
	confidenceGeneral        = 0.85
)

// Result sizes per conversation path.
const (
	recommendLimit      = 5
	ingredientLimit     = 5
	generalContextLimit = 3
)

const errorReply = "I apologize, but I encountered an error. Please try again."

const preferenceReply = "I've updated your preferences! I'll keep these in mind for future " +
	"recommendations. Would you like me to suggest some cocktails based " +
	"on your updated preferences?"

// LLM is the language-model surface the chat service needs.
type LLM interface {
	AnalyzeIntent(ctx context.Context, message string) (*llm.Intent, error)
	ExtractIngredients(ctx context.Context, text string) ([]string, error)
	ExtractPreferences(ctx context.Context, message string) (*llm.ExtractedPreferences, error)
	GenerateResponse(ctx context.Context, question, context string) (string, error)
	GenerateIngredientResponse(ctx context.Context, query string, ingredients []string, cocktailInfo string) (string, error)
}

// Recommender is the recommendation surface the chat service needs.
type Recommender interface {
	Recommend(ctx context.Context, query string, prefs *models.UserPreference, limit int) (*recommend.Result, error)
	Search(ctx context.Context, query string, k int) (*recommend.SimilarResult, error)
}

// IngredientLookup finds cocktails containing a set of ingredients.
type IngredientLookup interface {
	ByIngredients(names []string, limit int) []*models.Cocktail
}

// PreferenceStore reads and replaces stored user preferences.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (*models.UserPreference, error)
	UpsertPreferences(ctx context.Context, prefs *models.UserPreference) error
}

// Service routes chat messages by intent. Failures never surface as
// errors to the caller; they degrade to an apology reply so the
// conversation survives a flaky upstream.
type Service struct {
	llm       LLM
	engine    Recommender
	lookup    IngredientLookup
	prefs     PreferenceStore
	publisher events.Publisher
	history   *History
	logger    zerolog.Logger
}

func NewService(llmSvc LLM, engine Recommender, lookup IngredientLookup,
	prefs PreferenceStore, publisher events.Publisher, logger zerolog.Logger) *Service {
	return &Service{
		llm:       llmSvc,
		engine:    engine,
		lookup:    lookup,
		prefs:     prefs,
		publisher: publisher,
		history:   NewHistory(),
		logger:    logger.With().Str("component", "chat").Logger(),
	}
}

// Process handles one chat turn for the user and always returns a
// response, falling back to an apology with zero confidence when a
// handler fails.
func (s *Service) Process(ctx context.Context, userID, message string) *models.ChatResponse {
	start := time.Now()

	s.history.Append(userID, "user", message)
	s.publish(&events.InteractionEvent{UserID: userID, Type: events.TypeChat, Query: message})

	resp, err := s.dispatch(ctx, userID, message)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Chat turn failed")
		resp = &models.ChatResponse{Message: errorReply, ConfidenceScore: 0}
	}

	s.history.Append(userID, "assistant", resp.Message)
	resp.ProcessingTime = time.Since(start).Seconds()
	resp.Timestamp = time.Now().UTC()
	return resp
}

// HistoryFor returns the user's recent conversation turns.
func (s *Service) HistoryFor(userID string, limit int) []models.ChatMessage {
	return s.history.Recent(userID, limit)
}

func (s *Service) dispatch(ctx context.Context, userID, message string) (*models.ChatResponse, error) {
	intent, err := s.llm.AnalyzeIntent(ctx, message)
	if err != nil {
		return nil, err
	}

	switch intent.Type {
	case llm.IntentRecommendation:
		return s.handleRecommendation(ctx, userID, message)
	case llm.IntentIngredientQuery:
		return s.handleIngredientQuery(ctx, message, intent.Ingredients)
	case llm.IntentPreferenceUpdate:
		return s.handlePreferenceUpdate(ctx, userID, message)
	default:
		return s.handleGeneralQuery(ctx, message)
	}
}

func (s *Service) handleRecommendation(ctx context.Context, userID, message string) (*models.ChatResponse, error) {
	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Recommend(ctx, message, prefs, recommendLimit)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	reply, err := s.llm.GenerateResponse(ctx, message, cocktailContext(result.Cocktails))
	if err != nil {
		return nil, err
	}

	for _, c := range result.Cocktails {
		s.publish(&events.InteractionEvent{
			UserID:     userID,
			Type:       events.TypeRecommendation,
			Query:      message,
			CocktailID: c.ID,
		})
	}

	return &models.ChatResponse{
		Message:         reply,
		Cocktails:       dereference(result.Cocktails),
		ConfidenceScore: confidenceRecommendation,
	}, nil
}

func (s *Service) handleIngredientQuery(ctx context.Context, message string, hinted []string) (*models.ChatResponse, error) {
	ingredients, err := s.llm.ExtractIngredients(ctx, message)
	if err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		ingredients = hinted
	}

	cocktails := s.lookup.ByIngredients(ingredients, ingredientLimit)

	reply, err := s.llm.GenerateIngredientResponse(ctx, message, ingredients, cocktailContext(cocktails))
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Message:         reply,
		Cocktails:       dereference(cocktails),
		ConfidenceScore: confidenceIngredient,
	}, nil
}

func (s *Service) handlePreferenceUpdate(ctx context.Context, userID, message string) (*models.ChatResponse, error) {
	extracted, err := s.llm.ExtractPreferences(ctx, message)
	if err != nil {
		return nil, err
	}

	prefs := &models.UserPreference{
		UserID:                userID,
		FavoriteIngredients:   extracted.FavoriteIngredients,
		FavoriteCocktails:     extracted.FavoriteCocktails,
		Allergies:             extracted.Allergies,
		PreferredAlcoholTypes: extracted.PreferredAlcoholTypes,
		LastUpdated:           time.Now().UTC(),
	}
	prefs.Normalize()
	if err := s.prefs.UpsertPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("store preferences: %w", err)
	}

	return &models.ChatResponse{
		Message:         preferenceReply,
		ConfidenceScore: confidencePreference,
	}, nil
}

func (s *Service) handleGeneralQuery(ctx context.Context, message string) (*models.ChatResponse, error) {
	result, err := s.engine.Search(ctx, message, generalContextLimit)
	if err != nil {
		return nil, fmt.Errorf("search context: %w", err)
	}

	cocktails := make([]*models.Cocktail, 0, len(result.Matches))
	for _, m := range result.Matches {
		cocktails = append(cocktails, m.Cocktail)
	}

	reply, err := s.llm.GenerateResponse(ctx, message, cocktailContext(cocktails))
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Message:         reply,
		Cocktails:       dereference(cocktails),
		ConfidenceScore: confidenceGeneral,
	}, nil
}

// loadPreferences treats a missing preference record as no preferences.
func (s *Service) loadPreferences(ctx context.Context, userID string) (*models.UserPreference, error) {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) publish(event *events.InteractionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event); err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("Interaction event dropped")
	}
}

// cocktailContext renders cocktails as prompt context.
func cocktailContext(cocktails []*models.Cocktail) string {
	parts := make([]string, 0, len(cocktails))
	for _, c := range cocktails {
		ingredients := make([]string, 0, len(c.Ingredients))
		for _, ing := range c.Ingredients {
			if ing.Measure != "" {
				ingredients = append(ingredients, ing.Measure+" "+ing.Name)
			} else {
				ingredients = append(ingredients, ing.Name)
			}
		}
		parts = append(parts, fmt.Sprintf(
			"Cocktail: %s\nCategory: %s\nGlass: %s\nIngredients: %s\nInstructions: %s\n",
			c.Name, c.Category, c.GlassType, strings.Join(ingredients, ", "), c.Instructions))
	}
	return strings.Join(parts, "\n")
}

func dereference(cocktails []*models.Cocktail) []models.Cocktail {
	if len(cocktails) == 0 {
		return nil
	}
	out := make([]models.Cocktail, len(cocktails))
	for i, c := range cocktails {
		out[i] = *c
	}
	return out
}
