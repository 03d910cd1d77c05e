// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package llm

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Intent classification outcomes.
const (
	IntentRecommendation   = "recommendation"
	IntentIngredientQuery  = "ingredient_query"
	IntentPreferenceUpdate = "preference_update"
	IntentGeneralQuery     = "general_query"
)

// Intent is the parsed result of intent analysis.
type Intent struct {
	Type        string   `json:"type"`
	Ingredients []string `json:"ingredients"`
	Cocktails   []string `json:"cocktails"`
}

// ExtractedPreferences mirrors the preference-extraction JSON contract.
type ExtractedPreferences struct {
	FavoriteIngredients   []string `json:"favorite_ingredients"`
	FavoriteCocktails     []string `json:"favorite_cocktails"`
	Allergies             []string `json:"allergies"`
	PreferredAlcoholTypes []string `json:"preferred_alcohol_types"`
}

// Service layers cocktail-domain prompting on a completion client.
// Parsing is tolerant: free-text surrounding a JSON payload is ignored
// and unparseable analysis responses fall back to safe defaults rather
// than failing the conversation.
type Service struct {
	client Client
	logger zerolog.Logger
}

func NewService(client Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "llm_service").Logger(),
	}
}

// GenerateResponse produces a bartender-style reply to the question
// given cocktail context.
func (s *Service) GenerateResponse(ctx context.Context, question, context_ string) (string, error) {
	return s.client.Complete(ctx, bartenderPrompt(context_, question))
}

// AnalyzeIntent classifies a chat message. On completion failure the
// error propagates; on an unparseable or unknown reply the intent
// degrades to general_query so the conversation can continue.
func (s *Service) AnalyzeIntent(ctx context.Context, message string) (*Intent, error) {
	reply, err := s.client.Complete(ctx, intentPrompt(message))
	if err != nil {
		return nil, fmt.Errorf("analyze intent: %w", err)
	}

	var intent Intent
	if err := json.Unmarshal(extractJSONObject(reply), &intent); err != nil {
		s.logger.Warn().Err(err).Str("reply", truncate([]byte(reply), 200)).Msg("Unparseable intent reply, treating as general query")
		return &Intent{Type: IntentGeneralQuery}, nil
	}

	switch intent.Type {
	case IntentRecommendation, IntentIngredientQuery, IntentPreferenceUpdate, IntentGeneralQuery:
	default:
		intent.Type = IntentGeneralQuery
	}
	return &intent, nil
}

// ExtractIngredients pulls ingredient mentions out of free text. An
// unparseable reply yields an empty list, not an error.
func (s *Service) ExtractIngredients(ctx context.Context, text string) ([]string, error) {
	reply, err := s.client.Complete(ctx, ingredientExtractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("extract ingredients: %w", err)
	}

	var ingredients []string
	if err := json.Unmarshal(extractJSONArray(reply), &ingredients); err != nil {
		s.logger.Warn().Err(err).Msg("Unparseable ingredient extraction reply")
		return nil, nil
	}
	return ingredients, nil
}

// ExtractPreferences parses stated preferences out of a chat message.
// An unparseable reply yields empty preferences, not an error.
func (s *Service) ExtractPreferences(ctx context.Context, message string) (*ExtractedPreferences, error) {
	reply, err := s.client.Complete(ctx, preferenceExtractionPrompt(message))
	if err != nil {
		return nil, fmt.Errorf("extract preferences: %w", err)
	}

	var prefs ExtractedPreferences
	if err := json.Unmarshal(extractJSONObject(reply), &prefs); err != nil {
		s.logger.Warn().Err(err).Msg("Unparseable preference extraction reply")
		return &ExtractedPreferences{}, nil
	}
	return &prefs, nil
}

// GenerateIngredientResponse runs the two-step ingredient flow: first
// an analysis of the mentioned ingredients, then a reply grounded in
// that analysis and the matching cocktails.
func (s *Service) GenerateIngredientResponse(ctx context.Context, query string, ingredients []string, cocktailInfo string) (string, error) {
	analysis, err := s.client.Complete(ctx, ingredientAnalysisPrompt(strings.Join(ingredients, ", ")))
	if err != nil {
		return "", fmt.Errorf("analyze ingredients: %w", err)
	}
	return s.client.Complete(ctx, ingredientResponsePrompt(analysis, cocktailInfo, query))
}

// extractJSONObject returns the first balanced {...} block, so replies
// that wrap JSON in prose or markdown fences still parse.
func extractJSONObject(s string) []byte {
	return extractBalanced(s, '{', '}')
}

func extractJSONArray(s string) []byte {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close byte) []byte {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return []byte(s)
	}
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return []byte(s[start : i+1])
			}
		}
	}
	return []byte(s[start:])
}
