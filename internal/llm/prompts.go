// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package llm

import "fmt"

func bartenderPrompt(context, question string) string {
	return fmt.Sprintf(`You are a professional bartender and cocktail expert. Use the following context to answer the question:

Context: %s

Question: %s

Provide a detailed and helpful response. If making drink recommendations, include:
1. Preparation instructions
2. Ingredient measurements
3. Special techniques or tips
4. Suitable occasions
5. Any relevant warnings or alternatives

Keep the tone professional but friendly.`, context, question)
}

func intentPrompt(message string) string {
	return fmt.Sprintf(`Analyze the following message and determine the user's intent:
Message: %s

Classify into one of these categories:
1. recommendation (looking for cocktail recommendations)
2. ingredient_query (asking about specific ingredients)
3. preference_update (stating preferences)
4. general_query (other queries)

Respond with JSON of the form:
{"type": "<category>", "ingredients": [], "cocktails": []}`, message)
}

func ingredientExtractionPrompt(text string) string {
	return fmt.Sprintf(`Extract all ingredient mentions from this text:

%s

Return only the ingredient names as a JSON array.`, text)
}

func ingredientAnalysisPrompt(ingredients string) string {
	return fmt.Sprintf(`Analyze these cocktail ingredients and provide insights:

Ingredients: %s

Please provide:
1. Common cocktail families these ingredients suggest
2. Potential flavor profiles
3. Any standard ratios or proportions
4. Common variations or substitutions
5. Any special handling requirements`, ingredients)
}

func ingredientResponsePrompt(analysis, cocktailInfo, query string) string {
	return fmt.Sprintf(`Based on the ingredient analysis:
%s

And these cocktail options:
%s

Provide a detailed response to: %s`, analysis, cocktailInfo, query)
}

func preferenceExtractionPrompt(message string) string {
	return fmt.Sprintf(`Extract cocktail preferences from this message:

Message: %s

Respond with JSON of the form:
{"favorite_ingredients": [], "favorite_cocktails": [], "allergies": [], "preferred_alcohol_types": []}

Use lowercase entries and include only preferences the message states.`, message)
}
