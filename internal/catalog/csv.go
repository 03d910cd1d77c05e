// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package catalog loads the cocktail dataset, maintains in-memory
// lookup indexes and drives the startup ingestion pipeline that feeds
// the database, record store and vector index.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// Dataset column layout. The ingredient and measure columns hold
// Python-style list literals, a quirk inherited from the dataset's
// original export.
var requiredColumns = []string{
	"id", "name", "alcoholic", "category", "glassType",
	"instructions", "drinkThumbnail", "ingredients", "ingredientMeasures",
}

// defaultPopularity is the cold-start popularity for every cocktail.
const defaultPopularity = 0.5

// LoadCSV reads the cocktail dataset. Rows that cannot be parsed are
// skipped and reported in the returned skip count rather than failing
// the whole load.
func LoadCSV(path string) ([]*models.Cocktail, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV parses the dataset from a reader.
func ParseCSV(r io.Reader) ([]*models.Cocktail, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read dataset header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		cocktails []*models.Cocktail
		skipped   int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read dataset row: %w", err)
		}

		c, err := parseRow(record, cols)
		if err != nil {
			skipped++
			continue
		}
		c.Normalize()
		cocktails = append(cocktails, c)
	}
	return cocktails, skipped, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", want)
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (*models.Cocktail, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad id %q: %w", field("id"), err)
	}
	name := field("name")
	if name == "" {
		return nil, fmt.Errorf("row %d has no name", id)
	}

	names, err := parseListLiteral(field("ingredients"))
	if err != nil {
		return nil, fmt.Errorf("bad ingredients for %q: %w", name, err)
	}
	measures, err := parseListLiteral(field("ingredientMeasures"))
	if err != nil {
		return nil, fmt.Errorf("bad measures for %q: %w", name, err)
	}

	instructions := field("instructions")

	ingredients := make([]models.Ingredient, 0, len(names))
	for i, ingName := range names {
		ingName = strings.TrimSpace(ingName)
		if ingName == "" {
			continue
		}
		measure := ""
		if i < len(measures) {
			measure = strings.TrimSpace(measures[i])
		}
		ingredients = append(ingredients, models.Ingredient{Name: ingName, Measure: measure})
	}

	return &models.Cocktail{
		ID:              id,
		Name:            name,
		Alcoholic:       strings.EqualFold(field("alcoholic"), "alcoholic"),
		Category:        field("category"),
		GlassType:       field("glassType"),
		Instructions:    instructions,
		ThumbnailURL:    field("drinkThumbnail"),
		Ingredients:     ingredients,
		ComplexityScore: ComplexityScore(len(ingredients), instructions),
		PopularityScore: defaultPopularity,
	}, nil
}

// techniqueWords are the preparation techniques counted toward
// complexity.
var techniqueWords = []string{"shake", "stir", "blend", "muddle", "layer", "float"}

// ComplexityScore rates preparation difficulty in [0,1] from the
// ingredient count, instruction length and technique mentions,
// weighted 0.4/0.3/0.3.
func ComplexityScore(ingredientCount int, instructions string) float64 {
	ingredientsScore := float64(ingredientCount) / 10
	if ingredientsScore > 1 {
		ingredientsScore = 1
	}

	instructionsScore := float64(len(instructions)) / 500
	if instructionsScore > 1 {
		instructionsScore = 1
	}

	lower := strings.ToLower(instructions)
	techniques := 0
	for _, word := range techniqueWords {
		if strings.Contains(lower, word) {
			techniques++
		}
	}
	techniqueScore := float64(techniques) / float64(len(techniqueWords))

	return ingredientsScore*0.4 + instructionsScore*0.3 + techniqueScore*0.3
}

// parseListLiteral parses a Python-style list literal such as
// ['Light rum', 'Lime', None]. None entries become empty strings.
func parseListLiteral(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a list literal: %q", s)
	}
	body := s[1 : len(s)-1]

	var (
		out     []string
		current strings.Builder
		quote   byte
		inQuote bool
		pending bool
	)
	flush := func() {
		if pending {
			item := strings.TrimSpace(current.String())
			if item == "None" {
				item = ""
			}
			out = append(out, item)
		}
		current.Reset()
		pending = false
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		if inQuote {
			if c == '\\' && i+1 < len(body) {
				i++
				current.WriteByte(body[i])
				continue
			}
			if c == quote {
				inQuote = false
				continue
			}
			current.WriteByte(c)
			continue
		}
		switch c {
		case '\'', '"':
			inQuote = true
			quote = c
			pending = true
			// Quoted items keep leading text verbatim, so reset any
			// whitespace gathered before the quote.
			if strings.TrimSpace(current.String()) == "" {
				current.Reset()
			}
		case ',':
			flush()
		default:
			if !isSpace(c) {
				pending = true
			}
			current.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in list literal: %q", s)
	}
	flush()
	return out, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
