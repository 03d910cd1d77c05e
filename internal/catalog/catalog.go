// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// Catalog is the in-memory cocktail lookup: by id, by normalized name
// and by ingredient. It is safe for concurrent use; writes only happen
// during ingestion.
type Catalog struct {
	mu           sync.RWMutex
	byID         map[int64]*models.Cocktail
	byName       map[string]*models.Cocktail
	byIngredient map[string][]int64
	ingredients  []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID:         make(map[int64]*models.Cocktail),
		byName:       make(map[string]*models.Cocktail),
		byIngredient: make(map[string][]int64),
	}
}

// Add indexes the given cocktails. Duplicate ids replace the previous
// entry; the ingredient index keeps both references, matching the
// append-only vector index.
func (c *Catalog) Add(cocktails ...*models.Cocktail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ck := range cocktails {
		c.byID[ck.ID] = ck
		c.byName[strings.ToLower(ck.Name)] = ck
		for _, ing := range ck.Ingredients {
			name := strings.ToLower(ing.Name)
			if _, ok := c.byIngredient[name]; !ok {
				c.ingredients = append(c.ingredients, name)
			}
			c.byIngredient[name] = append(c.byIngredient[name], ck.ID)
		}
	}
	sort.Strings(c.ingredients)
}

// Get returns the cocktail with the given id.
func (c *Catalog) Get(id int64) (*models.Cocktail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ck, ok := c.byID[id]
	return ck, ok
}

// GetByName looks a cocktail up by name, case-insensitively.
func (c *Catalog) GetByName(name string) (*models.Cocktail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ck, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return ck, ok
}

// ByIngredients returns cocktails containing every named ingredient,
// most complex first. Ties break by ascending id.
func (c *Catalog) ByIngredients(names []string, limit int) []*models.Cocktail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(names) == 0 {
		return nil
	}

	counts := make(map[int64]int)
	for _, name := range names {
		for _, id := range c.byIngredient[strings.ToLower(strings.TrimSpace(name))] {
			counts[id]++
		}
	}

	ids := make([]int64, 0, len(counts))
	for id, n := range counts {
		if n >= len(names) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c.byID[ids[i]], c.byID[ids[j]]
		if a.ComplexityScore != b.ComplexityScore {
			return a.ComplexityScore > b.ComplexityScore
		}
		return ids[i] < ids[j]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*models.Cocktail, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Ingredients lists distinct ingredient names, optionally filtered by a
// case-insensitive prefix, in lexicographic order.
func (c *Catalog) Ingredients(prefix string, limit int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0, limit)
	for _, name := range c.ingredients {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Len reports the number of indexed cocktails.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
