package catalog

import (
	"context"
	"sort"
	"strings"

	"savoria/models"
)

// fuzzyThreshold is the minimum similarity ratio for a typo-tolerant
// match; fuzzyLimit caps how many fuzzy candidates are returned.
const (
	fuzzyThreshold = 0.6
	fuzzyLimit     = 5
)

// Matcher runs name search and suggestion lookups over the cached
// catalog snapshot.
type Matcher struct {
	Cache *Cache
}

// NewMatcher builds a Matcher over the given cache.
func NewMatcher(cache *Cache) *Matcher {
	return &Matcher{Cache: cache}
}

// Search returns items matching the term, in tier order:
//
//  1. exact case-insensitive name equality
//  2. substring containment either direction (unless exact-only)
//  3. similarity ratio >= 0.6, top 5 by descending ratio
//
// Tiers 1+2 are returned together when either is non-empty; the fuzzy
// tier only fires on a total miss and is never mixed in.
func (m *Matcher) Search(ctx context.Context, term string, exact bool) []models.CatalogItem {
	snap := m.Cache.Snapshot(ctx)
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	var exactMatches, partialMatches []models.CatalogItem
	type scored struct {
		ratio float64
		item  models.CatalogItem
	}
	var fuzzy []scored

	for _, item := range snap.Items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			continue
		}
		switch {
		case name == needle:
			exactMatches = append(exactMatches, item)
		case !exact && (strings.Contains(name, needle) || strings.Contains(needle, name)):
			partialMatches = append(partialMatches, item)
		case !exact:
			if r := similarity(name, needle); r >= fuzzyThreshold {
				fuzzy = append(fuzzy, scored{ratio: r, item: item})
			}
		}
	}

	if len(exactMatches) > 0 || len(partialMatches) > 0 {
		return append(exactMatches, partialMatches...)
	}
	if exact {
		return nil
	}

	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].ratio > fuzzy[j].ratio })
	if len(fuzzy) > fuzzyLimit {
		fuzzy = fuzzy[:fuzzyLimit]
	}
	out := make([]models.CatalogItem, 0, len(fuzzy))
	for _, f := range fuzzy {
		out = append(out, f.item)
	}
	return out
}

// Suggest returns up to maxN item names whose name words overlap the
// term's words, deduplicated case-insensitively, in snapshot order.
func (m *Matcher) Suggest(ctx context.Context, term string, maxN int) []string {
	if maxN <= 0 {
		return nil
	}
	snap := m.Cache.Snapshot(ctx)

	words := wordSet(term)
	if len(words) == 0 {
		return nil
	}

	var suggestions []string
	seen := make(map[string]struct{})
	for _, item := range snap.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		low := strings.ToLower(name)
		if _, dup := seen[low]; dup {
			continue
		}
		if intersects(wordSet(name), words) {
			suggestions = append(suggestions, name)
			seen[low] = struct{}{}
			if len(suggestions) >= maxN {
				break
			}
		}
	}
	return suggestions
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for w := range a {
		if _, ok := b[w]; ok {
			return true
		}
	}
	return false
}
