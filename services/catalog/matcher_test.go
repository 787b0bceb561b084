package catalog

import (
	"context"
	"testing"
	"time"

	"savoria/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct {
	items []models.CatalogItem
	err   error
	calls int
}

func (s *staticSource) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func menuItems() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "p1", Name: "Margherita Pizza", Description: "Tomato and mozzarella", Price: "12.99", Currency: "USD"},
		{ID: "p2", Name: "Pepperoni Pizza", Price: "14.50", Currency: "USD"},
		{ID: "p3", Name: "Hawaiian Pizza"},
		{ID: "b1", Name: "Veggie Burrito", Price: "9.25", Currency: "USD"},
		{ID: "g1", Name: "Classic Burger", Price: "11.00", Currency: "USD"},
		{ID: "g2", Name: "Bacon Burger", Price: "12.00", Currency: "USD"},
		{ID: "s1", Name: "Garden Salad", Price: "7.50", Currency: "USD"},
	}
}

func newTestMatcher(t *testing.T, items []models.CatalogItem) *Matcher {
	t.Helper()
	cache := NewCache(&staticSource{items: items}, time.Hour, zap.NewNop())
	return NewMatcher(cache)
}

func itemNames(items []models.CatalogItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestSearchExactOnly(t *testing.T) {
	m := newTestMatcher(t, menuItems())
	ctx := context.Background()

	got := m.Search(ctx, "Margherita Pizza", true)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	assert.Nil(t, m.Search(ctx, "margherita", true), "exact mode must not fall through to partial matching")
	assert.Nil(t, m.Search(ctx, "margerita pizza", true), "exact mode must not fall through to fuzzy matching")
}

func TestSearchSubstringTier(t *testing.T) {
	m := newTestMatcher(t, menuItems())

	got := m.Search(context.Background(), "pizza", false)
	assert.ElementsMatch(t,
		[]string{"Margherita Pizza", "Pepperoni Pizza", "Hawaiian Pizza"},
		itemNames(got))
}

func TestSearchFuzzyTier(t *testing.T) {
	m := newTestMatcher(t, menuItems())
	ctx := context.Background()

	t.Run("misspelling recovers via similarity", func(t *testing.T) {
		got := m.Search(ctx, "veggie burito", false)
		require.NotEmpty(t, got)
		assert.Equal(t, "Veggie Burrito", got[0].Name)
	})

	t.Run("bare misspelled word sits right at the threshold", func(t *testing.T) {
		got := m.Search(ctx, "burito", false)
		require.NotEmpty(t, got)
		assert.Equal(t, "Veggie Burrito", got[0].Name)
	})

	t.Run("fuzzy never mixes with direct matches", func(t *testing.T) {
		got := m.Search(ctx, "burger", false)
		assert.ElementsMatch(t, []string{"Classic Burger", "Bacon Burger"}, itemNames(got))
	})

	t.Run("total miss returns nothing", func(t *testing.T) {
		assert.Empty(t, m.Search(ctx, "xylophone", false))
	})
}

func TestSearchFuzzyLimit(t *testing.T) {
	var items []models.CatalogItem
	for _, name := range []string{
		"Tomato Soup One", "Tomato Soup Two", "Tomato Soup Three",
		"Tomato Soup Four", "Tomato Soup Five", "Tomato Soup Sixes",
		"Tomato Soup Seven",
	} {
		items = append(items, models.CatalogItem{ID: name, Name: name})
	}
	m := newTestMatcher(t, items)

	got := m.Search(context.Background(), "tomatoe soupz", false)
	assert.LessOrEqual(t, len(got), fuzzyLimit)
	assert.NotEmpty(t, got)
}

func TestSuggest(t *testing.T) {
	m := newTestMatcher(t, menuItems())
	ctx := context.Background()

	t.Run("word overlap in snapshot order", func(t *testing.T) {
		got := m.Suggest(ctx, "pizza please", 8)
		assert.Equal(t, []string{"Margherita Pizza", "Pepperoni Pizza", "Hawaiian Pizza"}, got)
	})

	t.Run("respects the cap", func(t *testing.T) {
		got := m.Suggest(ctx, "pizza", 2)
		assert.Len(t, got, 2)
	})

	t.Run("deduplicates case-insensitively", func(t *testing.T) {
		dupes := []models.CatalogItem{
			{ID: "c1", Name: "Cola"},
			{ID: "c2", Name: "COLA"},
		}
		dm := newTestMatcher(t, dupes)
		assert.Equal(t, []string{"Cola"}, dm.Suggest(ctx, "cola", 8))
	})

	t.Run("no overlap means no suggestions", func(t *testing.T) {
		assert.Empty(t, m.Suggest(ctx, "spaghetti", 8))
	})
}

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"pizza", "", 0.0},
		{"pizza", "pizza", 1.0},
		{"abcd", "wxyz", 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, similarity(tt.a, tt.b), 1e-9, "similarity(%q, %q)", tt.a, tt.b)
	}

	// Close misspellings should clear the matching threshold.
	assert.GreaterOrEqual(t, similarity("veggie burrito", "veggie burito"), fuzzyThreshold)
	assert.GreaterOrEqual(t, similarity("margherita pizza", "margerita pizza"), fuzzyThreshold)
	// Unrelated names should not.
	assert.Less(t, similarity("garden salad", "bacon burger"), fuzzyThreshold)
}
