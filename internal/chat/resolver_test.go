package chat

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	_ = logger.Initialize("error", "")
	os.Exit(m.Run())
}

// fakeCatalog returns canned results and records queries
type fakeCatalog struct {
	results map[string][]jikan.Anime
	err     error
	queries []string
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]jikan.Anime, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeCatalog) Top(ctx context.Context) ([]jikan.Anime, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results["__top__"], nil
}

func score(v float64) *float64 { return &v }

func TestResolveMatched(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {
			{Title: "Boruto: Naruto Next Generations", Score: score(6.0)},
			{Title: "Naruto", Score: score(7.99), Synopsis: "A young ninja.", Episodes: 220, Status: "Finished Airing", URL: "https://myanimelist.net/anime/20"},
		},
	}}
	resolver := NewResolver(catalog, 0.7)

	res, err := resolver.Resolve(context.Background(), "tell me about Naruto")
	require.NoError(t, err)

	assert.Equal(t, OutcomeMatched, res.Outcome)
	assert.True(t, res.Matched())
	require.NotNil(t, res.Anime)
	assert.Equal(t, "Naruto", res.Anime.Title)
	assert.Contains(t, res.Message, "**Title:** Naruto")
	assert.Contains(t, res.Message, "**Episodes:** 220")
	assert.Contains(t, res.Message, "**Score:** 7.99")
	assert.Contains(t, res.Message, "[MyAnimeList](https://myanimelist.net/anime/20)")

	// The lead-in phrase never reaches the catalog
	require.Len(t, catalog.queries, 1)
	assert.Equal(t, "Naruto", catalog.queries[0])
}

func TestResolveMatchFallbacksForMissingFields(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {{Title: "Naruto"}},
	}}
	resolver := NewResolver(catalog, 0.7)

	res, err := resolver.Resolve(context.Background(), "Naruto")
	require.NoError(t, err)
	require.Equal(t, OutcomeMatched, res.Outcome)

	assert.Contains(t, res.Message, "Synopsis not available.")
	assert.Contains(t, res.Message, "**Episodes:** N/A")
	assert.Contains(t, res.Message, "**Score:** N/A")
	assert.Contains(t, res.Message, "**Status:** N/A")
}

func TestResolveNoMatch(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {
			{Title: "Legend of the Galactic Heroes"},
			{Title: "Monster"},
		},
	}}
	resolver := NewResolver(catalog, 0.7)

	res, err := resolver.Resolve(context.Background(), "Naruto")
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoMatch, res.Outcome)
	assert.False(t, res.Matched())
	assert.Nil(t, res.Anime)
	assert.Equal(t, "No exact match found for Naruto.", res.Message)
}

func TestResolveNotFound(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{}}
	resolver := NewResolver(catalog, 0.7)

	res, err := resolver.Resolve(context.Background(), "definitely not an anime")
	require.NoError(t, err)

	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Nil(t, res.Anime)
	assert.Equal(t, "I couldn't find any information on definitely not an anime.", res.Message)
}

func TestResolveExactThresholdIsNotEnough(t *testing.T) {
	// bestScore must exceed the threshold, not merely reach it
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"abcd": {{Title: "abed"}},
	}}
	resolver := NewResolver(catalog, 0.75)

	res, err := resolver.Resolve(context.Background(), "abcd")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMatch, res.Outcome)
}

func TestResolveTieKeepsFirstCandidate(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {
			{Title: "NARUTO", Synopsis: "first"},
			{Title: "naruto", Synopsis: "second"},
		},
	}}
	resolver := NewResolver(catalog, 0.7)

	res, err := resolver.Resolve(context.Background(), "Naruto")
	require.NoError(t, err)
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "first", res.Anime.Synopsis)
}

func TestResolvePropagatesCatalogError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	resolver := NewResolver(catalog, 0.7)

	_, err := resolver.Resolve(context.Background(), "Naruto")
	require.Error(t, err)
}

func TestSuggestDeduplicates(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"naru": {
			{Title: "Naruto"},
			{Title: "NARUTO"},
			{Title: "Naruto: Shippuuden"},
		},
	}}
	resolver := NewResolver(catalog, 0.7)

	titles, err := resolver.Suggest(context.Background(), "naru")
	require.NoError(t, err)

	// First-seen casing wins
	assert.Equal(t, []string{"Naruto", "Naruto: Shippuuden"}, titles)
}

func TestSuggestEmptyQuery(t *testing.T) {
	catalog := &fakeCatalog{}
	resolver := NewResolver(catalog, 0.7)

	titles, err := resolver.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, titles)
	assert.Empty(t, catalog.queries)
}
