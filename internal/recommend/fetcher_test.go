package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/animechat/backend/internal/jikan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllEmptyInput(t *testing.T) {
	fetcher := NewFetcher(&fakeCatalog{}, 5)

	results, failed := fetcher.FetchAll(context.Background(), nil)
	assert.Empty(t, results)
	assert.Empty(t, failed)
}

func TestFetchAllMergesResults(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {{Title: "Naruto"}, {Title: "Naruto: Shippuuden"}},
		"Bleach": {{Title: "Bleach"}},
	}}
	fetcher := NewFetcher(catalog, 5)

	results, failed := fetcher.FetchAll(context.Background(), []string{"Naruto", "Bleach"})
	assert.Empty(t, failed)
	assert.Len(t, results, 3)
}

func TestFetchAllDeduplicatesTitles(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {{Title: "Naruto"}},
	}}
	fetcher := NewFetcher(catalog, 5)

	results, failed := fetcher.FetchAll(context.Background(), []string{"Naruto", "naruto", " NARUTO ", ""})
	assert.Empty(t, failed)
	assert.Len(t, results, 1)
	assert.Len(t, catalog.queries, 1)
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	catalog := &fakeCatalog{
		results: map[string][]jikan.Anime{
			"Naruto": {{Title: "Naruto"}},
			"Bleach": {{Title: "Bleach"}},
		},
		failOn: map[string]bool{"One Piece": true},
	}
	fetcher := NewFetcher(catalog, 5)

	results, failed := fetcher.FetchAll(context.Background(), []string{"Naruto", "One Piece", "Bleach"})

	assert.Len(t, results, 2)
	require.Len(t, failed, 1)
	assert.Equal(t, "One Piece", failed[0])
}

func TestFetchAllWithMoreTitlesThanWorkers(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{}}
	for i := 0; i < 20; i++ {
		title := fmt.Sprintf("anime-%d", i)
		catalog.results[title] = []jikan.Anime{{Title: title}}
	}

	titles := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		titles = append(titles, fmt.Sprintf("anime-%d", i))
	}

	fetcher := NewFetcher(catalog, 3)
	results, failed := fetcher.FetchAll(context.Background(), titles)

	// Every dispatched lookup completed before FetchAll returned
	assert.Empty(t, failed)
	assert.Len(t, results, 20)
	assert.Len(t, catalog.queries, 20)
}

func TestNewFetcherClampsWorkerCount(t *testing.T) {
	catalog := &fakeCatalog{results: map[string][]jikan.Anime{
		"Naruto": {{Title: "Naruto"}},
	}}
	fetcher := NewFetcher(catalog, 0)

	results, failed := fetcher.FetchAll(context.Background(), []string{"Naruto"})
	assert.Empty(t, failed)
	assert.Len(t, results, 1)
}
