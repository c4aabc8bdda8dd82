package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/models"
	"go.uber.org/zap"
)

// Profile summarizes a user's inferred taste from their query history.
// It is recomputed on every request and never persisted. An empty profile
// means "no personalization available", not "user dislikes everything".
type Profile struct {
	TopGenres   []string `json:"top_genres"`
	AvgEpisodes float64  `json:"avg_episodes"`
}

// Empty reports whether the profile carries no preference signal
func (p Profile) Empty() bool {
	return len(p.TopGenres) == 0 && p.AvgEpisodes == 0
}

// ProfileBuilder derives a Profile from history entries by looking each
// distinct query up in the catalog and aggregating genre frequency and
// episode counts.
type ProfileBuilder struct {
	catalog   jikan.API
	topGenres int
}

// NewProfileBuilder creates a builder that keeps the topGenres most
// frequent genres.
func NewProfileBuilder(catalog jikan.API, topGenres int) *ProfileBuilder {
	return &ProfileBuilder{catalog: catalog, topGenres: topGenres}
}

// Build computes the preference profile for a history. Lookups run
// sequentially; a failed lookup skips that entry and never aborts the
// whole computation. Empty history yields the empty profile.
func (b *ProfileBuilder) Build(ctx context.Context, entries []models.HistoryEntry) Profile {
	if len(entries) == 0 {
		return Profile{}
	}

	genreCounts := make(map[string]int)
	genreOrder := make([]string, 0)
	totalEpisodes := 0

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(entry.Query)
		if seen[key] {
			continue
		}
		seen[key] = true

		results, err := b.catalog.Search(ctx, entry.Query)
		if err != nil {
			logger.Log.Warn("profile lookup failed, skipping entry",
				logger.WithQuery(entry.Query),
				zap.Error(err),
			)
			continue
		}

		for _, anime := range results {
			for _, genre := range anime.Genres {
				if _, ok := genreCounts[genre]; !ok {
					genreOrder = append(genreOrder, genre)
				}
				genreCounts[genre]++
			}
			totalEpisodes += anime.Episodes
		}
	}

	// genreOrder holds first-encountered order; the stable sort keeps it
	// as the tie-break.
	ranked := make([]string, len(genreOrder))
	copy(ranked, genreOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return genreCounts[ranked[i]] > genreCounts[ranked[j]]
	})
	if len(ranked) > b.topGenres {
		ranked = ranked[:b.topGenres]
	}

	return Profile{
		TopGenres:   ranked,
		AvgEpisodes: float64(totalEpisodes) / float64(len(entries)),
	}
}
