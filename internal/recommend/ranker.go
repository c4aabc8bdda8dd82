package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/animechat/backend/internal/jikan"
)

// Ranker filters fetched candidates against a preference profile, then
// deduplicates, sorts and truncates them into the final recommendation list.
type Ranker struct {
	episodeSlack float64
	limit        int
}

// NewRanker creates a ranker. episodeSlack is the multiple of the profile's
// average episode count above which a title is considered too long; limit
// caps the returned list.
func NewRanker(episodeSlack float64, limit int) *Ranker {
	return &Ranker{episodeSlack: episodeSlack, limit: limit}
}

// Rank applies, in order: genre filter, episode-count filter, dedup by
// case-insensitive title (first wins), stable sort by descending score
// (missing score ranks last), truncation. An empty profile applies no
// filters, which is exactly the trending fallback path.
func (r *Ranker) Rank(items []jikan.Anime, profile Profile) []jikan.Anime {
	filtered := make([]jikan.Anime, 0, len(items))
	for _, item := range items {
		if len(profile.TopGenres) > 0 && !genresIntersect(item.Genres, profile.TopGenres) {
			continue
		}
		if profile.AvgEpisodes > 0 && float64(item.Episodes) > profile.AvgEpisodes*r.episodeSlack {
			continue
		}
		filtered = append(filtered, item)
	}

	seen := make(map[string]bool, len(filtered))
	deduped := filtered[:0]
	for _, item := range filtered {
		key := strings.ToLower(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, item)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return scoreOf(deduped[i]) > scoreOf(deduped[j])
	})

	if len(deduped) > r.limit {
		deduped = deduped[:r.limit]
	}

	return deduped
}

// scoreOf treats an absent score as the lowest possible rank
func scoreOf(a jikan.Anime) float64 {
	if a.Score == nil {
		return math.Inf(-1)
	}
	return *a.Score
}

func genresIntersect(genres, wanted []string) bool {
	for _, g := range genres {
		for _, w := range wanted {
			if g == w {
				return true
			}
		}
	}
	return false
}
