package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/metrics"
	"go.uber.org/zap"
)

// Outcome classifies a resolution result. NoMatch and NotFound are normal
// outcomes, not errors: callers branch on them to pick user-facing copy.
type Outcome string

const (
	// OutcomeMatched means a candidate cleared the similarity threshold
	OutcomeMatched Outcome = "matched"
	// OutcomeNoMatch means candidates existed but none was close enough
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeNotFound means the catalog returned zero candidates
	OutcomeNotFound Outcome = "not_found"
)

// Resolution is the result of resolving a free-text query against the
// catalog. Anime is set only when Outcome is OutcomeMatched.
type Resolution struct {
	Outcome Outcome
	Query   string
	Anime   *jikan.Anime
	Message string
}

// Matched reports whether the resolution produced a confident match
func (r Resolution) Matched() bool {
	return r.Outcome == OutcomeMatched
}

// Resolver picks the closest catalog entry for a normalized query by
// string similarity, subject to a minimum-confidence threshold.
type Resolver struct {
	catalog   jikan.API
	threshold float64
}

// NewResolver creates a resolver over the given catalog. threshold is the
// minimum similarity ratio a candidate must exceed to count as a match.
func NewResolver(catalog jikan.API, threshold float64) *Resolver {
	return &Resolver{catalog: catalog, threshold: threshold}
}

// Resolve normalizes a raw query, searches the catalog, and returns the
// best candidate when its similarity exceeds the threshold. A transient
// catalog failure is returned as an error; "nothing found" and "nothing
// close enough" are Resolutions, not errors.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) (Resolution, error) {
	title := NormalizeForResolution(rawQuery)

	candidates, err := r.catalog.Search(ctx, title)
	if err != nil {
		return Resolution{}, err
	}

	if len(candidates) == 0 {
		metrics.Get().ResolutionOutcomes.WithLabelValues(string(OutcomeNotFound)).Inc()
		return Resolution{
			Outcome: OutcomeNotFound,
			Query:   title,
			Message: fmt.Sprintf("I couldn't find any information on %s.", title),
		}, nil
	}

	queryLower := strings.ToLower(title)
	best := 0
	bestScore := 0.0
	for i, candidate := range candidates {
		score := Similarity(queryLower, strings.ToLower(candidate.Title))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if bestScore <= r.threshold {
		logger.Log.Debug("no confident match",
			logger.WithQuery(title),
			zap.Float64("best_similarity", bestScore),
		)
		metrics.Get().ResolutionOutcomes.WithLabelValues(string(OutcomeNoMatch)).Inc()
		return Resolution{
			Outcome: OutcomeNoMatch,
			Query:   title,
			Message: fmt.Sprintf("No exact match found for %s.", title),
		}, nil
	}

	match := candidates[best]
	metrics.Get().ResolutionOutcomes.WithLabelValues(string(OutcomeMatched)).Inc()
	return Resolution{
		Outcome: OutcomeMatched,
		Query:   title,
		Anime:   &match,
		Message: formatMatch(match),
	}, nil
}

// Suggest returns distinct candidate titles for a partial query, for
// search-as-you-type assistance. Titles are deduplicated case-insensitively
// with the first-seen casing preserved.
func (r *Resolver) Suggest(ctx context.Context, partialQuery string) ([]string, error) {
	query := NormalizeTitle(partialQuery)
	if query == "" {
		return []string{}, nil
	}

	candidates, err := r.catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(candidates))
	titles := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		key := strings.ToLower(candidate.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		titles = append(titles, candidate.Title)
	}

	return titles, nil
}

// formatMatch renders the chat reply for a confident match
func formatMatch(a jikan.Anime) string {
	synopsis := a.Synopsis
	if synopsis == "" {
		synopsis = "Synopsis not available."
	}

	episodes := "N/A"
	if a.Episodes > 0 {
		episodes = fmt.Sprintf("%d", a.Episodes)
	}

	score := "N/A"
	if a.Score != nil {
		score = fmt.Sprintf("%.2f", *a.Score)
	}

	status := a.Status
	if status == "" {
		status = "N/A"
	}

	return fmt.Sprintf(
		"**Title:** %s\n**Synopsis:** %s\n**Episodes:** %s\n**Score:** %s\n**Status:** %s\n**More info:** [MyAnimeList](%s)",
		a.Title, synopsis, episodes, score, status, a.URL,
	)
}
