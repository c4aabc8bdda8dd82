package recommend

import (
	"context"
	"fmt"

	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/metrics"
	"github.com/animechat/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HistoryStore is the read-only view of a user's chat history the
// recommender needs. Persistence belongs to the collaborator behind it.
type HistoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}

// GormHistoryStore reads history entries from the primary database
type GormHistoryStore struct {
	db *gorm.DB
}

// NewGormHistoryStore wraps a gorm connection as a HistoryStore
func NewGormHistoryStore(db *gorm.DB) *GormHistoryStore {
	return &GormHistoryStore{db: db}
}

// ListByUser returns the user's history, oldest first
func (s *GormHistoryStore) ListByUser(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// Service produces ranked recommendation lists for a user by combining the
// preference profile, concurrent candidate fetching and ranking, falling
// back to the trending feed when personalization yields nothing.
type Service struct {
	catalog  jikan.API
	history  HistoryStore
	profiles *ProfileBuilder
	fetcher  *Fetcher
	ranker   *Ranker
}

// NewService wires the recommendation pipeline
func NewService(catalog jikan.API, history HistoryStore, profiles *ProfileBuilder, fetcher *Fetcher, ranker *Ranker) *Service {
	return &Service{
		catalog:  catalog,
		history:  history,
		profiles: profiles,
		fetcher:  fetcher,
		ranker:   ranker,
	}
}

// Recommend returns up to the configured number of candidates for a user,
// sorted by descending score. With no history, or when the personalized
// pipeline filters everything out, it serves the unfiltered trending feed
// instead. Only a failing trending call makes the whole operation fail.
func (s *Service) Recommend(ctx context.Context, userID string) ([]jikan.Anime, error) {
	entries, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		logger.Log.Info("no history, serving trending feed", logger.WithUserID(userID))
		return s.trendingFallback(ctx, "no_history")
	}

	profile := s.profiles.Build(ctx, entries)
	logger.Log.Debug("preference profile computed",
		logger.WithUserID(userID),
		zap.Strings("top_genres", profile.TopGenres),
		zap.Float64("avg_episodes", profile.AvgEpisodes),
	)

	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		titles = append(titles, entry.Query)
	}

	candidates, failed := s.fetcher.FetchAll(ctx, titles)
	if len(failed) > 0 {
		logger.Log.Warn("some candidate lookups were omitted",
			logger.WithUserID(userID),
			zap.Int("omitted", len(failed)),
		)
	}

	ranked := s.ranker.Rank(candidates, profile)
	if len(ranked) == 0 {
		logger.Log.Info("personalized pipeline empty, serving trending feed", logger.WithUserID(userID))
		return s.trendingFallback(ctx, "empty_result")
	}

	metrics.Get().RecommendationsServed.WithLabelValues("personalized").Add(float64(len(ranked)))
	return ranked, nil
}

// Trending returns the top feed ranked without any profile filtering
func (s *Service) Trending(ctx context.Context) ([]jikan.Anime, error) {
	items, err := s.catalog.Top(ctx)
	if err != nil {
		return nil, err
	}
	return s.ranker.Rank(items, Profile{}), nil
}

// trendingFallback is the unfiltered path. An empty trending feed is a
// legitimate empty result; a failing one is surfaced to the caller.
func (s *Service) trendingFallback(ctx context.Context, reason string) ([]jikan.Anime, error) {
	metrics.Get().TrendingFallbacks.WithLabelValues(reason).Inc()

	ranked, err := s.Trending(ctx)
	if err != nil {
		return nil, fmt.Errorf("trending fallback failed: %w", err)
	}

	metrics.Get().RecommendationsServed.WithLabelValues("trending").Add(float64(len(ranked)))
	return ranked, nil
}
