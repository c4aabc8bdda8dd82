package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/models"
	"github.com/animechat/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const trendingCacheKey = "trending:feed"

// Recommendations handles GET /api/v1/recommendations
func (h *Handlers) Recommendations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	items, err := h.kernel.Recommender().Recommend(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error("recommendation pipeline failed",
			logger.WithUserID(userID),
			zap.Error(err),
		)
		util.RespondServiceUnavailable(c, "recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": items,
		"count":           len(items),
	})
}

// Trending handles GET /api/v1/trending. The response is cached in Redis
// for a short TTL since it is identical for every user; without Redis it
// simply goes to the catalog every time.
func (h *Handlers) Trending(c *gin.Context) {
	cache := h.kernel.Cache()

	if cache != nil {
		if cached, err := cache.Get(c.Request.Context(), trendingCacheKey); err == nil {
			var items []jikan.Anime
			if json.Unmarshal([]byte(cached), &items) == nil {
				c.JSON(http.StatusOK, gin.H{
					"trending": items,
					"count":    len(items),
					"cached":   true,
				})
				return
			}
		}
	}

	items, err := h.kernel.Recommender().Trending(c.Request.Context())
	if err != nil {
		logger.Log.Error("trending feed failed", zap.Error(err))
		util.RespondServiceUnavailable(c, "anime catalog")
		return
	}

	if cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := cache.SetEx(c.Request.Context(), trendingCacheKey, payload, h.config.TrendingCacheTTL); err != nil {
				logger.Log.Warn("failed to cache trending feed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"trending": items,
		"count":    len(items),
		"cached":   false,
	})
}

// FeedbackRequest records a reaction to a recommended title
type FeedbackRequest struct {
	AnimeTitle string `json:"anime_title" binding:"required,min=1,max=200"`
	Feedback   string `json:"feedback" binding:"required,oneof=like dislike"`
}

// Feedback handles POST /api/v1/feedback
func (h *Handlers) Feedback(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	record := models.Feedback{
		UserID:     userID,
		AnimeTitle: req.AnimeTitle,
		Feedback:   req.Feedback,
	}
	if err := h.kernel.DB().Create(&record).Error; err != nil {
		logger.Log.Error("failed to save feedback",
			logger.WithUserID(userID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to save feedback")
		return
	}

	c.JSON(http.StatusCreated, record)
}
