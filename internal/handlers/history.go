package handlers

import (
	"net/http"

	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/models"
	"github.com/animechat/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// History handles GET /api/v1/history, newest first
func (h *Handlers) History(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var entries []models.HistoryEntry
	err := h.kernel.DB().WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		logger.Log.Error("failed to load history",
			logger.WithUserID(userID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to load history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"count":   len(entries),
	})
}

// ClearHistory handles DELETE /api/v1/history. Clearing history resets the
// preference profile, so the next recommendation request serves trending.
func (h *Handlers) ClearHistory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result := h.kernel.DB().WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Delete(&models.HistoryEntry{})
	if result.Error != nil {
		logger.Log.Error("failed to clear history",
			logger.WithUserID(userID),
			zap.Error(result.Error),
		)
		util.RespondInternalError(c, "failed to clear history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": result.RowsAffected,
	})
}
