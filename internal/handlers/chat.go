package handlers

import (
	"net/http"

	"github.com/animechat/backend/internal/chat"
	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/models"
	"github.com/animechat/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest is one user message to the chat endpoint
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=500"`
}

// ChatResponse is the assistant's reply. Anime is present only when the
// message resolved to a confident catalog match.
type ChatResponse struct {
	Outcome chat.Outcome `json:"outcome"`
	Message string       `json:"message"`
	Anime   *jikan.Anime `json:"anime,omitempty"`
}

// Chat handles POST /api/v1/chat. A confident match is appended to the
// user's history; no-match and not-found replies are returned but not saved,
// so the recommendation profile only ever sees titles that exist.
func (h *Handlers) Chat(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resolution, err := h.kernel.Resolver().Resolve(c.Request.Context(), req.Message)
	if err != nil {
		logger.Log.Error("title resolution failed",
			logger.WithUserID(userID),
			zap.Error(err),
		)
		util.RespondServiceUnavailable(c, "anime catalog")
		return
	}

	resp := ChatResponse{
		Outcome: resolution.Outcome,
		Message: resolution.Message,
		Anime:   resolution.Anime,
	}

	if resolution.Matched() {
		entry := models.HistoryEntry{
			UserID:     userID,
			Query:      resolution.Query,
			Response:   resolution.Message,
			ImageURL:   resolution.Anime.ImageURL,
			TrailerURL: resolution.Anime.TrailerURL,
		}
		if err := h.kernel.DB().Create(&entry).Error; err != nil {
			// The reply is still useful without the history row
			logger.Log.Error("failed to save history entry",
				logger.WithUserID(userID),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// SearchAssistanceRequest is a partial query for title suggestions
type SearchAssistanceRequest struct {
	Query string `json:"query" binding:"required,min=1,max=200"`
}

// SearchAssistance handles POST /api/v1/search-assistance and returns
// distinct candidate titles for a partial query.
func (h *Handlers) SearchAssistance(c *gin.Context) {
	var req SearchAssistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	titles, err := h.kernel.Resolver().Suggest(c.Request.Context(), req.Query)
	if err != nil {
		logger.Log.Error("search assistance failed",
			logger.WithQuery(req.Query),
			zap.Error(err),
		)
		util.RespondServiceUnavailable(c, "anime catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": titles})
}
