package handlers

import (
	"net/http"

	"github.com/animechat/backend/internal/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the full API surface on the router
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", h.AuthMiddleware(), h.Me)
		}

		v1.POST("/search-assistance", h.SearchAssistance)
		v1.GET("/trending", h.Trending)

		protected := v1.Group("")
		protected.Use(h.AuthMiddleware())
		{
			protected.POST("/chat", h.Chat)
			protected.GET("/recommendations", h.Recommendations)
			protected.POST("/feedback", h.Feedback)
			protected.GET("/history", h.History)
			protected.DELETE("/history", h.ClearHistory)
		}
	}
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if err := database.Health(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"environment": h.config.Environment,
	})
}
