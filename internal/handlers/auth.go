package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/animechat/backend/internal/auth"
	"github.com/animechat/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.kernel.Auth().Register(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			util.RespondWithAPIError(c, apiConflict("an account with this email already exists"))
		case errors.Is(err, auth.ErrUsernameExists):
			util.RespondWithAPIError(c, apiConflict("this username is already taken"))
		default:
			util.RespondInternalError(c, "failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.kernel.Auth().Login(req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "invalid email or password")
		} else {
			util.RespondInternalError(c, "failed to log in")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.kernel.Auth().GetUser(userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			util.RespondNotFound(c, "user")
		} else {
			util.RespondInternalError(c, "failed to load user")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// AuthMiddleware validates the Bearer token and stores the user ID on the
// request context for downstream handlers.
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			util.RespondUnauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		userID, err := h.kernel.Auth().ValidateToken(token)
		if err != nil {
			util.RespondUnauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
