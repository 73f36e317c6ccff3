package follows

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/middleware"
	"github.com/gigradar/gigradar/internal/app/models"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Follow handles POST /api/follow/:userId
func (h *Handler) Follow(c *gin.Context) {
	followerID := middleware.GetUserIDFromContext(c)
	if followerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.service.Follow(c.Request.Context(), followerID, c.Param("userId")); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow this user"})
			return
		}
		h.logger.Error("Failed to follow", zap.String("user_id", followerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": true})
}

// Unfollow handles DELETE /api/follow/:userId
func (h *Handler) Unfollow(c *gin.Context) {
	followerID := middleware.GetUserIDFromContext(c)
	if followerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), followerID, c.Param("userId")); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user"})
			return
		}
		h.logger.Error("Failed to unfollow", zap.String("user_id", followerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": false})
}

// Status handles GET /api/follow/:userId/status
func (h *Handler) Status(c *gin.Context) {
	followerID := middleware.GetUserIDFromContext(c)
	if followerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	following, err := h.service.Status(c.Request.Context(), followerID, c.Param("userId"))
	if err != nil {
		h.logger.Error("Failed to check follow status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check follow status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Stats handles GET /api/follow/:userId/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.logger.Error("Failed to load follow stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load follow stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Following handles GET /api/follow/:userId/following
func (h *Handler) Following(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	ids, err := h.service.Following(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		h.logger.Error("Failed to list following", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list following"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": ids})
}

// Followers handles GET /api/follow/:userId/followers
func (h *Handler) Followers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	ids, err := h.service.Followers(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		h.logger.Error("Failed to list followers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list followers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": ids})
}
