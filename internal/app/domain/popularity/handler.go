package popularity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

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

// Get handles GET /api/popular?scope=artist&period=month&limit=20
func (h *Handler) Get(c *gin.Context) {
	scope := models.SnapshotScope(c.DefaultQuery("scope", string(models.ScopeArtist)))
	period := models.SnapshotPeriod(c.DefaultQuery("period", string(models.PeriodMonth)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := h.service.GetOrCompute(c.Request.Context(), scope, period, limit)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scope or period"})
			return
		}
		h.logger.Error("Failed to get popularity",
			zap.String("scope", string(scope)), zap.String("period", string(period)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute popularity"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Refresh handles POST /api/admin/refresh
func (h *Handler) Refresh(c *gin.Context) {
	scope := models.SnapshotScope(c.DefaultQuery("scope", string(models.ScopeArtist)))
	period := models.SnapshotPeriod(c.DefaultQuery("period", string(models.PeriodMonth)))

	page, err := h.service.Refresh(c.Request.Context(), scope, period)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scope or period"})
			return
		}
		h.logger.Error("Failed to refresh popularity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh popularity"})
		return
	}
	c.JSON(http.StatusOK, page)
}
