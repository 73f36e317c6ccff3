package events

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

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

// Search handles GET /api/search/events?artist=&city=&from=&to=&limit=
func (h *Handler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := models.EventFilter{
		Artist:   c.Query("artist"),
		City:     c.Query("city"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Limit:    limit,
	}

	results, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Event search failed", zap.Any("filter", filter), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": results,
		"city":   cases.Title(language.English).String(filter.City),
	})
}

// GetDetail handles GET /api/events/:id
func (h *Handler) GetDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		h.logger.Error("Failed to get event", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

type ingestRequest struct {
	Artist string `json:"artist" binding:"required"`
	City   string `json:"city"`
	Limit  int    `json:"limit"`
}

// Ingest handles POST /api/admin/ingest
func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.service.IngestForArtist(c.Request.Context(), req.Artist, req.City, req.Limit)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Artist name is required"})
			return
		}
		h.logger.Error("Event ingest failed", zap.String("artist", req.Artist), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest events"})
		return
	}
	c.JSON(http.StatusOK, result)
}
