package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/domain/artists"
	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/observability/metrics"
	"github.com/gigradar/gigradar/internal/app/sources/ticketmaster"
)

var _ Service = (*ServiceImpl)(nil)

// EventSource discovers upstream events for an artist keyword.
type EventSource interface {
	SearchEventsByArtist(ctx context.Context, artist, city string, size int) ([]ticketmaster.Event, error)
}

// Forecaster enriches an event detail with a weather summary. Failures are
// swallowed; the detail is served without weather.
type Forecaster interface {
	ForecastForDate(ctx context.Context, lat, lon float64, date string) (*models.WeatherSummary, error)
}

// EventDetail is an event plus optional forecast for its day.
type EventDetail struct {
	models.Event
	Weather *models.WeatherSummary `json:"weather,omitempty"`
}

// IngestResult reports how many events an ingestion run touched.
type IngestResult struct {
	Count int         `json:"count"`
	IDs   []uuid.UUID `json:"ids"`
}

// Service defines the business logic contract for event operations.
type Service interface {
	IngestForArtist(ctx context.Context, artistName, city string, limit int) (*IngestResult, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*EventDetail, error)
	Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

type ServiceImpl struct {
	logger        *zap.Logger
	repo          Repository
	artistService artists.Service
	artistRepo    artists.Repository
	source        EventSource
	forecaster    Forecaster
}

func NewServiceImpl(repo Repository, artistRepo artists.Repository, artistService artists.Service,
	source EventSource, forecaster Forecaster, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		repo:          repo,
		artistService: artistService,
		artistRepo:    artistRepo,
		source:        source,
		forecaster:    forecaster,
	}
}

// IngestForArtist pulls upcoming events for one artist from the ticketing
// source and upserts them. The artist itself is ingested first when we have
// never seen it.
func (s *ServiceImpl) IngestForArtist(ctx context.Context, artistName, city string, limit int) (*IngestResult, error) {
	ctx, span := otel.Tracer("events").Start(ctx, "IngestForArtist")
	defer span.End()

	cleaned := strings.TrimSpace(artistName)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: artist name is required", models.ErrValidation)
	}
	if limit <= 0 {
		limit = 30
	}
	span.SetAttributes(attribute.String("artist.name", cleaned), attribute.Int("limit", limit))

	if _, err := s.artistRepo.GetByName(ctx, cleaned); err != nil {
		if _, ingestErr := s.artistService.IngestByName(ctx, cleaned); ingestErr != nil {
			s.logger.Warn("Artist ingest during event ingest failed",
				zap.String("artist", cleaned), zap.Error(ingestErr))
		}
	}

	upstream, err := s.source.SearchEventsByArtist(ctx, cleaned, city, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to discover events for %q: %w", cleaned, err)
	}

	result := &IngestResult{}
	for _, e := range upstream {
		id, err := s.repo.UpsertByTMID(ctx, models.Event{
			TMID:          e.TMID,
			Name:          e.Name,
			URL:           e.URL,
			Date:          e.Date,
			LocalDateTime: e.LocalDateTime,
			City:          e.City,
			CountryCode:   e.CountryCode,
			Venue:         e.Venue,
			Artists:       e.Artists,
			Images:        e.Images,
			Location:      e.Location,
		})
		if err != nil {
			s.logger.Error("Event upsert failed during ingest",
				zap.String("tm_id", e.TMID), zap.Error(err))
			continue
		}
		result.IDs = append(result.IDs, id)
		result.Count++
	}

	if m := metrics.Instance(); m != nil {
		m.IngestedEventsTotal.Add(ctx, int64(result.Count))
	}
	s.logger.Info("Event ingest finished",
		zap.String("artist", cleaned),
		zap.Int("ingested", result.Count),
		zap.Int("discovered", len(upstream)),
	)
	return result, nil
}

// GetDetail fetches an event and best-effort attaches the forecast for its
// day when coordinates are known.
func (s *ServiceImpl) GetDetail(ctx context.Context, id uuid.UUID) (*EventDetail, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: *event}
	if event.Location != nil && event.Date != "" {
		weather, err := s.forecaster.ForecastForDate(ctx, event.Location.Lat, event.Location.Lon, event.Date)
		if err != nil {
			s.logger.Debug("Weather lookup for event detail failed",
				zap.String("event_id", id.String()), zap.Error(err))
		} else {
			detail.Weather = weather
		}
	}
	return detail, nil
}

func (s *ServiceImpl) Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}
