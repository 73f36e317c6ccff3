package interactions

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

// ArtistChecker verifies the target artist exists before an interaction
// is recorded against it.
type ArtistChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
}

// EventChecker verifies the target event exists.
type EventChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Record(ctx context.Context, interaction models.Interaction) (uuid.UUID, error)
}

type ServiceImpl struct {
	logger  *zap.Logger
	repo    Repository
	artists ArtistChecker
	events  EventChecker
}

func NewService(repo Repository, artists ArtistChecker, events EventChecker, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		artists: artists,
		events:  events,
	}
}

// Record validates and appends one interaction. The type has to match the
// target kind: favorite_artist goes with artists, save_event and
// view_event with events.
func (s *ServiceImpl) Record(ctx context.Context, interaction models.Interaction) (uuid.UUID, error) {
	ctx, span := otel.Tracer("InteractionService").Start(ctx, "Record")
	defer span.End()
	span.SetAttributes(
		attribute.String("interaction.type", string(interaction.Type)),
		attribute.String("interaction.target_type", string(interaction.TargetType)),
	)

	if interaction.UserID == "" {
		return uuid.Nil, models.ErrUnauthenticated
	}
	if !interaction.Type.Valid() || !interaction.TargetType.Valid() {
		return uuid.Nil, models.ErrValidation
	}
	if !typeMatchesTarget(interaction.Type, interaction.TargetType) {
		return uuid.Nil, models.ErrValidation
	}
	if interaction.TargetID == uuid.Nil {
		return uuid.Nil, models.ErrValidation
	}

	var err error
	switch interaction.TargetType {
	case models.TargetArtist:
		_, err = s.artists.GetByID(ctx, interaction.TargetID)
	case models.TargetEvent:
		_, err = s.events.GetByID(ctx, interaction.TargetID)
	}
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, err
	}

	id, err := s.repo.Add(ctx, interaction)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to record interaction")
		return uuid.Nil, err
	}

	s.logger.Debug("recorded interaction",
		zap.String("user_id", interaction.UserID),
		zap.String("type", string(interaction.Type)),
		zap.String("target_id", interaction.TargetID.String()))
	return id, nil
}

func typeMatchesTarget(t models.InteractionType, target models.TargetType) bool {
	switch t {
	case models.InteractionFavoriteArtist:
		return target == models.TargetArtist
	case models.InteractionSaveEvent, models.InteractionViewEvent:
		return target == models.TargetEvent
	default:
		return false
	}
}
