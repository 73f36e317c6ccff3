package profiles

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserProfile, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.GetOrCreate(ctx, userID)
}

// Update writes the provided fields; nil fields keep their current
// value. Favorite artist names are trimmed and de-blanked first.
func (s *ServiceImpl) Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	if req.City != nil && strings.TrimSpace(*req.City) == "" {
		return nil, models.ErrValidation
	}
	if req.FavoriteArtists != nil {
		cleaned := make([]string, 0, len(req.FavoriteArtists))
		for _, name := range req.FavoriteArtists {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		req.FavoriteArtists = cleaned
	}

	// Ensure the row exists so the first PUT from a new user works.
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := s.repo.Update(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Debug("updated profile", zap.String("user_id", userID))
	return profile, nil
}
