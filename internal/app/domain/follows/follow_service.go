package follows

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Status(ctx context.Context, followerID, followeeID string) (bool, error)
	Following(ctx context.Context, userID string, limit int) ([]string, error)
	Followers(ctx context.Context, userID string, limit int) ([]string, error)
	Stats(ctx context.Context, userID string) (*models.FollowStats, error)
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

func (s *ServiceImpl) Follow(ctx context.Context, followerID, followeeID string) error {
	ctx, span := otel.Tracer("FollowService").Start(ctx, "Follow")
	defer span.End()

	if followerID == "" {
		return models.ErrUnauthenticated
	}
	followeeID = strings.TrimSpace(followeeID)
	if followeeID == "" || followeeID == followerID {
		return models.ErrValidation
	}
	if err := s.repo.Follow(ctx, followerID, followeeID); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Debug("follow added",
		zap.String("follower", followerID), zap.String("followee", followeeID))
	return nil
}

func (s *ServiceImpl) Unfollow(ctx context.Context, followerID, followeeID string) error {
	ctx, span := otel.Tracer("FollowService").Start(ctx, "Unfollow")
	defer span.End()

	if followerID == "" {
		return models.ErrUnauthenticated
	}
	if followeeID == "" {
		return models.ErrValidation
	}
	return s.repo.Unfollow(ctx, followerID, followeeID)
}

func (s *ServiceImpl) Status(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

func (s *ServiceImpl) Following(ctx context.Context, userID string, limit int) ([]string, error) {
	return s.repo.ListFollowing(ctx, userID, limit)
}

func (s *ServiceImpl) Followers(ctx context.Context, userID string, limit int) ([]string, error) {
	return s.repo.ListFollowers(ctx, userID, limit)
}

func (s *ServiceImpl) Stats(ctx context.Context, userID string) (*models.FollowStats, error) {
	return s.repo.Stats(ctx, userID)
}
