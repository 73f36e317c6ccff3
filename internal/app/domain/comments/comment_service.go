package comments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

// maxCommentLength keeps comment bodies bounded.
const maxCommentLength = 1000

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Add(ctx context.Context, comment models.Comment) (*models.Comment, error)
	ListByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, limit int) ([]models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
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

func (s *ServiceImpl) Add(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	ctx, span := otel.Tracer("CommentService").Start(ctx, "Add")
	defer span.End()

	if comment.UserID == "" {
		return nil, models.ErrUnauthenticated
	}
	comment.Text = strings.TrimSpace(comment.Text)
	if comment.Text == "" || len(comment.Text) > maxCommentLength {
		return nil, models.ErrValidation
	}
	if !comment.TargetType.Valid() || comment.TargetID == uuid.Nil {
		return nil, models.ErrValidation
	}

	created, err := s.repo.Add(ctx, comment)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Debug("added comment",
		zap.String("user_id", comment.UserID),
		zap.String("target_id", comment.TargetID.String()))
	return created, nil
}

func (s *ServiceImpl) ListByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, limit int) ([]models.Comment, error) {
	ctx, span := otel.Tracer("CommentService").Start(ctx, "ListByTarget")
	defer span.End()

	if !targetType.Valid() {
		return nil, models.ErrValidation
	}
	return s.repo.ListByTarget(ctx, targetType, targetID, limit)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	ctx, span := otel.Tracer("CommentService").Start(ctx, "Delete")
	defer span.End()

	if userID == "" {
		return models.ErrUnauthenticated
	}
	return s.repo.DeleteOwn(ctx, id, userID)
}
