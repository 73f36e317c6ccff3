package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Add(ctx context.Context, comment models.Comment) (*models.Comment, error)
	ListByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, limit int) ([]models.Comment, error)
	DeleteOwn(ctx context.Context, id uuid.UUID, userID string) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) Add(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	query := `
        INSERT INTO comments (user_id, user_name, target_type, target_id, body)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	c := comment
	if err := r.pgpool.QueryRow(ctx, query,
		comment.UserID, comment.UserName, comment.TargetType, comment.TargetID, comment.Text,
	).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return &c, nil
}

// ListByTarget returns comments newest first.
func (r *RepositoryImpl) ListByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT id, user_id, COALESCE(user_name, ''), target_type, target_id, body, created_at
        FROM comments
        WHERE target_type = $1 AND target_id = $2
        ORDER BY created_at DESC
        LIMIT $3
    `
	rows, err := r.pgpool.Query(ctx, query, targetType, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserName, &c.TargetType, &c.TargetID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteOwn removes a comment only when it belongs to the caller.
func (r *RepositoryImpl) DeleteOwn(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
