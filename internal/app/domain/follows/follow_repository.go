package follows

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string, limit int) ([]string, error)
	ListFollowers(ctx context.Context, followeeID string, limit int) ([]string, error)
	Stats(ctx context.Context, userID string) (*models.FollowStats, error)
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

// Follow is idempotent; following someone twice is a no-op.
func (r *RepositoryImpl) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO follows (follower_id, followee_id)
        VALUES ($1, $2)
        ON CONFLICT (follower_id, followee_id) DO NOTHING
    `, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.pgpool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var following bool
	if err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&following); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return following, nil
}

func (r *RepositoryImpl) ListFollowing(ctx context.Context, followerID string, limit int) ([]string, error) {
	return r.listSide(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at DESC LIMIT $2`,
		followerID, limit)
}

func (r *RepositoryImpl) ListFollowers(ctx context.Context, followeeID string, limit int) ([]string, error) {
	return r.listSide(ctx,
		`SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at DESC LIMIT $2`,
		followeeID, limit)
}

func (r *RepositoryImpl) Stats(ctx context.Context, userID string) (*models.FollowStats, error) {
	query := `
        SELECT
            (SELECT count(*) FROM follows WHERE followee_id = $1),
            (SELECT count(*) FROM follows WHERE follower_id = $1)
    `
	var stats models.FollowStats
	if err := r.pgpool.QueryRow(ctx, query, userID).Scan(&stats.Followers, &stats.Following); err != nil {
		return nil, fmt.Errorf("failed to load follow stats: %w", err)
	}
	return &stats, nil
}

func (r *RepositoryImpl) listSide(ctx context.Context, query, id string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pgpool.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		ids = append(ids, userID)
	}
	return ids, rows.Err()
}
