package interactions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the append-only interaction log. Nothing in the app ever
// updates or deletes rows; scoring only counts and reads them.
type Repository interface {
	Add(ctx context.Context, interaction models.Interaction) (uuid.UUID, error)
	CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, interactionType models.InteractionType) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	GetUserLikedArtistIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error)
	ListUsersWithLikes(ctx context.Context, limit int) ([]models.UserLikes, error)
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

func (r *RepositoryImpl) Add(ctx context.Context, interaction models.Interaction) (uuid.UUID, error) {
	query := `
        INSERT INTO interactions (user_id, type, target_type, target_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query,
		interaction.UserID, interaction.Type, interaction.TargetType, interaction.TargetID,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert interaction: %w", err)
	}
	return id, nil
}

// CountByTarget counts interactions for one target; an empty interaction
// type counts all of them.
func (r *RepositoryImpl) CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, interactionType models.InteractionType) (int64, error) {
	query := `SELECT count(*) FROM interactions WHERE target_type = $1 AND target_id = $2`
	args := []any{targetType, targetID}
	if interactionType != "" {
		args = append(args, interactionType)
		query += ` AND type = $3`
	}

	var count int64
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}

func (r *RepositoryImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.pgpool.QueryRow(ctx,
		`SELECT count(*) FROM interactions WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count user interactions: %w", err)
	}
	return count, nil
}

// GetUserLikedArtistIDs returns the artist ids the user favorited, newest
// first.
func (r *RepositoryImpl) GetUserLikedArtistIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `
        SELECT target_id FROM interactions
        WHERE user_id = $1 AND type = $2 AND target_type = $3
        ORDER BY created_at DESC
        LIMIT $4
    `
	rows, err := r.pgpool.Query(ctx, query, userID, models.InteractionFavoriteArtist, models.TargetArtist, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked artist ids: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked artist id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("liked artist rows iteration failed: %w", err)
	}
	return out, nil
}

// ListUsersWithLikes groups favorite-artist interactions per user, capped
// at the first limit users in grouping order. The cap is deliberate: peer
// similarity ranks within this sample, not over the full population.
func (r *RepositoryImpl) ListUsersWithLikes(ctx context.Context, limit int) ([]models.UserLikes, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `
        SELECT user_id, array_agg(DISTINCT target_id)
        FROM interactions
        WHERE type = $1 AND target_type = $2
        GROUP BY user_id
        LIMIT $3
    `
	rows, err := r.pgpool.Query(ctx, query, models.InteractionFavoriteArtist, models.TargetArtist, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query users with likes: %w", err)
	}
	defer rows.Close()

	var out []models.UserLikes
	for rows.Next() {
		var u models.UserLikes
		if err := rows.Scan(&u.UserID, &u.ArtistIDs); err != nil {
			return nil, fmt.Errorf("failed to scan user likes: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user likes rows iteration failed: %w", err)
	}
	return out, nil
}
