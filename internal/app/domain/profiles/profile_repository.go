package profiles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error)
	Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserProfile, error)
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

const profileColumns = `user_id, city, favorite_artists, onboarding_completed, created_at, updated_at`

// GetOrCreate returns the user's profile, inserting a default one on
// first sight. New users start in Zagreb with no favorites.
func (r *RepositoryImpl) GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
        INSERT INTO user_profiles (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING %s
    `, profileColumns)

	var p models.UserProfile
	if err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.City, &p.FavoriteArtists, &p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}
	return &p, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
        UPDATE user_profiles
        SET city = COALESCE($2, city),
            favorite_artists = COALESCE($3, favorite_artists),
            onboarding_completed = COALESCE($4, onboarding_completed),
            updated_at = now()
        WHERE user_id = $1
        RETURNING %s
    `, profileColumns)

	var p models.UserProfile
	if err := r.pgpool.QueryRow(ctx, query,
		userID, req.City, req.FavoriteArtists, req.OnboardingCompleted,
	).Scan(
		&p.UserID, &p.City, &p.FavoriteArtists, &p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}
