package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/observability/metrics"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository stores one recommendation snapshot per user, overwritten on
// every computation.
type Repository interface {
	Get(ctx context.Context, userID string) (*models.RecommendationSnapshot, error)
	Upsert(ctx context.Context, snapshot models.RecommendationSnapshot) error
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

func (r *RepositoryImpl) Get(ctx context.Context, userID string) (*models.RecommendationSnapshot, error) {
	query := `
        SELECT user_id, generated_at, horizon_days, COALESCE(city, ''), items
        FROM recommendation_snapshots
        WHERE user_id = $1
    `
	defer metrics.RecordDBQuery(ctx, "recommendation_snapshot_get", time.Now())
	var (
		s        models.RecommendationSnapshot
		rawItems []byte
	)
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.GeneratedAt, &s.HorizonDays, &s.City, &rawItems,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recommendation snapshot: %w", err)
	}
	if err := json.Unmarshal(rawItems, &s.Items); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation items: %w", err)
	}
	return &s, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, snapshot models.RecommendationSnapshot) error {
	items, err := json.Marshal(snapshot.Items)
	if err != nil {
		return fmt.Errorf("failed to encode recommendation items: %w", err)
	}
	query := `
        INSERT INTO recommendation_snapshots (user_id, generated_at, horizon_days, city, items)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id)
        DO UPDATE SET generated_at = EXCLUDED.generated_at,
                      horizon_days = EXCLUDED.horizon_days,
                      city = EXCLUDED.city,
                      items = EXCLUDED.items
    `
	defer metrics.RecordDBQuery(ctx, "recommendation_snapshot_upsert", time.Now())
	if _, err := r.pgpool.Exec(ctx, query,
		snapshot.UserID, snapshot.GeneratedAt, snapshot.HorizonDays, snapshot.City, items,
	); err != nil {
		return fmt.Errorf("failed to upsert recommendation snapshot: %w", err)
	}
	return nil
}
