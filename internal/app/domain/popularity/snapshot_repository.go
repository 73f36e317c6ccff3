package popularity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/observability/metrics"
)

// pgxQuerier is the slice of the pool surface the snapshot store needs.
// Satisfied by *pgxpool.Pool and by pgxmock in tests.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ SnapshotRepository = (*SnapshotRepositoryImpl)(nil)

// SnapshotRepository is the period-keyed snapshot store. One row per
// (scope, period, periodKey); Upsert replaces the entire item list in a
// single statement, so readers never see a half-written ranking.
type SnapshotRepository interface {
	Get(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, periodKey string) (*models.PopularitySnapshot, error)
	Upsert(ctx context.Context, snapshot models.PopularitySnapshot) error
	Delete(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, periodKey string) error
}

type SnapshotRepositoryImpl struct {
	logger *zap.Logger
	pgpool pgxQuerier
}

func NewSnapshotRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *SnapshotRepositoryImpl {
	return &SnapshotRepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *SnapshotRepositoryImpl) Get(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, periodKey string) (*models.PopularitySnapshot, error) {
	query := `
        SELECT id, scope, period, period_key, generated_at, items
        FROM popularity_snapshots
        WHERE scope = $1 AND period = $2 AND period_key = $3
    `
	defer metrics.RecordDBQuery(ctx, "popularity_snapshot_get", time.Now())
	var (
		s        models.PopularitySnapshot
		rawItems []byte
	)
	err := r.pgpool.QueryRow(ctx, query, scope, period, periodKey).Scan(
		&s.ID, &s.Scope, &s.Period, &s.PeriodKey, &s.GeneratedAt, &rawItems,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load popularity snapshot: %w", err)
	}
	if err := json.Unmarshal(rawItems, &s.Items); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot items: %w", err)
	}
	return &s, nil
}

func (r *SnapshotRepositoryImpl) Upsert(ctx context.Context, snapshot models.PopularitySnapshot) error {
	items, err := json.Marshal(snapshot.Items)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot items: %w", err)
	}
	query := `
        INSERT INTO popularity_snapshots (scope, period, period_key, generated_at, items)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (scope, period, period_key)
        DO UPDATE SET generated_at = EXCLUDED.generated_at, items = EXCLUDED.items
    `
	defer metrics.RecordDBQuery(ctx, "popularity_snapshot_upsert", time.Now())
	if _, err := r.pgpool.Exec(ctx, query,
		snapshot.Scope, snapshot.Period, snapshot.PeriodKey, snapshot.GeneratedAt, items,
	); err != nil {
		return fmt.Errorf("failed to upsert popularity snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepositoryImpl) Delete(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, periodKey string) error {
	if _, err := r.pgpool.Exec(ctx,
		`DELETE FROM popularity_snapshots WHERE scope = $1 AND period = $2 AND period_key = $3`,
		scope, period, periodKey,
	); err != nil {
		return fmt.Errorf("failed to delete popularity snapshot: %w", err)
	}
	return nil
}
