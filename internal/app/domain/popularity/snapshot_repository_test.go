package popularity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

func newMockSnapshotRepo(t *testing.T) (*SnapshotRepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &SnapshotRepositoryImpl{logger: zap.NewNop(), pgpool: mockPool}
	return repo, mockPool
}

func TestSnapshotRepositoryGet(t *testing.T) {
	repo, mockPool := newMockSnapshotRepo(t)

	id := uuid.New()
	generatedAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	items := []byte(`[{"id":"a1","name":"Headliner","score":1215}]`)

	mockPool.ExpectQuery("SELECT id, scope, period, period_key, generated_at, items").
		WithArgs(models.ScopeArtist, models.PeriodMonth, "2026-08").
		WillReturnRows(pgxmock.NewRows([]string{"id", "scope", "period", "period_key", "generated_at", "items"}).
			AddRow(id, models.ScopeArtist, models.PeriodMonth, "2026-08", generatedAt, items))

	snapshot, err := repo.Get(context.Background(), models.ScopeArtist, models.PeriodMonth, "2026-08")
	require.NoError(t, err)

	assert.Equal(t, "2026-08", snapshot.PeriodKey)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "Headliner", snapshot.Items[0].Name)
	assert.InDelta(t, 1215.0, snapshot.Items[0].Score, 0.01)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotRepositoryGetMissing(t *testing.T) {
	repo, mockPool := newMockSnapshotRepo(t)

	mockPool.ExpectQuery("SELECT id, scope, period, period_key, generated_at, items").
		WithArgs(models.ScopeEvent, models.PeriodDay, "2026-08-30").
		WillReturnRows(pgxmock.NewRows([]string{"id", "scope", "period", "period_key", "generated_at", "items"}))

	_, err := repo.Get(context.Background(), models.ScopeEvent, models.PeriodDay, "2026-08-30")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotRepositoryUpsert(t *testing.T) {
	repo, mockPool := newMockSnapshotRepo(t)

	snapshot := models.PopularitySnapshot{
		Scope:       models.ScopeArtist,
		Period:      models.PeriodDay,
		PeriodKey:   "2026-08-30",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Items:       []models.RankedItem{{ID: "a1", Name: "Headliner", Score: 900}},
	}

	mockPool.ExpectExec("INSERT INTO popularity_snapshots").
		WithArgs(snapshot.Scope, snapshot.Period, snapshot.PeriodKey, snapshot.GeneratedAt, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(context.Background(), snapshot)
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotRepositoryDelete(t *testing.T) {
	repo, mockPool := newMockSnapshotRepo(t)

	mockPool.ExpectExec("DELETE FROM popularity_snapshots").
		WithArgs(models.ScopeArtist, models.PeriodDay, "2026-08-30").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), models.ScopeArtist, models.PeriodDay, "2026-08-30")
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
