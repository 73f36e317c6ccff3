package artists

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/pkg/names"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Upsert(ctx context.Context, artist models.Artist) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
	GetByName(ctx context.Context, name string) (*models.Artist, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Artist, error)
	Search(ctx context.Context, query string, limit int) ([]models.Artist, error)
	List(ctx context.Context, limit int) ([]models.Artist, error)
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

const artistColumns = `id, name, normalized_name, genres, signals, created_at, updated_at`

// Upsert inserts or refreshes an artist keyed by normalized name. Only
// re-ingestion goes through here; scoring never writes artists.
func (r *RepositoryImpl) Upsert(ctx context.Context, artist models.Artist) (uuid.UUID, error) {
	signals, err := json.Marshal(artist.Signals)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal artist signals: %w", err)
	}

	query := `
        INSERT INTO artists (name, normalized_name, genres, signals)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (normalized_name) DO UPDATE
            SET name = EXCLUDED.name,
                genres = EXCLUDED.genres,
                signals = EXCLUDED.signals,
                updated_at = now()
        RETURNING id
    `
	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query,
		artist.Name, names.Normalize(artist.Name), artist.Genres, signals,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert artist: %w", err)
	}

	r.logger.Info("Artist upserted", zap.String("name", artist.Name), zap.String("id", id.String()))
	return id, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM artists WHERE id = $1`, artistColumns)
	return r.scanOne(r.pgpool.QueryRow(ctx, query, id))
}

// GetByName matches on the normalized name; callers may pass the raw form.
func (r *RepositoryImpl) GetByName(ctx context.Context, name string) (*models.Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM artists WHERE normalized_name = $1`, artistColumns)
	return r.scanOne(r.pgpool.QueryRow(ctx, query, names.Normalize(name)))
}

func (r *RepositoryImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Artist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM artists WHERE id = ANY($1)`, artistColumns)
	rows, err := r.pgpool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists by ids: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *RepositoryImpl) Search(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	sql := fmt.Sprintf(`
        SELECT %s FROM artists
        WHERE name ILIKE '%%' || $1 || '%%'
        ORDER BY name
        LIMIT $2
    `, artistColumns)
	rows, err := r.pgpool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *RepositoryImpl) List(ctx context.Context, limit int) ([]models.Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM artists ORDER BY created_at LIMIT $1`, artistColumns)
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *RepositoryImpl) scanOne(row pgx.Row) (*models.Artist, error) {
	var a models.Artist
	var signals []byte
	if err := row.Scan(&a.ID, &a.Name, &a.NormalizedName, &a.Genres, &signals, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}
	if err := json.Unmarshal(signals, &a.Signals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artist signals: %w", err)
	}
	return &a, nil
}

func (r *RepositoryImpl) scanMany(rows pgx.Rows) ([]models.Artist, error) {
	var out []models.Artist
	for rows.Next() {
		var a models.Artist
		var signals []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.NormalizedName, &a.Genres, &signals, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist row: %w", err)
		}
		if err := json.Unmarshal(signals, &a.Signals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artist signals: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("artist rows iteration failed: %w", err)
	}
	return out, nil
}
