package events

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
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	UpsertByTMID(ctx context.Context, event models.Event) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
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

const eventColumns = `id, tm_id, name, COALESCE(url, ''), event_date::text, COALESCE(local_datetime, ''),
    COALESCE(city, ''), COALESCE(country_code, ''), COALESCE(venue, ''), artists, images, lat, lon,
    created_at, updated_at`

// UpsertByTMID inserts or refreshes an event keyed by its ticketing id.
func (r *RepositoryImpl) UpsertByTMID(ctx context.Context, event models.Event) (uuid.UUID, error) {
	var images []byte
	if len(event.Images) > 0 {
		var err error
		images, err = json.Marshal(event.Images)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal event images: %w", err)
		}
	}

	var lat, lon *float64
	if event.Location != nil {
		lat, lon = &event.Location.Lat, &event.Location.Lon
	}

	query := `
        INSERT INTO events (tm_id, name, url, event_date, local_datetime, city, country_code, venue, artists, images, lat, lon)
        VALUES ($1, $2, NULLIF($3, ''), $4::date, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)
        ON CONFLICT (tm_id) DO UPDATE
            SET name = EXCLUDED.name,
                url = EXCLUDED.url,
                event_date = EXCLUDED.event_date,
                local_datetime = EXCLUDED.local_datetime,
                city = EXCLUDED.city,
                country_code = EXCLUDED.country_code,
                venue = EXCLUDED.venue,
                artists = EXCLUDED.artists,
                images = EXCLUDED.images,
                lat = EXCLUDED.lat,
                lon = EXCLUDED.lon,
                updated_at = now()
        RETURNING id
    `
	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query,
		event.TMID, event.Name, event.URL, event.Date, event.LocalDateTime,
		event.City, event.CountryCode, event.Venue, event.Artists, images, lat, lon,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert event: %w", err)
	}

	return id, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	event, err := scanEvent(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// List returns events ordered by date ascending. Empty filter fields are
// skipped; the artist filter is a substring match over performer names and
// the city filter is a case-insensitive substring match.
func (r *RepositoryImpl) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE 1=1`, eventColumns)
	args := []any{}

	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		query += fmt.Sprintf(" AND event_date >= $%d::date", len(args))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		query += fmt.Sprintf(" AND event_date <= $%d::date", len(args))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(" AND city ILIKE '%%' || $%d || '%%'", len(args))
	}
	if filter.Artist != "" {
		args = append(args, filter.Artist)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM unnest(artists) AS performer WHERE performer ILIKE '%%' || $%d || '%%')", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY event_date ASC LIMIT $%d", len(args))

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event rows iteration failed: %w", err)
	}
	return out, nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	var images []byte
	var lat, lon *float64
	if err := row.Scan(&e.ID, &e.TMID, &e.Name, &e.URL, &e.Date, &e.LocalDateTime,
		&e.City, &e.CountryCode, &e.Venue, &e.Artists, &images, &lat, &lon,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &e.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event images: %w", err)
		}
	}
	if lat != nil && lon != nil {
		e.Location = &models.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &e, nil
}
