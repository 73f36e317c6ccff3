package popularity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/observability/metrics"
)

const (
	// maxEntities caps how many artists or events one snapshot scores.
	maxEntities = 500
	// countConcurrency bounds the interaction-count fan-out.
	countConcurrency = 8

	defaultLimit = 20
	maxLimit     = 100
)

// ArtistLister supplies the artist universe for artist-scope snapshots.
type ArtistLister interface {
	List(ctx context.Context, limit int) ([]models.Artist, error)
}

// EventLister supplies the event universe for event-scope snapshots.
type EventLister interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// InteractionCounter counts behavioral signals per target.
type InteractionCounter interface {
	CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, interactionType models.InteractionType) (int64, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetOrCompute(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, limit int) (*models.PopularityPage, error)
	Refresh(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod) (*models.PopularityPage, error)
}

type ServiceImpl struct {
	logger       *zap.Logger
	snapshots    SnapshotRepository
	artists      ArtistLister
	events       EventLister
	interactions InteractionCounter
	now          func() time.Time
}

func NewService(snapshots SnapshotRepository, artists ArtistLister, events EventLister, interactions InteractionCounter, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		snapshots:    snapshots,
		artists:      artists,
		events:       events,
		interactions: interactions,
		now:          time.Now,
	}
}

// PeriodKey derives the snapshot partition key for a period at a given
// instant: day -> 2026-08-30, month -> 2026-08, year -> 2026.
func PeriodKey(period models.SnapshotPeriod, at time.Time) string {
	switch period {
	case models.PeriodDay:
		return at.Format("2006-01-02")
	case models.PeriodMonth:
		return at.Format("2006-01")
	default:
		return at.Format("2006")
	}
}

// GetOrCompute returns the snapshot page for (scope, period) at the
// current period key. A stored snapshot is served as-is for the rest of
// the period; only a miss triggers scoring.
func (s *ServiceImpl) GetOrCompute(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, limit int) (*models.PopularityPage, error) {
	ctx, span := otel.Tracer("PopularityService").Start(ctx, "GetOrCompute")
	defer span.End()
	span.SetAttributes(
		attribute.String("snapshot.scope", string(scope)),
		attribute.String("snapshot.period", string(period)),
	)

	if !scope.Valid() || !period.Valid() {
		return nil, models.ErrValidation
	}
	limit = clampLimit(limit)

	periodKey := PeriodKey(period, s.now())
	span.SetAttributes(attribute.String("snapshot.period_key", periodKey))

	cached, err := s.snapshots.Get(ctx, scope, period, periodKey)
	if err == nil {
		if m := metrics.Instance(); m != nil {
			m.SnapshotCacheHitsTotal.Add(ctx, 1)
		}
		return pageOf(cached, limit), nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		span.RecordError(err)
		return nil, err
	}

	if m := metrics.Instance(); m != nil {
		m.SnapshotComputationsTotal.Add(ctx, 1)
	}
	snapshot, err := s.compute(ctx, scope, period, periodKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "popularity computation failed")
		return nil, err
	}
	if err := s.snapshots.Upsert(ctx, *snapshot); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("computed popularity snapshot",
		zap.String("scope", string(scope)),
		zap.String("period_key", periodKey),
		zap.Int("items", len(snapshot.Items)))
	return pageOf(snapshot, limit), nil
}

// Refresh drops the current-period snapshot and recomputes it. Operator
// surface; the regular read path never invalidates.
func (s *ServiceImpl) Refresh(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod) (*models.PopularityPage, error) {
	ctx, span := otel.Tracer("PopularityService").Start(ctx, "Refresh")
	defer span.End()

	if !scope.Valid() || !period.Valid() {
		return nil, models.ErrValidation
	}
	periodKey := PeriodKey(period, s.now())
	if err := s.snapshots.Delete(ctx, scope, period, periodKey); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.GetOrCompute(ctx, scope, period, defaultLimit)
}

func (s *ServiceImpl) compute(ctx context.Context, scope models.SnapshotScope, period models.SnapshotPeriod, periodKey string) (*models.PopularitySnapshot, error) {
	var (
		items []models.RankedItem
		err   error
	)
	switch scope {
	case models.ScopeArtist:
		items, err = s.scoreArtists(ctx)
	case models.ScopeEvent:
		items, err = s.scoreEvents(ctx)
	}
	if err != nil {
		return nil, err
	}

	// Stable keeps enumeration order among equal scores, so reruns over
	// the same data produce identical rankings.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	return &models.PopularitySnapshot{
		Scope:       scope,
		Period:      period,
		PeriodKey:   periodKey,
		GeneratedAt: s.now().UTC(),
		Items:       items,
	}, nil
}

func (s *ServiceImpl) scoreArtists(ctx context.Context) ([]models.RankedItem, error) {
	artists, err := s.artists.List(ctx, maxEntities)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists for scoring: %w", err)
	}

	likes := s.countAll(ctx, models.TargetArtist, models.InteractionFavoriteArtist, artistIDs(artists))

	items := make([]models.RankedItem, 0, len(artists))
	for _, a := range artists {
		score := ArtistScore(a, likes[a.ID])
		items = append(items, models.RankedItem{
			ID:    a.ID.String(),
			Name:  a.Name,
			Score: score,
		})
	}
	return items, nil
}

func (s *ServiceImpl) scoreEvents(ctx context.Context) ([]models.RankedItem, error) {
	events, err := s.events.List(ctx, models.EventFilter{Limit: maxEntities})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for scoring: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	saves := s.countAll(ctx, models.TargetEvent, models.InteractionSaveEvent, ids)
	views := s.countAll(ctx, models.TargetEvent, models.InteractionViewEvent, ids)

	items := make([]models.RankedItem, 0, len(events))
	for _, e := range events {
		score := EventScore(e, saves[e.ID], views[e.ID])
		items = append(items, models.RankedItem{
			ID:    e.ID.String(),
			Name:  e.Name,
			Score: score,
			Meta: &models.RankedItemMeta{
				Date:    e.Date,
				City:    e.City,
				URL:     e.URL,
				Venue:   e.Venue,
				Artists: e.Artists,
			},
		})
	}
	return items, nil
}

// countAll fans out one count query per target with bounded concurrency.
// A failed count logs and contributes zero rather than failing the
// snapshot.
func (s *ServiceImpl) countAll(ctx context.Context, targetType models.TargetType, interactionType models.InteractionType, ids []uuid.UUID) map[uuid.UUID]int64 {
	counts := make(map[uuid.UUID]int64, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			n, err := s.interactions.CountByTarget(gctx, targetType, id, interactionType)
			if err != nil {
				s.logger.Warn("interaction count failed, scoring as zero",
					zap.String("target_id", id.String()), zap.Error(err))
				return nil
			}
			mu.Lock()
			counts[id] = n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return counts
}

// ArtistScore combines reputation and listener signals with in-app
// likes. Missing provider signals score as zero.
func ArtistScore(a models.Artist, likes int64) float64 {
	return float64(a.SpotifyPopularity())*10 +
		math.Log10(float64(a.SpotifyFollowers())+1)*40 +
		math.Log10(float64(a.LastfmListeners())+1)*30 +
		float64(likes)*5
}

// EventScore weights lineup size over saves over views. An event with an
// empty performer list still counts one performer.
func EventScore(e models.Event, saves, views int64) float64 {
	performers := len(e.Artists)
	if performers < 1 {
		performers = 1
	}
	return float64(performers)*50 + float64(saves)*10 + float64(views)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func pageOf(s *models.PopularitySnapshot, limit int) *models.PopularityPage {
	items := s.Items
	if len(items) > limit {
		items = items[:limit]
	}
	return &models.PopularityPage{
		PeriodKey:   s.PeriodKey,
		GeneratedAt: s.GeneratedAt,
		Items:       items,
	}
}

func artistIDs(artists []models.Artist) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	return ids
}
