package artists

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/sources/lastfm"
	"github.com/gigradar/gigradar/internal/app/sources/spotify"
)

const maxGenres = 20

var _ Service = (*ServiceImpl)(nil)

// ReputationProvider answers with an external reputation bundle, or nil
// when the artist is unknown to the source.
type ReputationProvider interface {
	ArtistProfileByName(ctx context.Context, name string) (*spotify.Profile, error)
}

// ListenerStatsProvider answers with listener statistics, or nil when the
// artist is unknown to the source.
type ListenerStatsProvider interface {
	ArtistInfoByName(ctx context.Context, name string) (*lastfm.Info, error)
}

// Service defines the business logic contract for artist operations.
type Service interface {
	IngestByName(ctx context.Context, name string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
	Search(ctx context.Context, query string, limit int) ([]models.Artist, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repo       Repository
	reputation ReputationProvider
	listeners  ListenerStatsProvider
}

func NewServiceImpl(repo Repository, reputation ReputationProvider, listeners ListenerStatsProvider, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		reputation: reputation,
		listeners:  listeners,
	}
}

// IngestByName merges the reputation and listener-stats bundles into one
// artist row. A provider that fails or has no record simply contributes no
// signals; ingestion itself only fails on storage errors or a blank name.
func (s *ServiceImpl) IngestByName(ctx context.Context, name string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("artists").Start(ctx, "IngestByName")
	defer span.End()

	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return uuid.Nil, fmt.Errorf("%w: artist name is required", models.ErrValidation)
	}
	span.SetAttributes(attribute.String("artist.name", cleaned))

	profile, err := s.reputation.ArtistProfileByName(ctx, cleaned)
	if err != nil {
		s.logger.Warn("Reputation lookup failed, ingesting without it",
			zap.String("artist", cleaned), zap.Error(err))
		profile = nil
	}

	info, err := s.listeners.ArtistInfoByName(ctx, cleaned)
	if err != nil {
		s.logger.Warn("Listener-stats lookup failed, ingesting without it",
			zap.String("artist", cleaned), zap.Error(err))
		info = nil
	}

	artist := models.Artist{
		Name:   cleaned,
		Genres: mergeGenres(profile, info),
	}
	if profile != nil {
		artist.Signals.Spotify = &models.SpotifySignals{
			ID:         profile.ID,
			Popularity: profile.Popularity,
			Followers:  profile.Followers,
			Genres:     profile.Genres,
		}
	}
	if info != nil {
		artist.Signals.Lastfm = &models.LastfmSignals{
			MBID:      info.MBID,
			Listeners: info.Listeners,
			Playcount: info.Playcount,
			Tags:      info.Tags,
		}
	}

	id, err := s.repo.Upsert(ctx, artist)
	if err != nil {
		span.SetStatus(codes.Error, "artist upsert failed")
		return uuid.Nil, fmt.Errorf("failed to ingest artist %q: %w", cleaned, err)
	}

	return id, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) Search(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.Search(ctx, strings.TrimSpace(query), limit)
}

// mergeGenres unions the reputation genres with the listener-stats tags,
// preserving first-seen order, capped at maxGenres.
func mergeGenres(profile *spotify.Profile, info *lastfm.Info) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(values []string) {
		for _, v := range values {
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v)
			if len(out) >= maxGenres {
				return
			}
		}
	}
	if profile != nil {
		add(profile.Genres)
	}
	if info != nil && len(out) < maxGenres {
		add(info.Tags)
	}
	return out
}
