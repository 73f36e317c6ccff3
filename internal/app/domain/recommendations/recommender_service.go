package recommendations

import (
	"context"
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
	"github.com/gigradar/gigradar/internal/pkg/names"
)

const (
	defaultHorizonDays = 30
	defaultLimit       = 10
	maxLimit           = 50

	// candidateCap bounds how many events one computation scores.
	candidateCap = 200
	// peerSampleCap bounds the similarity scan. Peers are sampled first
	// and ranked within the sample, not ranked globally.
	peerSampleCap = 200
	// likedGenreCap is how many recently liked artists feed the genre set.
	likedGenreCap = 20
	// favoriteFloor is the match count under which candidate selection
	// broadens to the whole date/city window.
	favoriteFloor = 10
	// weatherTopN is how many leading candidates get a forecast.
	weatherTopN = 10

	topPeerCount        = 5
	prefetchConcurrency = 8
)

// Factor weights and caps.
const (
	favoriteArtistPoints  = 120
	genrePointsPerMatch   = 15
	genrePointsCap        = 60
	popularityWeight      = 0.3
	popularityCap         = 30
	recencyBase           = 50
	contentPointsPerAct   = 3
	contentPointsCap      = 15
	trendingHotReputation = 70
	trendingHotPoints     = 20
	trendingBigFollowers  = 1_000_000
	trendingBigPoints     = 15
	trendingTopActs       = 2
)

// ProfileProvider resolves the user's declared preferences.
type ProfileProvider interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}

// InteractionReader supplies behavioral history for the user and peers.
type InteractionReader interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	GetUserLikedArtistIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error)
	ListUsersWithLikes(ctx context.Context, limit int) ([]models.UserLikes, error)
}

// EventLister supplies the candidate window.
type EventLister interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// ArtistCatalog resolves performer names and liked-artist ids to records.
type ArtistCatalog interface {
	GetByName(ctx context.Context, name string) (*models.Artist, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Artist, error)
}

// Forecaster provides the optional weather enrichment.
type Forecaster interface {
	ForecastForDate(ctx context.Context, lat, lon float64, date string) (*models.WeatherSummary, error)
}

// ComputeOptions are the caller-tunable knobs of one computation.
type ComputeOptions struct {
	HorizonDays int
	Limit       int
	City        string
	DateFrom    string
	DateTo      string
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Compute(ctx context.Context, userID string, opts ComputeOptions) (*models.RecommendationResult, error)
	Latest(ctx context.Context, userID string) (*models.RecommendationSnapshot, error)
}

type ServiceImpl struct {
	logger       *zap.Logger
	repo         Repository
	profiles     ProfileProvider
	interactions InteractionReader
	events       EventLister
	artists      ArtistCatalog
	forecaster   Forecaster
	now          func() time.Time
}

func NewService(repo Repository, profiles ProfileProvider, interactions InteractionReader, events EventLister, artists ArtistCatalog, forecaster Forecaster, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		repo:         repo,
		profiles:     profiles,
		interactions: interactions,
		events:       events,
		artists:      artists,
		forecaster:   forecaster,
		now:          time.Now,
	}
}

// Latest returns the stored snapshot for the user without recomputing.
func (s *ServiceImpl) Latest(ctx context.Context, userID string) (*models.RecommendationSnapshot, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.Get(ctx, userID)
}

// Compute scores upcoming events for the user, persists the top slice,
// and returns it. The profile is a hard dependency; everything else
// degrades to a zero contribution.
func (s *ServiceImpl) Compute(ctx context.Context, userID string, opts ComputeOptions) (*models.RecommendationResult, error) {
	ctx, span := otel.Tracer("RecommenderService").Start(ctx, "Compute")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	opts = normalizeOptions(opts)

	start := s.now()
	defer func() {
		if m := metrics.Instance(); m != nil {
			m.RecommendationDuration.Record(ctx, time.Since(start).Seconds())
		}
	}()

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile resolution failed")
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	likedIDs, err := s.interactions.GetUserLikedArtistIDs(ctx, userID, 0)
	if err != nil {
		s.logger.Warn("liked artists unavailable", zap.String("user_id", userID), zap.Error(err))
		likedIDs = nil
	}
	coldStart, err := s.isColdStart(ctx, userID, profile)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("recommendation.cold_start", coldStart))

	city := opts.City
	if city == "" {
		city = profile.City
	}
	from, to := s.dateWindow(opts)

	candidates, favoriteSet, err := s.selectCandidates(ctx, profile, coldStart, city, from, to)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	genreSet := s.buildGenreSet(ctx, profile.FavoriteArtists, likedIDs)
	peers, peerLikedNames := s.peerContext(ctx, userID, likedIDs)
	artistsByName := s.prefetchArtists(ctx, candidates)

	items := make([]models.RankedItem, 0, len(candidates))
	for _, event := range candidates {
		items = append(items, s.scoreEvent(event, scoringContext{
			favoriteSet:    favoriteSet,
			genreSet:       genreSet,
			peers:          peers,
			peerLikedNames: peerLikedNames,
			artistsByName:  artistsByName,
			coldStart:      coldStart,
			today:          s.today(),
		}))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	s.adjustForWeather(ctx, items, candidates)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}

	generatedAt := s.now().UTC()
	snapshot := models.RecommendationSnapshot{
		UserID:      userID,
		GeneratedAt: generatedAt,
		HorizonDays: opts.HorizonDays,
		City:        city,
		Items:       items,
	}
	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("computed recommendations",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("items", len(items)),
		zap.Bool("cold_start", coldStart))

	return &models.RecommendationResult{
		GeneratedAt: generatedAt,
		Items:       items,
		IsColdStart: coldStart,
	}, nil
}

// isColdStart is true only when the user declared no favorites and has
// never interacted with anything.
func (s *ServiceImpl) isColdStart(ctx context.Context, userID string, profile *models.UserProfile) (bool, error) {
	if len(profile.FavoriteArtists) > 0 {
		return false, nil
	}
	n, err := s.interactions.CountByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count user interactions: %w", err)
	}
	return n == 0, nil
}

func (s *ServiceImpl) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// dateWindow clamps the requested range to [today, today+horizon].
func (s *ServiceImpl) dateWindow(opts ComputeOptions) (string, string) {
	today := s.today()
	from := today
	if opts.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", opts.DateFrom); err == nil && t.After(from) {
			from = t
		}
	}
	to := today.AddDate(0, 0, opts.HorizonDays)
	if opts.DateTo != "" {
		if t, err := time.Parse("2006-01-02", opts.DateTo); err == nil && t.Before(to) {
			to = t
		}
	}
	return from.Format("2006-01-02"), to.Format("2006-01-02")
}

// selectCandidates loads the date/city window and, for warm users, puts
// favorite-artist events first. Fewer than favoriteFloor matches widens
// the pool to the whole window.
func (s *ServiceImpl) selectCandidates(ctx context.Context, profile *models.UserProfile, coldStart bool, city, from, to string) ([]models.Event, map[string]struct{}, error) {
	window, err := s.events.List(ctx, models.EventFilter{
		City:     city,
		DateFrom: from,
		DateTo:   to,
		Limit:    candidateCap,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list candidate events: %w", err)
	}

	favoriteSet := names.NormalizeSet(profile.FavoriteArtists)
	if coldStart || len(favoriteSet) == 0 {
		return window, favoriteSet, nil
	}

	var matched, rest []models.Event
	for _, e := range window {
		if eventFeaturesAny(e, favoriteSet) {
			matched = append(matched, e)
		} else {
			rest = append(rest, e)
		}
	}
	if len(matched) >= favoriteFloor {
		return matched, favoriteSet, nil
	}
	return append(matched, rest...), favoriteSet, nil
}

// buildGenreSet unions the genres of declared favorites and recently
// liked artists. Unresolvable names just contribute nothing.
func (s *ServiceImpl) buildGenreSet(ctx context.Context, favoriteNames []string, likedIDs []uuid.UUID) map[string]struct{} {
	genres := make(map[string]struct{})

	for _, name := range favoriteNames {
		artist, err := s.artists.GetByName(ctx, name)
		if err != nil || artist == nil {
			continue
		}
		for _, g := range artist.Genres {
			if v := names.Normalize(g); v != "" {
				genres[v] = struct{}{}
			}
		}
	}

	if len(likedIDs) > likedGenreCap {
		likedIDs = likedIDs[:likedGenreCap]
	}
	if len(likedIDs) > 0 {
		liked, err := s.artists.GetByIDs(ctx, likedIDs)
		if err != nil {
			s.logger.Warn("liked artist lookup failed for genre set", zap.Error(err))
		} else {
			for _, a := range liked {
				for _, g := range a.Genres {
					if v := names.Normalize(g); v != "" {
						genres[v] = struct{}{}
					}
				}
			}
		}
	}
	return genres
}

// peerContext samples other users, keeps the top similar ones, and
// resolves the artist names those peers like. Failures degrade to an
// empty peer set.
func (s *ServiceImpl) peerContext(ctx context.Context, userID string, likedIDs []uuid.UUID) ([]peer, map[string]struct{}) {
	if len(likedIDs) == 0 {
		return nil, nil
	}
	sample, err := s.interactions.ListUsersWithLikes(ctx, peerSampleCap)
	if err != nil {
		s.logger.Warn("peer sample unavailable", zap.Error(err))
		return nil, nil
	}

	others := make([]peer, 0, len(sample))
	for _, u := range sample {
		if u.UserID == userID {
			continue
		}
		others = append(others, peer{UserID: u.UserID, ArtistIDs: u.ArtistIDs})
	}
	peers := topPeers(likedIDs, others, topPeerCount)
	if len(peers) == 0 {
		return nil, nil
	}

	idSet := make(map[uuid.UUID]struct{})
	for _, p := range peers {
		for _, id := range p.ArtistIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	likedArtists, err := s.artists.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("peer artist lookup failed", zap.Error(err))
		return peers, nil
	}
	likedNames := make(map[string]struct{}, len(likedArtists))
	for _, a := range likedArtists {
		likedNames[names.Normalize(a.Name)] = struct{}{}
	}
	return peers, likedNames
}

// prefetchArtists resolves every distinct performer name across the
// candidates with bounded concurrency. Unknown performers are simply
// absent from the map.
func (s *ServiceImpl) prefetchArtists(ctx context.Context, candidates []models.Event) map[string]*models.Artist {
	nameSet := make(map[string]struct{})
	for _, e := range candidates {
		for _, n := range e.Artists {
			if v := names.Normalize(n); v != "" {
				nameSet[v] = struct{}{}
			}
		}
	}

	byName := make(map[string]*models.Artist, len(nameSet))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)
	for name := range nameSet {
		g.Go(func() error {
			artist, err := s.artists.GetByName(gctx, name)
			if err != nil || artist == nil {
				return nil
			}
			mu.Lock()
			byName[name] = artist
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return byName
}

type scoringContext struct {
	favoriteSet    map[string]struct{}
	genreSet       map[string]struct{}
	peers          []peer
	peerLikedNames map[string]struct{}
	artistsByName  map[string]*models.Artist
	coldStart      bool
	today          time.Time
}

// scoreEvent accumulates the independent factors into one ranked item
// with a full breakdown.
func (s *ServiceImpl) scoreEvent(event models.Event, sc scoringContext) models.RankedItem {
	var (
		breakdown []models.ScoreBreakdown
		reasons   []string
		total     int
	)
	add := func(factor models.ScoreFactor, points int, reason string) {
		if points == 0 {
			return
		}
		breakdown = append(breakdown, models.ScoreBreakdown{Factor: factor, Points: points})
		total += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	performers := make([]*models.Artist, 0, len(event.Artists))
	matchedFavorites := 0
	firstFavorite := ""
	for _, raw := range event.Artists {
		n := names.Normalize(raw)
		if _, ok := sc.favoriteSet[n]; ok {
			matchedFavorites++
			if firstFavorite == "" {
				firstFavorite = raw
			}
		}
		if a, ok := sc.artistsByName[n]; ok {
			performers = append(performers, a)
		}
	}

	if matchedFavorites > 0 {
		add(models.FactorFavoriteArtist, matchedFavorites*favoriteArtistPoints,
			fmt.Sprintf("Features %s, one of your favorite artists", firstFavorite))
	}

	if len(sc.genreSet) > 0 {
		// Matches accumulate per performer. Two acts sharing a genre the
		// user listens to both count.
		matchedGenres := 0
		for _, a := range performers {
			for _, g := range a.Genres {
				if _, ok := sc.genreSet[names.Normalize(g)]; ok {
					matchedGenres++
				}
			}
		}
		if matchedGenres > 0 {
			points := matchedGenres * genrePointsPerMatch
			if points > genrePointsCap {
				points = genrePointsCap
			}
			add(models.FactorGenreMatch, points, "Matches genres you listen to")
		}
	}

	if len(performers) > 0 {
		sum := 0.0
		for i, a := range performers {
			if i >= 3 {
				break
			}
			sum += float64(a.SpotifyPopularity()) * popularityWeight
		}
		points := int(math.Round(math.Min(sum, popularityCap)))
		add(models.FactorArtistPopularity, points, "")
	}

	if len(sc.peers) > 0 {
		if intersects(event.Artists, sc.peerLikedNames) {
			avg := 0.0
			for _, p := range sc.peers {
				avg += p.Similarity
			}
			avg /= float64(len(sc.peers))
			add(models.FactorSimilarUsers, int(math.Round(avg*50)),
				"People with similar taste like these artists")
		} else {
			sum := 0.0
			for _, p := range sc.peers {
				sum += p.Similarity
			}
			add(models.FactorCollaborative, int(math.Round(sum*10)), "")
		}
	}

	if days, ok := daysUntil(sc.today, event.Date); ok {
		points := recencyBase - days
		if points < 0 {
			points = 0
		}
		if points > 0 {
			add(models.FactorRecency, points, "Coming up soon")
		}
	}

	performerCount := len(event.Artists)
	if performerCount < 1 {
		performerCount = 1
	}
	contentPoints := performerCount * contentPointsPerAct
	if contentPoints > contentPointsCap {
		contentPoints = contentPointsCap
	}
	add(models.FactorContent, contentPoints, "")

	if sc.coldStart {
		// The window is the first listed performers, resolved or not. An
		// unknown headliner still occupies a slot.
		points := 0
		for i, raw := range event.Artists {
			if i >= trendingTopActs {
				break
			}
			a, ok := sc.artistsByName[names.Normalize(raw)]
			if !ok {
				continue
			}
			if a.SpotifyPopularity() > trendingHotReputation {
				points += trendingHotPoints
			}
			if a.SpotifyFollowers() > trendingBigFollowers {
				points += trendingBigPoints
			}
		}
		add(models.FactorTrending, points, "Trending right now")
	}

	// Percentage shares are relative to the item's own factor total.
	denom := total
	if denom < 1 {
		denom = 1
	}
	for i := range breakdown {
		breakdown[i].Percentage = int(math.Round(float64(breakdown[i].Points) / float64(denom) * 100))
	}

	return models.RankedItem{
		ID:    event.ID.String(),
		Name:  event.Name,
		Score: float64(total),
		Meta: &models.RankedItemMeta{
			Date:      event.Date,
			City:      event.City,
			URL:       event.URL,
			Venue:     event.Venue,
			Artists:   event.Artists,
			Reasons:   reasons,
			Breakdown: breakdown,
		},
	}
}

// adjustForWeather enriches the current top candidates with a forecast
// and nudges scores for clearly bad or clearly pleasant conditions. Any
// lookup failure leaves the item untouched.
func (s *ServiceImpl) adjustForWeather(ctx context.Context, items []models.RankedItem, candidates []models.Event) {
	if s.forecaster == nil {
		return
	}
	byID := make(map[string]models.Event, len(candidates))
	for _, e := range candidates {
		byID[e.ID.String()] = e
	}

	n := len(items)
	if n > weatherTopN {
		n = weatherTopN
	}
	for i := 0; i < n; i++ {
		event, ok := byID[items[i].ID]
		if !ok || event.Location == nil || event.Date == "" {
			continue
		}
		forecast, err := s.forecaster.ForecastForDate(ctx, event.Location.Lat, event.Location.Lon, event.Date)
		if err != nil || forecast == nil {
			continue
		}
		if items[i].Meta == nil {
			items[i].Meta = &models.RankedItemMeta{}
		}
		items[i].Meta.Weather = forecast
		delta, reason := weatherDelta(forecast)
		if delta != 0 {
			items[i].Score += delta
			items[i].Meta.Reasons = append(items[i].Meta.Reasons, reason)
		}
	}
}

// weatherDelta penalizes rain and rewards mild dry days. Temperature is
// judged on the daily maximum. Returns the score delta and the reason to
// surface alongside it.
func weatherDelta(w *models.WeatherSummary) (float64, string) {
	if w.PrecipitationMm == nil {
		return 0, ""
	}
	precip := *w.PrecipitationMm
	switch {
	case precip > 10:
		return -20, "Heavy rain expected"
	case precip > 5:
		return -10, "Rain possible"
	case precip < 1:
		if w.TempMax != nil && *w.TempMax > 15 && *w.TempMax < 28 {
			return 10, "Great concert weather"
		}
	}
	return 0, ""
}

func daysUntil(today time.Time, date string) (int, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	return int(t.Sub(today).Hours() / 24), true
}

func eventFeaturesAny(e models.Event, favoriteSet map[string]struct{}) bool {
	for _, raw := range e.Artists {
		if _, ok := favoriteSet[names.Normalize(raw)]; ok {
			return true
		}
	}
	return false
}

func intersects(performerNames []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, raw := range performerNames {
		if _, ok := set[names.Normalize(raw)]; ok {
			return true
		}
	}
	return false
}

func normalizeOptions(opts ComputeOptions) ComputeOptions {
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = defaultHorizonDays
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}
	return opts
}
