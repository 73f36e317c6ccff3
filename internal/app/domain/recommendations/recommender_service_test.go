package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

// --- Mocks for Dependencies ---

type MockRecommendationRepo struct {
	mock.Mock
}

func (m *MockRecommendationRepo) Get(ctx context.Context, userID string) (*models.RecommendationSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationSnapshot), args.Error(1)
}

func (m *MockRecommendationRepo) Upsert(ctx context.Context, snapshot models.RecommendationSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

type MockProfileProvider struct {
	mock.Mock
}

func (m *MockProfileProvider) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type MockInteractionReader struct {
	mock.Mock
}

func (m *MockInteractionReader) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionReader) GetUserLikedArtistIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockInteractionReader) ListUsersWithLikes(ctx context.Context, limit int) ([]models.UserLikes, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserLikes), args.Error(1)
}

type MockEventLister struct {
	mock.Mock
}

func (m *MockEventLister) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

type MockArtistCatalog struct {
	mock.Mock
}

func (m *MockArtistCatalog) GetByName(ctx context.Context, name string) (*models.Artist, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockArtistCatalog) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Artist, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artist), args.Error(1)
}

type MockForecaster struct {
	mock.Mock
}

func (m *MockForecaster) ForecastForDate(ctx context.Context, lat, lon float64, date string) (*models.WeatherSummary, error) {
	args := m.Called(ctx, lat, lon, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherSummary), args.Error(1)
}

type testDeps struct {
	repo         *MockRecommendationRepo
	profiles     *MockProfileProvider
	interactions *MockInteractionReader
	events       *MockEventLister
	artists      *MockArtistCatalog
	forecaster   *MockForecaster
}

func newTestService(t *testing.T) (*ServiceImpl, *testDeps) {
	t.Helper()
	d := &testDeps{
		repo:         new(MockRecommendationRepo),
		profiles:     new(MockProfileProvider),
		interactions: new(MockInteractionReader),
		events:       new(MockEventLister),
		artists:      new(MockArtistCatalog),
		forecaster:   new(MockForecaster),
	}
	svc := NewService(d.repo, d.profiles, d.interactions, d.events, d.artists, d.forecaster, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return svc, d
}

func TestIsColdStart(t *testing.T) {
	tests := []struct {
		name         string
		favorites    []string
		interactions int64
		expected     bool
	}{
		{"no favorites no interactions", nil, 0, true},
		{"favorites only", []string{"Fontaines D.C."}, 0, false},
		{"interactions only", nil, 3, false},
		{"both", []string{"Fontaines D.C."}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newTestService(t)
			d.interactions.On("CountByUser", mock.Anything, "u1").Return(tt.interactions, nil)

			cold, err := svc.isColdStart(context.Background(), "u1", &models.UserProfile{
				UserID:          "u1",
				FavoriteArtists: tt.favorites,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cold)
		})
	}
}

func TestCompute_ProfileFailureIsHardError(t *testing.T) {
	svc, d := newTestService(t)
	d.profiles.On("Get", mock.Anything, "ghost").Return(nil, models.ErrNotFound)

	_, err := svc.Compute(context.Background(), "ghost", ComputeOptions{})
	assert.ErrorIs(t, err, models.ErrNotFound)
	d.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCompute_FavoriteArtistDominatesScore(t *testing.T) {
	svc, d := newTestService(t)

	favorite := &models.Artist{
		ID:     uuid.New(),
		Name:   "Fontaines D.C.",
		Genres: []string{"post-punk"},
	}
	favorite.Signals.Spotify = &models.SpotifySignals{Popularity: 75, Followers: 800_000}

	favEvent := models.Event{
		ID:      uuid.New(),
		Name:    "Fontaines D.C. Live",
		Date:    "2026-09-04",
		City:    "Zagreb",
		Artists: []string{"Fontaines D.C."},
	}
	otherEvent := models.Event{
		ID:      uuid.New(),
		Name:    "Jazz Evening",
		Date:    "2026-09-04",
		City:    "Zagreb",
		Artists: []string{"Quiet Trio"},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"Fontaines D.C."},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).
		Return([]models.Event{otherEvent, favEvent}, nil)
	d.artists.On("GetByName", mock.Anything, "Fontaines D.C.").Return(favorite, nil)
	d.artists.On("GetByName", mock.Anything, "fontaines d.c.").Return(favorite, nil)
	d.artists.On("GetByName", mock.Anything, "quiet trio").Return(nil, models.ErrNotFound)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)

	assert.False(t, result.IsColdStart)
	require.NotEmpty(t, result.Items)
	top := result.Items[0]
	assert.Equal(t, favEvent.ID.String(), top.ID)

	var favPoints int
	for _, b := range top.Meta.Breakdown {
		if b.Factor == models.FactorFavoriteArtist {
			favPoints = b.Points
		}
	}
	assert.Equal(t, 120, favPoints)
}

func TestCompute_BreakdownPercentagesUseItemTotal(t *testing.T) {
	svc, d := newTestService(t)

	event := models.Event{
		ID:      uuid.New(),
		Name:    "Warehouse Night",
		Date:    "2026-09-10",
		City:    "Zagreb",
		Artists: []string{"Somebody"},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"Somebody"},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByName", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	total := 0
	pctSum := 0
	for _, b := range item.Meta.Breakdown {
		total += b.Points
		pctSum += b.Percentage
	}
	assert.InDelta(t, float64(total), item.Score, 0.01)
	// Rounding keeps the shares near a full split.
	assert.InDelta(t, 100, pctSum, 2)
}

func TestCompute_ColdStartUsesTrendingBoost(t *testing.T) {
	svc, d := newTestService(t)

	hot := &models.Artist{ID: uuid.New(), Name: "Stadium Act"}
	hot.Signals.Spotify = &models.SpotifySignals{Popularity: 95, Followers: 5_000_000}

	event := models.Event{
		ID:      uuid.New(),
		Name:    "Stadium Act World Tour",
		Date:    "2026-09-20",
		City:    "Zagreb",
		Artists: []string{"Stadium Act"},
	}

	d.profiles.On("Get", mock.Anything, "newbie").Return(&models.UserProfile{
		UserID: "newbie",
		City:   "Zagreb",
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "newbie", 0).Return([]uuid.UUID{}, nil)
	d.interactions.On("CountByUser", mock.Anything, "newbie").Return(int64(0), nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByName", mock.Anything, "stadium act").Return(hot, nil)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "newbie", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	assert.True(t, result.IsColdStart)
	require.Len(t, result.Items, 1)

	var trending int
	for _, b := range result.Items[0].Meta.Breakdown {
		if b.Factor == models.FactorTrending {
			trending = b.Points
		}
	}
	// Reputation over 70 and followers over a million both fire.
	assert.Equal(t, 35, trending)
}

func TestCompute_HeavyRainPenalizesTopCandidate(t *testing.T) {
	svc, d := newTestService(t)

	rainy := models.Event{
		ID:       uuid.New(),
		Name:     "Open Air",
		Date:     "2026-09-02",
		City:     "Zagreb",
		Artists:  []string{"Somebody"},
		Location: &models.GeoPoint{Lat: 45.8, Lon: 15.97},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"Somebody"},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{rainy}, nil)
	d.artists.On("GetByName", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)

	precip := 15.0
	d.forecaster.On("ForecastForDate", mock.Anything, 45.8, 15.97, "2026-09-02").
		Return(&models.WeatherSummary{Date: "2026-09-02", PrecipitationMm: &precip, Label: "Rain"}, nil)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	require.NotNil(t, item.Meta.Weather)
	assert.Equal(t, "Rain", item.Meta.Weather.Label)
	assert.Contains(t, item.Meta.Reasons, "Heavy rain expected")

	total := 0
	for _, b := range item.Meta.Breakdown {
		total += b.Points
	}
	assert.InDelta(t, float64(total)-20, item.Score, 0.01)
}

func TestWeatherDelta(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		precip *float64
		temp   *float64
		delta  float64
		reason string
	}{
		{"heavy rain", f(12), nil, -20, "Heavy rain expected"},
		{"moderate rain", f(7), nil, -10, "Rain possible"},
		{"five millimeters exactly is not penalized", f(5), nil, 0, ""},
		{"dry and mild", f(0.2), f(21), 10, "Great concert weather"},
		{"dry but hot", f(0.2), f(31), 0, ""},
		{"no precipitation data", nil, f(21), 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, reason := weatherDelta(&models.WeatherSummary{
				PrecipitationMm: tt.precip,
				TempMax:         tt.temp,
			})
			assert.Equal(t, tt.delta, delta)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestCompute_WeatherFailureIsSilent(t *testing.T) {
	svc, d := newTestService(t)

	event := models.Event{
		ID:       uuid.New(),
		Name:     "Open Air",
		Date:     "2026-09-02",
		City:     "Zagreb",
		Artists:  []string{"Somebody"},
		Location: &models.GeoPoint{Lat: 45.8, Lon: 15.97},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"Somebody"},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByName", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)
	d.forecaster.On("ForecastForDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("provider down"))
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Nil(t, result.Items[0].Meta.Weather)
}

func TestCompute_PeerOverlapAwardsSimilarUsers(t *testing.T) {
	svc, d := newTestService(t)

	sharedArtist := models.Artist{ID: uuid.New(), Name: "Shared Act"}
	liked := []uuid.UUID{sharedArtist.ID}

	event := models.Event{
		ID:      uuid.New(),
		Name:    "Shared Act Night",
		Date:    "2026-09-05",
		City:    "Zagreb",
		Artists: []string{"Shared Act"},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID: "u1",
		City:   "Zagreb",
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return(liked, nil)
	d.interactions.On("CountByUser", mock.Anything, "u1").Return(int64(1), nil)
	d.interactions.On("ListUsersWithLikes", mock.Anything, peerSampleCap).Return([]models.UserLikes{
		{UserID: "u1", ArtistIDs: liked},
		{UserID: "twin", ArtistIDs: liked},
	}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByIDs", mock.Anything, mock.Anything).Return([]models.Artist{sharedArtist}, nil)
	d.artists.On("GetByName", mock.Anything, "shared act").Return(&sharedArtist, nil)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	var similar int
	for _, b := range result.Items[0].Meta.Breakdown {
		if b.Factor == models.FactorSimilarUsers {
			similar = b.Points
		}
	}
	// One perfect peer: round(1.0 * 50).
	assert.Equal(t, 50, similar)
}

func TestCompute_PersistsOnlyTopLimit(t *testing.T) {
	svc, d := newTestService(t)

	events := make([]models.Event, 5)
	for i := range events {
		events[i] = models.Event{
			ID:      uuid.New(),
			Name:    "Gig",
			Date:    "2026-09-10",
			City:    "Zagreb",
			Artists: []string{"Somebody"},
		}
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"Somebody"},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return(events, nil)
	d.artists.On("GetByName", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)
	d.forecaster.On("ForecastForDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("skip"))

	var persisted models.RecommendationSnapshot
	d.repo.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(models.RecommendationSnapshot)
		}).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Len(t, persisted.Items, 2)
	assert.Equal(t, "u1", persisted.UserID)
	assert.Equal(t, 30, persisted.HorizonDays)
}

func TestCompute_GenreMatchCountsPerPerformer(t *testing.T) {
	svc, d := newTestService(t)

	curator := &models.Artist{ID: uuid.New(), Name: "Curator", Genres: []string{"rock"}}
	actOne := &models.Artist{ID: uuid.New(), Name: "Act One", Genres: []string{"rock"}}
	actTwo := &models.Artist{ID: uuid.New(), Name: "Act Two", Genres: []string{"rock"}}

	event := models.Event{
		ID:      uuid.New(),
		Name:    "Double Bill",
		Date:    "2026-09-10",
		City:    "Zagreb",
		Artists: []string{"Act One", "Act Two"},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"Curator"},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByName", mock.Anything, "Curator").Return(curator, nil)
	d.artists.On("GetByName", mock.Anything, "act one").Return(actOne, nil)
	d.artists.On("GetByName", mock.Anything, "act two").Return(actTwo, nil)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	var genre int
	for _, b := range result.Items[0].Meta.Breakdown {
		if b.Factor == models.FactorGenreMatch {
			genre = b.Points
		}
	}
	// Both acts match the user's rock taste, so the match counts twice.
	assert.Equal(t, 30, genre)
}

func TestCompute_TrendingWindowUsesListedOrder(t *testing.T) {
	svc, d := newTestService(t)

	hot := &models.Artist{ID: uuid.New(), Name: "Hot Act"}
	hot.Signals.Spotify = &models.SpotifySignals{Popularity: 95, Followers: 5_000_000}
	alsoHot := &models.Artist{ID: uuid.New(), Name: "Hot Act Two"}
	alsoHot.Signals.Spotify = &models.SpotifySignals{Popularity: 95, Followers: 5_000_000}

	event := models.Event{
		ID:      uuid.New(),
		Name:    "Festival Day",
		Date:    "2026-09-20",
		City:    "Zagreb",
		Artists: []string{"Unknown Opener", "Hot Act", "Hot Act Two"},
	}

	d.profiles.On("Get", mock.Anything, "newbie").Return(&models.UserProfile{
		UserID: "newbie",
		City:   "Zagreb",
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "newbie", 0).Return([]uuid.UUID{}, nil)
	d.interactions.On("CountByUser", mock.Anything, "newbie").Return(int64(0), nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByName", mock.Anything, "unknown opener").Return(nil, models.ErrNotFound)
	d.artists.On("GetByName", mock.Anything, "hot act").Return(hot, nil)
	d.artists.On("GetByName", mock.Anything, "hot act two").Return(alsoHot, nil)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "newbie", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	assert.True(t, result.IsColdStart)
	require.Len(t, result.Items, 1)

	var trending int
	for _, b := range result.Items[0].Meta.Breakdown {
		if b.Factor == models.FactorTrending {
			trending = b.Points
		}
	}
	// The unresolved opener occupies the first slot, so only the second
	// listed act can contribute.
	assert.Equal(t, 35, trending)
}

func TestCompute_ContentAwardsMinimumForEmptyLineup(t *testing.T) {
	svc, d := newTestService(t)

	event := models.Event{
		ID:   uuid.New(),
		Name: "Mystery Night",
		Date: "2026-09-10",
		City: "Zagreb",
	}

	d.profiles.On("Get", mock.Anything, "newbie").Return(&models.UserProfile{
		UserID: "newbie",
		City:   "Zagreb",
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "newbie", 0).Return([]uuid.UUID{}, nil)
	d.interactions.On("CountByUser", mock.Anything, "newbie").Return(int64(0), nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "newbie", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	var content int
	for _, b := range result.Items[0].Meta.Breakdown {
		if b.Factor == models.FactorContent {
			content = b.Points
		}
	}
	// An unlisted lineup still counts as one act.
	assert.Equal(t, 3, content)
}

func TestCompute_TwoFavoriteActsTenDaysOut(t *testing.T) {
	svc, d := newTestService(t)

	event := models.Event{
		ID:      uuid.New(),
		Name:    "Double Headline",
		Date:    "2026-09-09",
		City:    "Zagreb",
		Artists: []string{"First Love", "Second Love"},
	}

	d.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{
		UserID:          "u1",
		City:            "Zagreb",
		FavoriteArtists: []string{"First Love", "Second Love"},
	}, nil)
	d.interactions.On("GetUserLikedArtistIDs", mock.Anything, "u1", 0).Return([]uuid.UUID{}, nil)
	d.events.On("List", mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	d.artists.On("GetByName", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)
	d.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Compute(context.Background(), "u1", ComputeOptions{HorizonDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	points := make(map[models.ScoreFactor]int)
	pct := make(map[models.ScoreFactor]int)
	for _, b := range item.Meta.Breakdown {
		points[b.Factor] = b.Points
		pct[b.Factor] = b.Percentage
	}

	// Two matched favorites, ten days out, two listed acts and no genre
	// or peer signal: 240 + 40 + 6.
	assert.Equal(t, 240, points[models.FactorFavoriteArtist])
	assert.Equal(t, 40, points[models.FactorRecency])
	assert.Equal(t, 6, points[models.FactorContent])
	assert.InDelta(t, 286, item.Score, 0.01)
	assert.Equal(t, 84, pct[models.FactorFavoriteArtist])
}

func TestDateWindow(t *testing.T) {
	svc, _ := newTestService(t)

	from, to := svc.dateWindow(ComputeOptions{HorizonDays: 14})
	assert.Equal(t, "2026-08-30", from)
	assert.Equal(t, "2026-09-13", to)

	// Caller bounds only narrow the window, never widen it.
	from, to = svc.dateWindow(ComputeOptions{HorizonDays: 14, DateFrom: "2026-01-01", DateTo: "2027-01-01"})
	assert.Equal(t, "2026-08-30", from)
	assert.Equal(t, "2026-09-13", to)

	from, to = svc.dateWindow(ComputeOptions{HorizonDays: 14, DateFrom: "2026-09-02", DateTo: "2026-09-05"})
	assert.Equal(t, "2026-09-02", from)
	assert.Equal(t, "2026-09-05", to)
}
