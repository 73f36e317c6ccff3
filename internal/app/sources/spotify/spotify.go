// Package spotify is the reputation provider client. It answers with a
// small profile bundle (popularity, followers, genres) or nothing at all;
// callers treat an absent profile as a zero signal.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/observability/metrics"
	"github.com/gigradar/gigradar/internal/pkg/names"
)

const searchURL = "https://api.spotify.com/v1/search"

// Profile is the reputation bundle for one artist.
type Profile struct {
	ID         string
	Popularity int
	Followers  int64
	Genres     []string
}

type Client struct {
	token      string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *zap.Logger
}

// New builds a client. An empty token disables the provider: every lookup
// returns no profile instead of an error.
func New(token string, logger *zap.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(30*time.Minute, 10*time.Minute),
		logger:     logger,
	}
}

// ArtistProfileByName looks up the best search match for the artist name.
// Returns (nil, nil) when the provider is disabled or has no match.
func (c *Client) ArtistProfileByName(ctx context.Context, name string) (*Profile, error) {
	if c.token == "" {
		return nil, nil
	}

	cacheKey := names.Normalize(name)
	if cached, found := c.cache.Get(cacheKey); found {
		profile := cached.(Profile)
		return &profile, nil
	}

	params := url.Values{}
	params.Set("type", "artist")
	params.Set("limit", "1")
	params.Set("q", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "spotify: build search request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	metrics.RecordProviderRequest(ctx, "spotify", err)
	if err != nil {
		return nil, errors.Wrap(err, "spotify: search request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify: search returned status %d", res.StatusCode)
	}

	var payload struct {
		Artists struct {
			Items []struct {
				ID         string `json:"id"`
				Popularity int    `json:"popularity"`
				Followers  struct {
					Total int64 `json:"total"`
				} `json:"followers"`
				Genres []string `json:"genres"`
			} `json:"items"`
		} `json:"artists"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "spotify: decode search response")
	}

	if len(payload.Artists.Items) == 0 {
		c.logger.Debug("Spotify returned no match", zap.String("artist", name))
		return nil, nil
	}

	item := payload.Artists.Items[0]
	profile := Profile{
		ID:         item.ID,
		Popularity: item.Popularity,
		Followers:  item.Followers.Total,
		Genres:     item.Genres,
	}
	c.cache.Set(cacheKey, profile, gocache.DefaultExpiration)

	return &profile, nil
}
