// Package lastfm is the listener-stats provider client.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/observability/metrics"
	"github.com/gigradar/gigradar/internal/pkg/names"
)

const apiURL = "https://ws.audioscrobbler.com/2.0/"

// Info is the listener-stats bundle for one artist.
type Info struct {
	MBID      string
	Listeners int64
	Playcount int64
	Tags      []string
}

type Client struct {
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *zap.Logger
}

// New builds a client. An empty API key disables the provider.
func New(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(30*time.Minute, 10*time.Minute),
		logger:     logger,
	}
}

// ArtistInfoByName fetches artist.getinfo. Returns (nil, nil) when the
// provider is disabled or has no record.
func (c *Client) ArtistInfoByName(ctx context.Context, name string) (*Info, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	cacheKey := names.Normalize(name)
	if cached, found := c.cache.Get(cacheKey); found {
		info := cached.(Info)
		return &info, nil
	}

	params := url.Values{}
	params.Set("method", "artist.getinfo")
	params.Set("artist", name)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "lastfm: build request")
	}

	res, err := c.httpClient.Do(req)
	metrics.RecordProviderRequest(ctx, "lastfm", err)
	if err != nil {
		return nil, errors.Wrap(err, "lastfm: getinfo request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lastfm: getinfo returned status %d", res.StatusCode)
	}

	var payload struct {
		Artist *struct {
			MBID  string `json:"mbid"`
			Stats struct {
				Listeners string `json:"listeners"`
				Playcount string `json:"playcount"`
			} `json:"stats"`
			Tags struct {
				Tag []struct {
					Name string `json:"name"`
				} `json:"tag"`
			} `json:"tags"`
		} `json:"artist"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "lastfm: decode response")
	}

	if payload.Artist == nil {
		c.logger.Debug("Last.fm returned no record", zap.String("artist", name))
		return nil, nil
	}

	// Counters arrive as strings; unparseable values count as zero.
	listeners, _ := strconv.ParseInt(payload.Artist.Stats.Listeners, 10, 64)
	playcount, _ := strconv.ParseInt(payload.Artist.Stats.Playcount, 10, 64)

	tags := make([]string, 0, len(payload.Artist.Tags.Tag))
	for _, t := range payload.Artist.Tags.Tag {
		if t.Name != "" {
			tags = append(tags, t.Name)
		}
	}

	info := Info{
		MBID:      payload.Artist.MBID,
		Listeners: listeners,
		Playcount: playcount,
		Tags:      tags,
	}
	c.cache.Set(cacheKey, info, gocache.DefaultExpiration)

	return &info, nil
}
