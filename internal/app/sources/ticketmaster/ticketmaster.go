// Package ticketmaster is the event discovery client used by ingestion.
package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/observability/metrics"
)

const discoveryURL = "https://app.ticketmaster.com/discovery/v2/events.json"

// Event is one upstream event, already flattened to the fields we store.
type Event struct {
	TMID          string
	Name          string
	URL           string
	Date          string // YYYY-MM-DD
	LocalDateTime string
	City          string
	CountryCode   string
	Venue         string
	Images        []models.EventImage
	Location      *models.GeoPoint
	Artists       []string
}

type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// SearchEventsByArtist queries the discovery API for music events matching
// the artist keyword, optionally scoped to a city. Events without an id or
// a local date are dropped.
func (c *Client) SearchEventsByArtist(ctx context.Context, artist, city string, size int) ([]Event, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ticketmaster: API key is not configured")
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("classificationName", "music")
	params.Set("keyword", artist)
	params.Set("size", strconv.Itoa(size))
	if city != "" {
		params.Set("city", city)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "ticketmaster: build request")
	}

	res, err := c.httpClient.Do(req)
	metrics.RecordProviderRequest(ctx, "ticketmaster", err)
	if err != nil {
		return nil, errors.Wrap(err, "ticketmaster: discovery request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 200))
		return nil, fmt.Errorf("ticketmaster: discovery returned status %d: %s", res.StatusCode, string(body))
	}

	var payload struct {
		Embedded struct {
			Events []upstreamEvent `json:"events"`
		} `json:"_embedded"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "ticketmaster: decode response")
	}

	out := make([]Event, 0, len(payload.Embedded.Events))
	for _, e := range payload.Embedded.Events {
		mapped := e.flatten(artist)
		if mapped.TMID == "" || mapped.Date == "" {
			continue
		}
		out = append(out, mapped)
	}

	c.logger.Debug("Ticketmaster search finished",
		zap.String("artist", artist),
		zap.String("city", city),
		zap.Int("events", len(out)),
	)

	return out, nil
}

type upstreamEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Images []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"images"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			DateTime  string `json:"dateTime"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
			Country struct {
				CountryCode string `json:"countryCode"`
			} `json:"country"`
			Location struct {
				Latitude  string `json:"latitude"`
				Longitude string `json:"longitude"`
			} `json:"location"`
		} `json:"venues"`
		Attractions []struct {
			Name string `json:"name"`
		} `json:"attractions"`
	} `json:"_embedded"`
}

func (e upstreamEvent) flatten(fallbackArtist string) Event {
	out := Event{
		TMID:          e.ID,
		Name:          e.Name,
		URL:           e.URL,
		Date:          e.Dates.Start.LocalDate,
		LocalDateTime: e.Dates.Start.DateTime,
	}

	for _, im := range e.Images {
		out.Images = append(out.Images, models.EventImage{URL: im.URL, Width: im.Width, Height: im.Height})
	}

	if len(e.Embedded.Venues) > 0 {
		venue := e.Embedded.Venues[0]
		out.City = venue.City.Name
		out.CountryCode = venue.Country.CountryCode
		out.Venue = venue.Name

		lat, latErr := strconv.ParseFloat(venue.Location.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(venue.Location.Longitude, 64)
		if latErr == nil && lonErr == nil {
			out.Location = &models.GeoPoint{Lat: lat, Lon: lon}
		}
	}

	for _, a := range e.Embedded.Attractions {
		if a.Name != "" {
			out.Artists = append(out.Artists, a.Name)
		}
	}
	if len(out.Artists) == 0 {
		out.Artists = []string{fallbackArtist}
	}

	return out
}
