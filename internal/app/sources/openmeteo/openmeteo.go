// Package openmeteo is the weather provider client. Weather is enrichment
// only: callers treat any failure here as "no adjustment", never as an
// error of their own.
package openmeteo

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

	"github.com/gigradar/gigradar/internal/app/models"
	"github.com/gigradar/gigradar/internal/app/observability/metrics"
)

const forecastURL = "https://api.open-meteo.com/v1/forecast"

type Client struct {
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *zap.Logger
}

func New(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		cache:      gocache.New(time.Hour, 15*time.Minute),
		logger:     logger,
	}
}

// ForecastForDate fetches the daily forecast for one coordinate and
// calendar day.
func (c *Client) ForecastForDate(ctx context.Context, lat, lon float64, date string) (*models.WeatherSummary, error) {
	cacheKey := fmt.Sprintf("%.3f:%.3f:%s", lat, lon, date)
	if cached, found := c.cache.Get(cacheKey); found {
		summary := cached.(models.WeatherSummary)
		return &summary, nil
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weathercode")
	params.Set("timezone", "auto")
	params.Set("start_date", date)
	params.Set("end_date", date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, forecastURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "openmeteo: build request")
	}

	res, err := c.httpClient.Do(req)
	metrics.RecordProviderRequest(ctx, "openmeteo", err)
	if err != nil {
		return nil, errors.Wrap(err, "openmeteo: forecast request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openmeteo: forecast returned status %d", res.StatusCode)
	}

	var payload struct {
		Daily struct {
			TempMax       []float64 `json:"temperature_2m_max"`
			TempMin       []float64 `json:"temperature_2m_min"`
			Precipitation []float64 `json:"precipitation_sum"`
			WeatherCode   []int     `json:"weathercode"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "openmeteo: decode response")
	}

	summary := models.WeatherSummary{Date: date}
	if len(payload.Daily.TempMax) > 0 {
		summary.TempMax = &payload.Daily.TempMax[0]
	}
	if len(payload.Daily.TempMin) > 0 {
		summary.TempMin = &payload.Daily.TempMin[0]
	}
	if len(payload.Daily.Precipitation) > 0 {
		summary.PrecipitationMm = &payload.Daily.Precipitation[0]
	}
	if len(payload.Daily.WeatherCode) > 0 {
		summary.Code = &payload.Daily.WeatherCode[0]
	}
	summary.Label = buildLabel(summary)

	c.cache.Set(cacheKey, summary, gocache.DefaultExpiration)

	return &summary, nil
}

// ConditionLabel maps an Open-Meteo weather code onto a short human label.
func ConditionLabel(code *int) string {
	if code == nil {
		return "N/A"
	}
	switch *code {
	case 0:
		return "Clear"
	case 1, 2, 3:
		return "Partly cloudy"
	case 45, 48:
		return "Fog"
	case 51, 53, 55, 56, 57:
		return "Drizzle"
	case 61, 63, 65, 66, 67:
		return "Rain"
	case 71, 73, 75, 77:
		return "Snow"
	case 80, 81, 82:
		return "Showers"
	case 95, 96, 99:
		return "Thunderstorm"
	}
	return fmt.Sprintf("Code %d", *code)
}

func buildLabel(s models.WeatherSummary) string {
	fmtVal := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return fmt.Sprintf("%s • %s-%sC • precip %smm",
		ConditionLabel(s.Code), fmtVal(s.TempMin), fmtVal(s.TempMax), fmtVal(s.PrecipitationMm))
}
