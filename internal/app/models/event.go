package models

import (
	"time"

	"github.com/google/uuid"
)

// EventImage is promotional image metadata carried over from the ticketing source.
type EventImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is a concert ingested from the ticketing source. The date is a plain
// local calendar day (YYYY-MM-DD); performer names are matched by normalized
// name, not by foreign key. Immutable to the scoring engine.
type Event struct {
	ID            uuid.UUID    `json:"id"`
	TMID          string       `json:"tmId"`
	Name          string       `json:"name"`
	URL           string       `json:"url,omitempty"`
	Date          string       `json:"date"`
	LocalDateTime string       `json:"localDateTime,omitempty"`
	City          string       `json:"city,omitempty"`
	CountryCode   string       `json:"countryCode,omitempty"`
	Venue         string       `json:"venue,omitempty"`
	Artists       []string     `json:"artists"`
	Images        []EventImage `json:"images,omitempty"`
	Location      *GeoPoint    `json:"location,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	Artist   string
	City     string
	DateFrom string
	DateTo   string
	Limit    int
}
