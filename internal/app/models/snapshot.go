package models

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotScope selects what a popularity snapshot ranks.
type SnapshotScope string

const (
	ScopeArtist SnapshotScope = "artist"
	ScopeEvent  SnapshotScope = "event"
)

// Valid reports whether the scope is a known enum value.
func (s SnapshotScope) Valid() bool {
	return s == ScopeArtist || s == ScopeEvent
}

// SnapshotPeriod selects the calendar partition of a popularity snapshot.
type SnapshotPeriod string

const (
	PeriodDay   SnapshotPeriod = "day"
	PeriodMonth SnapshotPeriod = "month"
	PeriodYear  SnapshotPeriod = "year"
)

// Valid reports whether the period is a known enum value.
func (p SnapshotPeriod) Valid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// ScoreFactor tags one contribution inside a recommendation score breakdown.
type ScoreFactor string

const (
	FactorFavoriteArtist   ScoreFactor = "favorite_artist"
	FactorGenreMatch       ScoreFactor = "genre_match"
	FactorArtistPopularity ScoreFactor = "artist_popularity"
	FactorSimilarUsers     ScoreFactor = "similar_users"
	FactorCollaborative    ScoreFactor = "collaborative"
	FactorRecency          ScoreFactor = "recency"
	FactorContent          ScoreFactor = "content"
	FactorTrending         ScoreFactor = "trending"
)

// ScoreBreakdown is one explainable slice of an item's total score.
type ScoreBreakdown struct {
	Factor     ScoreFactor `json:"factor"`
	Points     int         `json:"points"`
	Percentage int         `json:"percentage"`
}

// WeatherSummary is the daily forecast attached to a recommended event.
type WeatherSummary struct {
	Date            string   `json:"date"`
	TempMin         *float64 `json:"tempMin,omitempty"`
	TempMax         *float64 `json:"tempMax,omitempty"`
	PrecipitationMm *float64 `json:"precipitationMm,omitempty"`
	Code            *int     `json:"code,omitempty"`
	Label           string   `json:"label"`
}

// RankedItemMeta carries the display and explainability payload of a ranked
// item. Kept as a typed struct rather than an open map so the breakdown
// format stays fixed.
type RankedItemMeta struct {
	Date      string           `json:"date,omitempty"`
	City      string           `json:"city,omitempty"`
	URL       string           `json:"url,omitempty"`
	Venue     string           `json:"venue,omitempty"`
	Artists   []string         `json:"artists,omitempty"`
	Reasons   []string         `json:"reasons,omitempty"`
	Breakdown []ScoreBreakdown `json:"breakdown,omitempty"`
	Weather   *WeatherSummary  `json:"weather,omitempty"`
}

// RankedItem is one scored entry of a snapshot.
type RankedItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Score float64         `json:"score"`
	Meta  *RankedItemMeta `json:"meta,omitempty"`
}

// PopularitySnapshot is the globally-shared ranking for one
// (scope, period, periodKey) tuple. The full ranked list is persisted,
// pages are cut at read time.
type PopularitySnapshot struct {
	ID          uuid.UUID      `json:"id"`
	Scope       SnapshotScope  `json:"scope"`
	Period      SnapshotPeriod `json:"period"`
	PeriodKey   string         `json:"periodKey"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Items       []RankedItem   `json:"items"`
}

// PopularityPage is the caller-facing slice of a popularity snapshot.
type PopularityPage struct {
	PeriodKey   string       `json:"periodKey"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Items       []RankedItem `json:"items"`
}

// RecommendationSnapshot is the single stored recommendation result per
// user, overwritten on every computation.
type RecommendationSnapshot struct {
	UserID      string       `json:"userId"`
	GeneratedAt time.Time    `json:"generatedAt"`
	HorizonDays int          `json:"horizonDays"`
	City        string       `json:"city,omitempty"`
	Items       []RankedItem `json:"items"`
}

// RecommendationResult is what a computation returns to the caller.
type RecommendationResult struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Items       []RankedItem `json:"items"`
	IsColdStart bool         `json:"isColdStart"`
}
