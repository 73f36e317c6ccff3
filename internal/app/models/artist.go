package models

import (
	"time"

	"github.com/google/uuid"
)

// SpotifySignals is the reputation bundle pulled from Spotify.
// A nil pointer on ArtistSignals means the source never answered for this artist.
type SpotifySignals struct {
	ID         string   `json:"id,omitempty"`
	Popularity int      `json:"popularity"`
	Followers  int64    `json:"followers"`
	Genres     []string `json:"genres,omitempty"`
}

// LastfmSignals is the listener-stats bundle pulled from Last.fm.
type LastfmSignals struct {
	MBID      string   `json:"mbid,omitempty"`
	Listeners int64    `json:"listeners"`
	Playcount int64    `json:"playcount"`
	Tags      []string `json:"tags,omitempty"`
}

// ArtistSignals groups the per-source external signal bundles. Stored as a
// single jsonb column; each source is independently nullable.
type ArtistSignals struct {
	Spotify *SpotifySignals `json:"spotify,omitempty"`
	Lastfm  *LastfmSignals  `json:"lastfm,omitempty"`
}

// Artist is an ingested performer. Rows are only mutated by re-ingestion
// from the external sources, never by the scoring engine.
type Artist struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	NormalizedName string        `json:"normalizedName"`
	Genres         []string      `json:"genres"`
	Signals        ArtistSignals `json:"signals"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// SpotifyPopularity returns the Spotify popularity signal, zero when absent.
func (a *Artist) SpotifyPopularity() int {
	if a == nil || a.Signals.Spotify == nil {
		return 0
	}
	return a.Signals.Spotify.Popularity
}

// SpotifyFollowers returns the Spotify follower count, zero when absent.
func (a *Artist) SpotifyFollowers() int64 {
	if a == nil || a.Signals.Spotify == nil {
		return 0
	}
	return a.Signals.Spotify.Followers
}

// LastfmListeners returns the Last.fm listener count, zero when absent.
func (a *Artist) LastfmListeners() int64 {
	if a == nil || a.Signals.Lastfm == nil {
		return 0
	}
	return a.Signals.Lastfm.Listeners
}
