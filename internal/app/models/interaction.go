package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionType enumerates the recorded in-app behavioral signals.
type InteractionType string

const (
	InteractionFavoriteArtist InteractionType = "favorite_artist"
	InteractionSaveEvent      InteractionType = "save_event"
	InteractionViewEvent      InteractionType = "view_event"
)

// TargetType enumerates what an interaction or comment points at.
type TargetType string

const (
	TargetArtist TargetType = "artist"
	TargetEvent  TargetType = "event"
)

// Valid reports whether the interaction type is one of the known signals.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionFavoriteArtist, InteractionSaveEvent, InteractionViewEvent:
		return true
	}
	return false
}

// Valid reports whether the target type is known.
func (t TargetType) Valid() bool {
	return t == TargetArtist || t == TargetEvent
}

// Interaction is one append-only behavioral record. The scoring engine only
// ever counts and reads these, it never updates or deletes them.
type Interaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     string          `json:"userId"`
	Type       InteractionType `json:"type"`
	TargetType TargetType      `json:"targetType"`
	TargetID   uuid.UUID       `json:"targetId"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// UserLikes pairs a user with the set of artist ids they favorited. Used by
// the collaborative-filtering pass.
type UserLikes struct {
	UserID    string      `json:"userId"`
	ArtistIDs []uuid.UUID `json:"artistIds"`
}
