package models

import "time"

// UserProfile is the declared-preference record for one user. Identity
// resolution happens outside this service; the user id is whatever the
// auth layer hands us.
type UserProfile struct {
	UserID              string    `json:"userId"`
	City                string    `json:"city,omitempty"`
	FavoriteArtists     []string  `json:"favoriteArtists"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// UpdateProfileRequest carries the mutable profile fields. Nil means
// "leave unchanged".
type UpdateProfileRequest struct {
	City                *string  `json:"city,omitempty"`
	FavoriteArtists     []string `json:"favoriteArtists,omitempty"`
	OnboardingCompleted *bool    `json:"onboardingCompleted,omitempty"`
}
