package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user note attached to an artist or event.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	UserID     string     `json:"userId"`
	UserName   string     `json:"userName,omitempty"`
	TargetType TargetType `json:"targetType"`
	TargetID   uuid.UUID  `json:"targetId"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Follow links a follower to a followee. Both ids come from the external
// identity layer.
type Follow struct {
	FollowerID string    `json:"followerId"`
	FolloweeID string    `json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FollowStats summarizes a user's follow graph position.
type FollowStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
