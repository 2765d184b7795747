package models

import (
	"time"
)

// MaxTweetLength is the hard limit on tweet content, enforced at creation
// and update before anything is persisted.
const MaxTweetLength = 280

// Tweet is a short text post by a user.
type Tweet struct {
	ID        string       `json:"id" db:"id"`
	Content   string       `json:"content" db:"content"`
	OwnerID   string       `json:"owner_id" db:"owner_id"`
	Owner     *UserSummary `json:"owner,omitempty"`
	LikeCount int          `json:"like_count" db:"like_count"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
