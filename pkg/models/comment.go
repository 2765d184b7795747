package models

import (
	"time"
)

// Comment is a comment on a video.
type Comment struct {
	ID        string       `json:"id" db:"id"`
	Content   string       `json:"content" db:"content"`
	VideoID   string       `json:"video_id" db:"video_id"`
	OwnerID   string       `json:"owner_id" db:"owner_id"`
	Owner     *UserSummary `json:"owner,omitempty"`
	LikeCount int          `json:"like_count" db:"like_count"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
