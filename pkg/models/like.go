package models

import (
	"time"
)

// LikeTarget identifies which kind of record a like points at. Exactly one
// of the three reference columns is set on any like row.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like is a toggle-able association between a user and a video, comment or
// tweet. At most one like exists per (target, liked_by) pair; the database
// enforces this with partial unique indexes.
type Like struct {
	ID        string    `json:"id" db:"id"`
	VideoID   *string   `json:"video_id,omitempty" db:"video_id"`
	CommentID *string   `json:"comment_id,omitempty" db:"comment_id"`
	TweetID   *string   `json:"tweet_id,omitempty" db:"tweet_id"`
	LikedBy   string    `json:"liked_by" db:"liked_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LikedVideo is one entry of a user's liked-videos listing.
type LikedVideo struct {
	Video   *Video    `json:"video"`
	LikedAt time.Time `json:"liked_at" db:"liked_at"`
}
