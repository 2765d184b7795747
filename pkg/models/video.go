package models

import (
	"time"
)

// Video represents an uploaded video. VideoStorageID and ThumbnailStorageID
// are the blob store object keys, kept so deletion and the publish
// compensation path can remove the underlying objects.
type Video struct {
	ID                 string       `json:"id" db:"id"`
	Title              string       `json:"title" db:"title"`
	Description        string       `json:"description" db:"description"`
	VideoURL           string       `json:"video_url" db:"video_url"`
	VideoStorageID     string       `json:"-" db:"video_storage_id"`
	ThumbnailURL       string       `json:"thumbnail_url" db:"thumbnail_url"`
	ThumbnailStorageID string       `json:"-" db:"thumbnail_storage_id"`
	Duration           float64      `json:"duration" db:"duration"`
	Views              int64        `json:"views" db:"views"`
	IsPublished        bool         `json:"is_published" db:"is_published"`
	OwnerID            string       `json:"owner_id" db:"owner_id"`
	Owner              *UserSummary `json:"owner,omitempty"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// VideoUpdate carries the owner-mutable fields of a video. Nil means
// "leave unchanged".
type VideoUpdate struct {
	Title              *string
	Description        *string
	ThumbnailURL       *string
	ThumbnailStorageID *string
}

// IsZero reports whether the update would change nothing.
func (u VideoUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil &&
		u.ThumbnailURL == nil && u.ThumbnailStorageID == nil
}
