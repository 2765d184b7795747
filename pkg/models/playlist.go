package models

import (
	"time"
)

// Playlist is an ordered collection of videos curated by its owner.
// Membership is stored in playlist_videos with a position column; adding a
// video that is already present fails, as does removing one that is absent.
type Playlist struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	OwnerID     string       `json:"owner_id" db:"owner_id"`
	Owner       *UserSummary `json:"owner,omitempty"`
	Videos      []*Video     `json:"videos,omitempty"`
	VideoCount  int          `json:"video_count" db:"video_count"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// PlaylistUpdate carries the owner-mutable fields of a playlist.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// IsZero reports whether the update would change nothing.
func (u PlaylistUpdate) IsZero() bool {
	return u.Name == nil && u.Description == nil
}
