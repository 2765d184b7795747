package models

import (
	"time"
)

// User represents a registered account. A user is also a channel: other
// users subscribe to it and its videos hang off owner_id.
type User struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	FullName      string    `json:"full_name" db:"full_name"`
	AvatarURL     string    `json:"avatar_url" db:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url" db:"cover_image_url"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	RefreshToken  string    `json:"-" db:"refresh_token"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the restricted projection of a user that joined queries
// expose. Credential fields never leave the users repository.
type UserSummary struct {
	ID        string `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	FullName  string `json:"full_name" db:"full_name"`
	AvatarURL string `json:"avatar_url" db:"avatar_url"`
}

// ChannelProfile is a user viewed as a channel, with subscription counts
// relative to the requesting user.
type ChannelProfile struct {
	UserSummary
	CoverImageURL   string `json:"cover_image_url" db:"cover_image_url"`
	SubscriberCount int    `json:"subscriber_count" db:"subscriber_count"`
	SubscribedTo    int    `json:"subscribed_to" db:"subscribed_to"`
	IsSubscribed    bool   `json:"is_subscribed" db:"is_subscribed"`
}

// WatchHistoryEntry is one row of a user's watch history joined with the
// watched video.
type WatchHistoryEntry struct {
	Video     *Video    `json:"video"`
	WatchedAt time.Time `json:"watched_at" db:"watched_at"`
}
