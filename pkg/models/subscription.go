package models

import (
	"time"
)

// Subscription links a subscriber to a channel (another user). At most one
// row per (subscriber, channel) pair; subscribing to yourself is rejected
// before the toggle runs.
type Subscription struct {
	ID           string    `json:"id" db:"id"`
	SubscriberID string    `json:"subscriber_id" db:"subscriber_id"`
	ChannelID    string    `json:"channel_id" db:"channel_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
