package models

import "time"

// CleanupTask describes the residue of a deleted video. The worker
// re-runs each step; every step is idempotent so a task can be
// redelivered safely.
type CleanupTask struct {
	VideoID            string    `json:"video_id"`
	OwnerID            string    `json:"owner_id"`
	VideoStorageID     string    `json:"video_storage_id,omitempty"`
	ThumbnailStorageID string    `json:"thumbnail_storage_id,omitempty"`
	RequestedAt        time.Time `json:"requested_at"`
}
