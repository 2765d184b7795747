package authz

import (
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/pkg/models"
)

// RequireOwner allows a mutation only when the requesting user owns the
// record. Callers must resolve not-found before calling this, so a missing
// record never leaks as a 403.
func RequireOwner(ownerID, userID, resource string) error {
	if ownerID != userID {
		return apperror.Forbidden("You don't have permission to modify this " + resource)
	}
	return nil
}

// CanViewVideo is the visibility rule: published videos are visible to
// everyone, unpublished ones only to their owner. userID is empty for
// anonymous requests.
func CanViewVideo(video *models.Video, userID string) bool {
	if video.IsPublished {
		return true
	}
	return userID != "" && userID == video.OwnerID
}

// CheckViewVideo returns NotFound for a video the requester may not see.
// Unpublished videos are invisible, not merely read-only, so the failure is
// indistinguishable from the video not existing.
func CheckViewVideo(video *models.Video, userID string) error {
	if !CanViewVideo(video, userID) {
		return apperror.NotFound("Video not found")
	}
	return nil
}
