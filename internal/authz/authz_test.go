package authz

import (
	"errors"
	"net/http"
	"testing"

	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner("user-a", "user-a", "video"))

	err := RequireOwner("user-a", "user-b", "video")
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.Status())
}

func TestCanViewVideo(t *testing.T) {
	published := &models.Video{OwnerID: "user-a", IsPublished: true}
	unpublished := &models.Video{OwnerID: "user-a", IsPublished: false}

	tests := []struct {
		name   string
		video  *models.Video
		userID string
		want   bool
	}{
		{"published visible to anonymous", published, "", true},
		{"published visible to stranger", published, "user-b", true},
		{"published visible to owner", published, "user-a", true},
		{"unpublished hidden from anonymous", unpublished, "", false},
		{"unpublished hidden from stranger", unpublished, "user-b", false},
		{"unpublished visible to owner", unpublished, "user-a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewVideo(tt.video, tt.userID))
		})
	}
}

func TestCheckViewVideoHidesAsNotFound(t *testing.T) {
	unpublished := &models.Video{OwnerID: "user-a", IsPublished: false}

	err := CheckViewVideo(unpublished, "user-b")
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	// invisible, not merely forbidden
	assert.Equal(t, http.StatusNotFound, appErr.Status())
}
