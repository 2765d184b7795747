package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

// testRepository connects to the database named by TEST_DATABASE_URL and
// runs migrations against it. Tests that need a live database skip when
// the variable is unset so the rest of the suite stays runnable anywhere.
func testRepository(t *testing.T) (*Repository, context.Context) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := &DB{Pool: pool}
	require.NoError(t, db.Migrate(ctx))

	return NewRepository(db), ctx
}

func createTestUser(t *testing.T, ctx context.Context, repo *Repository) *models.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user := &models.User{
		Username:     "user_" + suffix,
		Email:        fmt.Sprintf("user_%s@example.com", suffix),
		FullName:     "Test User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, repo.CreateUser(ctx, user))
	return user
}

func createTestVideo(t *testing.T, ctx context.Context, repo *Repository, ownerID string) *models.Video {
	t.Helper()

	video := &models.Video{
		Title:          "Test Video",
		Description:    "A video for repository tests",
		VideoURL:       "http://storage.local/videos/test.mp4",
		VideoStorageID: "videos/" + uuid.New().String(),
		Duration:       12.5,
		IsPublished:    true,
		OwnerID:        ownerID,
	}
	require.NoError(t, repo.CreateVideo(ctx, video))
	return video
}

func TestToggleLikeAlternates(t *testing.T) {
	repo, ctx := testRepository(t)

	owner := createTestUser(t, ctx, repo)
	liker := createTestUser(t, ctx, repo)
	video := createTestVideo(t, ctx, repo, owner.ID)

	liked, err := repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repo.CountLikes(ctx, models.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err = repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, liker.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = repo.CountLikes(ctx, models.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	liked, err = repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleLikeIsPerUser(t *testing.T) {
	repo, ctx := testRepository(t)

	owner := createTestUser(t, ctx, repo)
	first := createTestUser(t, ctx, repo)
	second := createTestUser(t, ctx, repo)
	video := createTestVideo(t, ctx, repo, owner.ID)

	liked, err := repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, first.ID)
	require.NoError(t, err)
	require.True(t, liked)

	liked, err = repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, second.ID)
	require.NoError(t, err)
	require.True(t, liked)

	count, err := repo.CountLikes(ctx, models.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// One user removing their like leaves the other's intact.
	liked, err = repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = repo.CountLikes(ctx, models.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestToggleSubscriptionAlternates(t *testing.T) {
	repo, ctx := testRepository(t)

	subscriber := createTestUser(t, ctx, repo)
	channel := createTestUser(t, ctx, repo)

	subscribed, err := repo.ToggleSubscription(ctx, subscriber.ID, channel.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	count, err := repo.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	subscribed, err = repo.ToggleSubscription(ctx, subscriber.ID, channel.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	count, err = repo.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteVideoCascade(t *testing.T) {
	repo, ctx := testRepository(t)

	owner := createTestUser(t, ctx, repo)
	viewer := createTestUser(t, ctx, repo)
	video := createTestVideo(t, ctx, repo, owner.ID)

	comment := &models.Comment{
		Content: "Nice video",
		VideoID: video.ID,
		OwnerID: viewer.ID,
	}
	require.NoError(t, repo.CreateComment(ctx, comment))

	_, err := repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, viewer.ID)
	require.NoError(t, err)
	_, err = repo.ToggleLike(ctx, models.LikeTargetComment, comment.ID, owner.ID)
	require.NoError(t, err)

	playlist := &models.Playlist{
		Name:    "Cascade Test",
		OwnerID: viewer.ID,
	}
	require.NoError(t, repo.CreatePlaylist(ctx, playlist))
	require.NoError(t, repo.AddVideoToPlaylist(ctx, playlist.ID, video.ID))

	require.NoError(t, repo.AddWatchHistory(ctx, viewer.ID, video.ID))

	// The delete cascade as the handler runs it: dependents first, the
	// video row last.
	require.NoError(t, repo.DeleteLikesOnVideo(ctx, video.ID))
	require.NoError(t, repo.DeleteCommentsOnVideo(ctx, video.ID))
	require.NoError(t, repo.RemoveVideoFromAllPlaylists(ctx, video.ID))
	require.NoError(t, repo.RemoveVideoFromWatchHistories(ctx, video.ID))
	require.NoError(t, repo.DeleteVideo(ctx, video.ID))

	_, err = repo.GetVideoByID(ctx, video.ID)
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)

	videoLikes, err := repo.CountLikes(ctx, models.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), videoLikes)

	commentLikes, err := repo.CountLikes(ctx, models.LikeTargetComment, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), commentLikes)

	comments, total, err := repo.ListVideoComments(ctx, video.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, 0, total)

	got, err := repo.GetPlaylistByID(ctx, playlist.ID, viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Videos)

	history, total, err := repo.GetWatchHistory(ctx, viewer.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 0, total)
}

func TestDeleteVideoMissing(t *testing.T) {
	repo, ctx := testRepository(t)

	err := repo.DeleteVideo(ctx, uuid.New().String())
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}
