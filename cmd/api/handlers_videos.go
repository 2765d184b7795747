package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/authz"
	"github.com/streamtube/backend/internal/database"
	"github.com/streamtube/backend/internal/metrics"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

func (api *API) listVideos(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	ownerID, err := uuidQuery(c, "userId")
	if err != nil {
		fail(c, err)
		return
	}

	opts := database.ListVideosOptions{
		Query:    c.Query("query"),
		OwnerID:  ownerID,
		ViewerID: viewerID,
		Sort:     pagination.ParseSort(c.Query("sortBy"), c.Query("sortType")),
		Page:     params,
	}

	videos, total, err := api.repo.ListVideos(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"videos": videos,
		"meta":   pagination.NewMeta(params, total),
	}, "Videos fetched successfully")
}

// publishVideo uploads media then thumbnail then inserts the record.
// Each later failure compensates by deleting the blobs already stored;
// a failed compensation only gets logged.
func (api *API) publishVideo(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	title := c.PostForm("title")
	if title == "" {
		fail(c, apperror.InvalidParameter("Title is required"))
		return
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		fail(c, apperror.InvalidParameter("Video file is required"))
		return
	}

	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		fail(c, apperror.InvalidParameter("Thumbnail is required"))
		return
	}

	duration, err := strconv.ParseFloat(c.PostForm("duration"), 64)
	if err != nil || duration < 0 {
		fail(c, apperror.InvalidParameter("A valid duration is required"))
		return
	}

	videoSrc, err := videoFile.Open()
	if err != nil {
		fail(c, apperror.Upload("Failed to read video file", err))
		return
	}
	defer videoSrc.Close()

	videoResult, err := api.storage.Upload(c.Request.Context(), "videos", videoFile.Filename, videoSrc, videoFile.Size)
	if err != nil {
		fail(c, apperror.Upload("Failed to upload video", err))
		return
	}

	thumbSrc, err := thumbnailFile.Open()
	if err != nil {
		api.deleteBlob(c, videoResult.StorageID, "publish_video")
		fail(c, apperror.Upload("Failed to read thumbnail", err))
		return
	}
	defer thumbSrc.Close()

	thumbResult, err := api.storage.Upload(c.Request.Context(), "thumbnails", thumbnailFile.Filename, thumbSrc, thumbnailFile.Size)
	if err != nil {
		api.deleteBlob(c, videoResult.StorageID, "publish_video")
		fail(c, apperror.Upload("Failed to upload thumbnail", err))
		return
	}

	video := &models.Video{
		Title:              title,
		Description:        c.PostForm("description"),
		VideoURL:           videoResult.URL,
		VideoStorageID:     videoResult.StorageID,
		ThumbnailURL:       thumbResult.URL,
		ThumbnailStorageID: thumbResult.StorageID,
		Duration:           duration,
		IsPublished:        true,
		OwnerID:            userID,
	}

	if err := api.repo.CreateVideo(c.Request.Context(), video); err != nil {
		api.deleteBlob(c, videoResult.StorageID, "publish_video")
		api.deleteBlob(c, thumbResult.StorageID, "publish_video")
		fail(c, err)
		return
	}

	metrics.RecordVideoUpload(videoFile.Size)

	respond(c, http.StatusCreated, video, "Video published successfully")
}

// deleteBlob is the compensation/cleanup path for stored objects
func (api *API) deleteBlob(c *gin.Context, storageID, primaryOp string) {
	if storageID == "" {
		return
	}
	if err := api.storage.Delete(c.Request.Context(), storageID); err != nil {
		api.logger.LogCascadeFailure(primaryOp, "delete_blob", storageID, err)
	}
}

func (api *API) getVideoByID(c *gin.Context) {
	videoID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	// Cache only ever holds published videos, so a hit skips the guard
	if cached, err := api.cache.GetVideo(c.Request.Context(), videoID); err == nil && cached != nil {
		metrics.RecordCacheAccess("video", true)
		api.recordView(c, cached, viewerID)
		respond(c, http.StatusOK, cached, "Video fetched successfully")
		return
	}
	metrics.RecordCacheAccess("video", false)

	video, err := api.repo.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.CheckViewVideo(video, viewerID); err != nil {
		fail(c, err)
		return
	}

	if video.IsPublished {
		if err := api.cache.SetVideo(c.Request.Context(), video, api.cfg.Redis.VideoTTL); err != nil {
			api.logger.WithError(err).Warn("Failed to cache video")
		}
	}

	api.recordView(c, video, viewerID)

	respond(c, http.StatusOK, video, "Video fetched successfully")
}

// recordView bumps the view counter and the viewer's watch history.
// Owners replaying their own upload do not count as views.
func (api *API) recordView(c *gin.Context, video *models.Video, viewerID string) {
	if viewerID == "" || viewerID == video.OwnerID {
		return
	}

	if err := api.repo.IncrementViews(c.Request.Context(), video.ID); err != nil {
		api.logger.WithVideoID(video.ID).WithError(err).Warn("Failed to increment views")
	} else {
		metrics.VideoViewsTotal.Inc()
	}

	if err := api.repo.AddWatchHistory(c.Request.Context(), viewerID, video.ID); err != nil {
		api.logger.WithVideoID(video.ID).WithError(err).Warn("Failed to record watch history")
	}
}

func (api *API) updateVideo(c *gin.Context) {
	videoID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	video, err := api.repo.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(video.OwnerID, userID, "video"); err != nil {
		fail(c, err)
		return
	}

	var update models.VideoUpdate

	if title := c.PostForm("title"); title != "" {
		update.Title = &title
	}
	if description := c.PostForm("description"); description != "" {
		update.Description = &description
	}

	if thumbnail, err := c.FormFile("thumbnail"); err == nil {
		src, err := thumbnail.Open()
		if err != nil {
			fail(c, apperror.Upload("Failed to read thumbnail", err))
			return
		}
		defer src.Close()

		result, err := api.storage.Upload(c.Request.Context(), "thumbnails", thumbnail.Filename, src, thumbnail.Size)
		if err != nil {
			fail(c, apperror.Upload("Failed to upload thumbnail", err))
			return
		}

		update.ThumbnailURL = &result.URL
		update.ThumbnailStorageID = &result.StorageID
	}

	if update.IsZero() {
		fail(c, apperror.InvalidParameter("Nothing to update"))
		return
	}

	oldThumbnailStorageID := video.ThumbnailStorageID

	updated, err := api.repo.UpdateVideo(c.Request.Context(), videoID, update)
	if err != nil {
		if update.ThumbnailStorageID != nil {
			api.deleteBlob(c, *update.ThumbnailStorageID, "update_video")
		}
		fail(c, err)
		return
	}

	// Replaced thumbnail's blob is now orphaned
	if update.ThumbnailStorageID != nil && oldThumbnailStorageID != "" {
		api.deleteBlob(c, oldThumbnailStorageID, "update_video")
	}

	if err := api.cache.DeleteVideo(c.Request.Context(), videoID); err != nil {
		api.logger.WithVideoID(videoID).WithError(err).Warn("Failed to invalidate video cache")
	}

	respond(c, http.StatusOK, updated, "Video updated successfully")
}

func (api *API) togglePublishStatus(c *gin.Context) {
	videoID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	video, err := api.repo.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(video.OwnerID, userID, "video"); err != nil {
		fail(c, err)
		return
	}

	toggled, err := api.repo.TogglePublish(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := api.cache.DeleteVideo(c.Request.Context(), videoID); err != nil {
		api.logger.WithVideoID(videoID).WithError(err).Warn("Failed to invalidate video cache")
	}

	respond(c, http.StatusOK, toggled, "Publish status toggled successfully")
}

// deleteVideo removes the record, then best-effort cleans up blobs,
// likes, comments, playlist entries and watch history. A cleanup task
// goes to the worker so a crash mid-cascade still converges.
func (api *API) deleteVideo(c *gin.Context) {
	videoID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	video, err := api.repo.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(video.OwnerID, userID, "video"); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.DeleteVideo(c.Request.Context(), videoID); err != nil {
		fail(c, err)
		return
	}

	api.deleteBlob(c, video.VideoStorageID, "delete_video")
	api.deleteBlob(c, video.ThumbnailStorageID, "delete_video")

	ctx := c.Request.Context()
	if err := api.repo.DeleteLikesOnVideo(ctx, videoID); err != nil {
		api.logger.LogCascadeFailure("delete_video", "delete_likes", videoID, err)
	}
	if err := api.repo.DeleteCommentsOnVideo(ctx, videoID); err != nil {
		api.logger.LogCascadeFailure("delete_video", "delete_comments", videoID, err)
	}
	if err := api.repo.RemoveVideoFromAllPlaylists(ctx, videoID); err != nil {
		api.logger.LogCascadeFailure("delete_video", "remove_from_playlists", videoID, err)
	}
	if err := api.repo.RemoveVideoFromWatchHistories(ctx, videoID); err != nil {
		api.logger.LogCascadeFailure("delete_video", "prune_watch_history", videoID, err)
	}

	if err := api.cache.DeleteVideo(ctx, videoID); err != nil {
		api.logger.WithVideoID(videoID).WithError(err).Warn("Failed to invalidate video cache")
	}

	task := &models.CleanupTask{
		VideoID:            videoID,
		OwnerID:            video.OwnerID,
		VideoStorageID:     video.VideoStorageID,
		ThumbnailStorageID: video.ThumbnailStorageID,
		RequestedAt:        time.Now(),
	}
	if err := api.queue.PublishCleanupTask(ctx, task); err != nil {
		api.logger.LogCascadeFailure("delete_video", "publish_cleanup_task", videoID, err)
	}

	respond(c, http.StatusOK, gin.H{"videoId": videoID}, "Video deleted successfully")
}
