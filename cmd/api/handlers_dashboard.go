package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/database"
	"github.com/streamtube/backend/internal/metrics"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

const topVideosLimit = 5

// getChannelStats aggregates the owner's channel numbers. The queries
// run sequentially; each is cheap and the result is cached.
func (api *API) getChannelStats(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()

	if cached, err := api.cache.GetChannelStats(ctx, userID); err == nil && cached != nil {
		metrics.RecordCacheAccess("channel_stats", true)
		respond(c, http.StatusOK, cached, "Channel stats fetched successfully")
		return
	}
	metrics.RecordCacheAccess("channel_stats", false)

	subscribers, err := api.repo.CountSubscribers(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	totalVideos, totalViews, err := api.repo.GetVideoStats(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	totalLikes, err := api.repo.CountLikesOnOwnedVideos(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	monthly, err := api.repo.GetMonthlyVideoCounts(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	top, err := api.repo.GetTopVideos(ctx, userID, topVideosLimit)
	if err != nil {
		fail(c, err)
		return
	}

	stats := &models.ChannelStats{
		TotalSubscribers: subscribers,
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalLikes:       totalLikes,
		VideosByMonth:    monthly,
		TopVideos:        top,
	}

	if err := api.cache.SetChannelStats(ctx, userID, stats, api.cfg.Redis.StatsTTL); err != nil {
		api.logger.WithError(err).Warn("Failed to cache channel stats")
	}

	respond(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

// listChannelVideos returns the owner's videos including unpublished
// ones, which the public listing would hide
func (api *API) listChannelVideos(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	opts := database.ListVideosOptions{
		OwnerID:  userID,
		ViewerID: userID,
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
	}, "Channel videos fetched successfully")
}
