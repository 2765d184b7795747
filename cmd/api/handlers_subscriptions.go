package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/metrics"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
)

func (api *API) toggleSubscription(c *gin.Context) {
	channelID, err := uuidParam(c, "channelId")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	// Self-subscription check runs before anything touches the store
	if channelID == userID {
		fail(c, apperror.InvalidParameter("You cannot subscribe to your own channel"))
		return
	}

	if _, err := api.repo.GetUserByID(c.Request.Context(), channelID); err != nil {
		fail(c, err)
		return
	}

	active, err := api.repo.ToggleSubscription(c.Request.Context(), userID, channelID)
	if err != nil {
		fail(c, err)
		return
	}

	metrics.RecordSubscriptionToggle(active)

	// Stats cache for the channel is now stale
	if err := api.cache.DeleteChannelStats(c.Request.Context(), channelID); err != nil {
		api.logger.WithError(err).Warn("Failed to invalidate channel stats cache")
	}

	message := "Unsubscribed successfully"
	if active {
		message = "Subscribed successfully"
	}

	respond(c, http.StatusOK, gin.H{"subscribed": active}, message)
}

func (api *API) listChannelSubscribers(c *gin.Context) {
	channelID, err := uuidParam(c, "channelId")
	if err != nil {
		fail(c, err)
		return
	}

	if _, err := api.repo.GetUserByID(c.Request.Context(), channelID); err != nil {
		fail(c, err)
		return
	}

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	subscribers, total, err := api.repo.ListChannelSubscribers(c.Request.Context(), channelID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"subscribers": subscribers,
		"meta":        pagination.NewMeta(params, total),
	}, "Subscribers fetched successfully")
}

func (api *API) listSubscribedChannels(c *gin.Context) {
	subscriberID, err := uuidParam(c, "subscriberId")
	if err != nil {
		fail(c, err)
		return
	}

	if _, err := api.repo.GetUserByID(c.Request.Context(), subscriberID); err != nil {
		fail(c, err)
		return
	}

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	channels, total, err := api.repo.ListSubscribedChannels(c.Request.Context(), subscriberID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"channels": channels,
		"meta":     pagination.NewMeta(params, total),
	}, "Subscribed channels fetched successfully")
}
