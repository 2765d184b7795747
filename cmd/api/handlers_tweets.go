package main

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/authz"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

// validateTweetContent enforces the length limit before anything is
// persisted. Counted in runes, not bytes.
func validateTweetContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperror.InvalidParameter("Tweet content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxTweetLength {
		return "", apperror.InvalidParameter(
			fmt.Sprintf("Tweet content must not exceed %d characters", models.MaxTweetLength))
	}
	return content, nil
}

func (api *API) createTweet(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.InvalidParameter("Invalid request body"))
		return
	}

	content, err := validateTweetContent(req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	tweet := &models.Tweet{
		Content: content,
		OwnerID: userID,
	}

	if err := api.repo.CreateTweet(c.Request.Context(), tweet); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, tweet, "Tweet created successfully")
}

func (api *API) listUserTweets(c *gin.Context) {
	ownerID, err := uuidParam(c, "userId")
	if err != nil {
		fail(c, err)
		return
	}

	if _, err := api.repo.GetUserByID(c.Request.Context(), ownerID); err != nil {
		fail(c, err)
		return
	}

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	tweets, total, err := api.repo.ListUserTweets(c.Request.Context(), ownerID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"tweets": tweets,
		"meta":   pagination.NewMeta(params, total),
	}, "Tweets fetched successfully")
}

func (api *API) updateTweet(c *gin.Context) {
	tweetID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.InvalidParameter("Invalid request body"))
		return
	}

	content, err := validateTweetContent(req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	tweet, err := api.repo.GetTweetByID(c.Request.Context(), tweetID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(tweet.OwnerID, userID, "tweet"); err != nil {
		fail(c, err)
		return
	}

	updated, err := api.repo.UpdateTweet(c.Request.Context(), tweetID, content)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "Tweet updated successfully")
}

func (api *API) deleteTweet(c *gin.Context) {
	tweetID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	tweet, err := api.repo.GetTweetByID(c.Request.Context(), tweetID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(tweet.OwnerID, userID, "tweet"); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.DeleteTweet(c.Request.Context(), tweetID); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.DeleteLikesOnTweet(c.Request.Context(), tweetID); err != nil {
		api.logger.LogCascadeFailure("delete_tweet", "delete_likes", tweetID, err)
	}

	respond(c, http.StatusOK, gin.H{"tweetId": tweetID}, "Tweet deleted successfully")
}
