package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/authz"
	"github.com/streamtube/backend/internal/metrics"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

func (api *API) toggleVideoLike(c *gin.Context) {
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

	// An invisible video cannot be liked
	if err := authz.CheckViewVideo(video, userID); err != nil {
		fail(c, err)
		return
	}

	api.toggleLike(c, models.LikeTargetVideo, videoID, userID)
}

func (api *API) toggleCommentLike(c *gin.Context) {
	commentID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.repo.GetCommentByID(c.Request.Context(), commentID); err != nil {
		fail(c, err)
		return
	}

	api.toggleLike(c, models.LikeTargetComment, commentID, userID)
}

func (api *API) toggleTweetLike(c *gin.Context) {
	tweetID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.repo.GetTweetByID(c.Request.Context(), tweetID); err != nil {
		fail(c, err)
		return
	}

	api.toggleLike(c, models.LikeTargetTweet, tweetID, userID)
}

func (api *API) toggleLike(c *gin.Context, target models.LikeTarget, targetID, userID string) {
	active, err := api.repo.ToggleLike(c.Request.Context(), target, targetID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	metrics.RecordLikeToggle(string(target), active)

	verb := "unliked"
	if active {
		verb = "liked"
	}

	respond(c, http.StatusOK, gin.H{"liked": active},
		fmt.Sprintf("%s %s successfully", capitalize(string(target)), verb))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func (api *API) listLikedVideos(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	liked, total, err := api.repo.ListLikedVideos(c.Request.Context(), userID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"videos": liked,
		"meta":   pagination.NewMeta(params, total),
	}, "Liked videos fetched successfully")
}
