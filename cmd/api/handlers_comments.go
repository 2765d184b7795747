package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/authz"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

func (api *API) listVideoComments(c *gin.Context) {
	videoID, err := uuidParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	video, err := api.repo.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	// Comments on an unpublished video stay as hidden as the video
	if err := authz.CheckViewVideo(video, viewerID); err != nil {
		fail(c, err)
		return
	}

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	comments, total, err := api.repo.ListVideoComments(c.Request.Context(), videoID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"comments": comments,
		"meta":     pagination.NewMeta(params, total),
	}, "Comments fetched successfully")
}

func (api *API) addComment(c *gin.Context) {
	videoID, err := uuidParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, apperror.InvalidParameter("Comment content is required"))
		return
	}

	video, err := api.repo.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.CheckViewVideo(video, userID); err != nil {
		fail(c, err)
		return
	}

	comment := &models.Comment{
		Content: strings.TrimSpace(req.Content),
		VideoID: videoID,
		OwnerID: userID,
	}

	if err := api.repo.CreateComment(c.Request.Context(), comment); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, comment, "Comment added successfully")
}

func (api *API) updateComment(c *gin.Context) {
	commentID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, apperror.InvalidParameter("Comment content is required"))
		return
	}

	comment, err := api.repo.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(comment.OwnerID, userID, "comment"); err != nil {
		fail(c, err)
		return
	}

	updated, err := api.repo.UpdateComment(c.Request.Context(), commentID, strings.TrimSpace(req.Content))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "Comment updated successfully")
}

func (api *API) deleteComment(c *gin.Context) {
	commentID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	comment, err := api.repo.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(comment.OwnerID, userID, "comment"); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.DeleteComment(c.Request.Context(), commentID); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.DeleteLikesOnComment(c.Request.Context(), commentID); err != nil {
		api.logger.LogCascadeFailure("delete_comment", "delete_likes", commentID, err)
	}

	respond(c, http.StatusOK, gin.H{"commentId": commentID}, "Comment deleted successfully")
}
