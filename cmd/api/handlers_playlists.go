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

func (api *API) createPlaylist(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, apperror.InvalidParameter("Playlist name is required"))
		return
	}

	playlist := &models.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		OwnerID:     userID,
	}

	if err := api.repo.CreatePlaylist(c.Request.Context(), playlist); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, playlist, "Playlist created successfully")
}

func (api *API) getPlaylistByID(c *gin.Context) {
	playlistID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	playlist, err := api.repo.GetPlaylistByID(c.Request.Context(), playlistID, viewerID)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (api *API) listUserPlaylists(c *gin.Context) {
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

	playlists, total, err := api.repo.ListUserPlaylists(c.Request.Context(), ownerID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"playlists": playlists,
		"meta":      pagination.NewMeta(params, total),
	}, "Playlists fetched successfully")
}

func (api *API) updatePlaylist(c *gin.Context) {
	playlistID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.InvalidParameter("Invalid request body"))
		return
	}

	update := models.PlaylistUpdate{Name: req.Name, Description: req.Description}
	if update.IsZero() {
		fail(c, apperror.InvalidParameter("Nothing to update"))
		return
	}

	playlist, err := api.repo.GetPlaylistByID(c.Request.Context(), playlistID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(playlist.OwnerID, userID, "playlist"); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.UpdatePlaylist(c.Request.Context(), playlistID, &update); err != nil {
		fail(c, err)
		return
	}

	updated, err := api.repo.GetPlaylistByID(c.Request.Context(), playlistID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "Playlist updated successfully")
}

func (api *API) deletePlaylist(c *gin.Context) {
	playlistID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	playlist, err := api.repo.GetPlaylistByID(c.Request.Context(), playlistID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(playlist.OwnerID, userID, "playlist"); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.DeletePlaylist(c.Request.Context(), playlistID); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"playlistId": playlistID}, "Playlist deleted successfully")
}

func (api *API) addVideoToPlaylist(c *gin.Context) {
	playlistID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	videoID, err := uuidParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	playlist, err := api.repo.GetPlaylistByID(c.Request.Context(), playlistID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(playlist.OwnerID, userID, "playlist"); err != nil {
		fail(c, err)
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

	if err := api.repo.AddVideoToPlaylist(c.Request.Context(), playlistID, videoID); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"playlistId": playlistID, "videoId": videoID},
		"Video added to playlist successfully")
}

func (api *API) removeVideoFromPlaylist(c *gin.Context) {
	playlistID, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	videoID, err := uuidParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	playlist, err := api.repo.GetPlaylistByID(c.Request.Context(), playlistID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := authz.RequireOwner(playlist.OwnerID, userID, "playlist"); err != nil {
		fail(c, err)
		return
	}

	if err := api.repo.RemoveVideoFromPlaylist(c.Request.Context(), playlistID, videoID); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"playlistId": playlistID, "videoId": videoID},
		"Video removed from playlist successfully")
}
