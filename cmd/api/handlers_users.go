package main

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/internal/storage"
	"github.com/streamtube/backend/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// uploadImage stores a user image (avatar or cover)
func (api *API) uploadImage(c *gin.Context, file *multipart.FileHeader, folder string) (*storage.UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, apperror.Upload("Failed to read uploaded file", err)
	}
	defer src.Close()

	result, err := api.storage.Upload(c.Request.Context(), folder, file.Filename, src, file.Size)
	if err != nil {
		return nil, apperror.Upload("Failed to store uploaded file", err)
	}

	return result, nil
}

func (api *API) registerUser(c *gin.Context) {
	username := strings.TrimSpace(strings.ToLower(c.PostForm("username")))
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
	fullName := strings.TrimSpace(c.PostForm("fullName"))
	password := c.PostForm("password")

	if username == "" || email == "" || fullName == "" || password == "" {
		fail(c, apperror.InvalidParameter("All fields are required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, apperror.Persistence("Failed to process password", err))
		return
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
	}

	var uploaded []string

	if avatar, err := c.FormFile("avatar"); err == nil {
		result, uploadErr := api.uploadImage(c, avatar, "avatars")
		if uploadErr != nil {
			fail(c, uploadErr)
			return
		}
		user.AvatarURL = result.URL
		uploaded = append(uploaded, result.StorageID)
	}

	if cover, err := c.FormFile("coverImage"); err == nil {
		result, uploadErr := api.uploadImage(c, cover, "covers")
		if uploadErr != nil {
			for _, storageID := range uploaded {
				api.deleteBlob(c, storageID, "register_user")
			}
			fail(c, uploadErr)
			return
		}
		user.CoverImageURL = result.URL
		uploaded = append(uploaded, result.StorageID)
	}

	if err := api.repo.CreateUser(c.Request.Context(), user); err != nil {
		// A rejected registration must not strand its blobs
		for _, storageID := range uploaded {
			api.deleteBlob(c, storageID, "register_user")
		}
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "User registered successfully")
}

func (api *API) loginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.InvalidParameter("Invalid request body"))
		return
	}

	login := req.Username
	if login == "" {
		login = req.Email
	}
	if login == "" || req.Password == "" {
		fail(c, apperror.InvalidParameter("Username or email and password are required"))
		return
	}

	user, err := api.repo.GetUserByLogin(c.Request.Context(), strings.ToLower(login))
	if err != nil {
		fail(c, apperror.Unauthorized("Invalid credentials"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, apperror.Unauthorized("Invalid credentials"))
		return
	}

	accessToken, refreshToken, err := api.issueTokens(c, user)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Logged in successfully")
}

// issueTokens generates an access/refresh pair, persists the refresh
// token, and sets both as httpOnly cookies.
func (api *API) issueTokens(c *gin.Context, user *models.User) (string, string, error) {
	accessToken, err := middleware.GenerateToken(user.ID, user.Username, api.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return "", "", apperror.Persistence("Failed to issue token", err)
	}

	refreshToken, err := middleware.GenerateToken(user.ID, user.Username, api.cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return "", "", apperror.Persistence("Failed to issue token", err)
	}

	if err := api.repo.UpdateRefreshToken(c.Request.Context(), user.ID, refreshToken); err != nil {
		return "", "", err
	}

	c.SetCookie(accessTokenCookie, accessToken, int(api.cfg.Auth.AccessTokenTTL.Seconds()), "/", "", false, true)
	c.SetCookie(refreshTokenCookie, refreshToken, int(api.cfg.Auth.RefreshTokenTTL.Seconds()), "/", "", false, true)

	return accessToken, refreshToken, nil
}

func (api *API) refreshAccessToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshTokenCookie)
	}
	if token == "" {
		fail(c, apperror.Unauthorized("Refresh token required"))
		return
	}

	claims, ok := middleware.ParseClaims(token)
	if !ok {
		fail(c, apperror.Unauthorized("Invalid or expired refresh token"))
		return
	}

	user, err := api.repo.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, apperror.Unauthorized("Invalid refresh token"))
		return
	}

	// Token rotation: only the most recently issued refresh token works
	if user.RefreshToken != token {
		fail(c, apperror.Unauthorized("Refresh token has been revoked"))
		return
	}

	accessToken, refreshToken, err := api.issueTokens(c, user)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Token refreshed successfully")
}

func (api *API) logoutUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := api.repo.UpdateRefreshToken(c.Request.Context(), userID, ""); err != nil {
		fail(c, err)
		return
	}

	c.SetCookie(accessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", false, true)

	respond(c, http.StatusOK, nil, "Logged out successfully")
}

func (api *API) changePassword(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		fail(c, apperror.InvalidParameter("Old and new passwords are required"))
		return
	}

	user, err := api.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		fail(c, apperror.InvalidParameter("Old password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(c, apperror.Persistence("Failed to process password", err))
		return
	}

	if err := api.repo.UpdatePassword(c.Request.Context(), userID, string(hash)); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "Password changed successfully")
}

func (api *API) getCurrentUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := api.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

func (api *API) updateAccountDetails(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.FullName == "" || req.Email == "" {
		fail(c, apperror.InvalidParameter("Full name and email are required"))
		return
	}

	user, err := api.repo.UpdateAccountDetails(c.Request.Context(), userID, req.FullName, strings.ToLower(req.Email))
	if err != nil {
		fail(c, err)
		return
	}

	api.invalidateCachedVideos(c)

	respond(c, http.StatusOK, user, "Account details updated successfully")
}

func (api *API) updateAvatar(c *gin.Context) {
	api.updateUserImage(c, "avatar", "avatars", "avatar_url")
}

func (api *API) updateCoverImage(c *gin.Context) {
	api.updateUserImage(c, "coverImage", "covers", "cover_image_url")
}

func (api *API) updateUserImage(c *gin.Context, field, folder, column string) {
	userID, _ := middleware.GetUserID(c)

	file, err := c.FormFile(field)
	if err != nil {
		fail(c, apperror.InvalidParameter("Image file is required"))
		return
	}

	result, uploadErr := api.uploadImage(c, file, folder)
	if uploadErr != nil {
		fail(c, uploadErr)
		return
	}

	user, err := api.repo.UpdateUserImage(c.Request.Context(), userID, column, result.URL)
	if err != nil {
		fail(c, err)
		return
	}

	api.invalidateCachedVideos(c)

	respond(c, http.StatusOK, user, "Image updated successfully")
}

// invalidateCachedVideos drops all cached video entries. Cached videos
// embed the owner projection, so a profile change makes every entry
// suspect; the cache is small and short-lived enough to rebuild.
func (api *API) invalidateCachedVideos(c *gin.Context) {
	if err := api.cache.DeletePattern(c.Request.Context(), "video:*"); err != nil {
		api.logger.WithError(err).Warn("Failed to invalidate video cache")
	}
}

func (api *API) getChannelProfile(c *gin.Context) {
	username := strings.ToLower(c.Param("username"))
	viewerID, _ := middleware.GetUserID(c)

	profile, err := api.repo.GetChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "Channel profile fetched successfully")
}

func (api *API) getWatchHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, err)
		return
	}

	entries, total, err := api.repo.GetWatchHistory(c.Request.Context(), userID, params)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"history": entries,
		"meta":    pagination.NewMeta(params, total),
	}, "Watch history fetched successfully")
}
