package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobStore stands in for the object store. failFolder makes the
// upload for that folder fail; Delete records what was removed.
type fakeBlobStore struct {
	failFolder string
	uploads    int
	deleted    []string
}

func (f *fakeBlobStore) Upload(_ context.Context, folder, filename string, _ io.Reader, _ int64) (*storage.UploadResult, error) {
	if folder == f.failFolder {
		return nil, errors.New("store unavailable")
	}
	f.uploads++
	storageID := fmt.Sprintf("%s/object-%d", folder, f.uploads)
	return &storage.UploadResult{URL: "http://blobs/" + storageID, StorageID: storageID}, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	return nil
}

// multipartRequest builds a multipart body from fields and small named
// files, each one keyed by form field name.
func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEnvelopeShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respond(c, http.StatusCreated, gin.H{"id": "abc"}, "Created")

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, "Created", env.Message)
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", apperror.NotFound("Video not found"), http.StatusNotFound},
		{"forbidden", apperror.Forbidden("You do not own this video"), http.StatusForbidden},
		{"conflict maps to 400", apperror.Conflict("Video is already in the playlist"), http.StatusBadRequest},
		{"unknown error hides internals", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			fail(c, tt.err)

			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.wantStatus, env.StatusCode)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			assert.Nil(t, env.Data)
			assert.NotContains(t, env.Message, assert.AnError.Error())
		})
	}
}

// Tweet length is rejected before any dependency is touched; the nil
// repo proves persistence was never reached.
func TestCreateTweetRejectsOversizedContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.AuthContextKey, "user-1")
	c.Request = jsonRequest(t, "POST", "/api/v1/tweets", gin.H{
		"content": strings.Repeat("a", 281),
	})

	api.createTweet(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Contains(t, env.Message, "280")
}

func TestCreateTweetRejectsEmptyContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.AuthContextKey, "user-1")
	c.Request = jsonRequest(t, "POST", "/api/v1/tweets", gin.H{"content": "   "})

	api.createTweet(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}

func TestValidateTweetContentBoundary(t *testing.T) {
	// 280 runes pass, 281 fail, multibyte counted as runes not bytes
	ok, err := validateTweetContent(strings.Repeat("a", 280))
	assert.NoError(t, err)
	assert.Len(t, ok, 280)

	_, err = validateTweetContent(strings.Repeat("a", 281))
	assert.Error(t, err)

	_, err = validateTweetContent(strings.Repeat("é", 280))
	assert.NoError(t, err)
}

func TestToggleSubscriptionRejectsSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}

	selfID := uuid.New().String()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.AuthContextKey, selfID)
	c.Params = gin.Params{{Key: "channelId", Value: selfID}}
	c.Request = httptest.NewRequest("POST", "/api/v1/subscriptions/c/"+selfID, nil)

	api.toggleSubscription(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Contains(t, env.Message, "own channel")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Video", capitalize("video"))
	assert.Equal(t, "Comment", capitalize("comment"))
	assert.Equal(t, "Tweet", capitalize("tweet"))
	assert.Equal(t, "", capitalize(""))
}

// Malformed ids are rejected at the handler boundary. The nil repo and
// cache prove no dependency was touched on the way to the 400.
func TestMalformedIDRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}

	tests := []struct {
		name    string
		param   string
		handler gin.HandlerFunc
	}{
		{"get video", "id", api.getVideoByID},
		{"delete video", "id", api.deleteVideo},
		{"toggle video like", "id", api.toggleVideoLike},
		{"toggle comment like", "id", api.toggleCommentLike},
		{"list video comments", "videoId", api.listVideoComments},
		{"list user tweets", "userId", api.listUserTweets},
		{"toggle subscription", "channelId", api.toggleSubscription},
		{"get playlist", "id", api.getPlaylistByID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set(middleware.AuthContextKey, uuid.New().String())
			c.Params = gin.Params{{Key: tt.param, Value: "not-a-uuid"}}
			c.Request = httptest.NewRequest("GET", "/", nil)

			tt.handler(c)

			env := decodeEnvelope(t, w)
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
			assert.Contains(t, env.Message, "Invalid")
		})
	}
}

func TestListVideosRejectsMalformedOwnerFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/videos?userId=not-a-uuid", nil)

	api.listVideos(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}

func TestPublishVideoRejectsInvalidDuration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.AuthContextKey, uuid.New().String())
	c.Request = multipartRequest(t, "/api/v1/videos",
		map[string]string{"title": "My video", "duration": "abc"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.jpg"})

	api.publishVideo(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Contains(t, env.Message, "duration")
}

// A failed thumbnail upload must remove the already-stored media blob.
// The nil repo proves the record was never persisted.
func TestPublishVideoCompensatesOnThumbnailFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeBlobStore{failFolder: "thumbnails"}
	api := &API{storage: store}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.AuthContextKey, uuid.New().String())
	c.Request = multipartRequest(t, "/api/v1/videos",
		map[string]string{"title": "My video", "duration": "12.5"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.jpg"})

	api.publishVideo(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	require.Len(t, store.deleted, 1)
	assert.Contains(t, store.deleted[0], "videos/")
}

// A registration that fails after the avatar was stored must remove
// the avatar blob again.
func TestRegisterUserDiscardsBlobsOnUploadFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeBlobStore{failFolder: "covers"}
	api := &API{storage: store}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/users/register",
		map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"fullName": "Alice",
			"password": "secret",
		},
		map[string]string{"avatar": "me.png", "coverImage": "banner.png"})

	api.registerUser(c)

	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	require.Len(t, store.deleted, 1)
	assert.Contains(t, store.deleted[0], "avatars/")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	middleware.SetJWTSecret("test-secret")

	handler := middleware.JWTAuth()

	protected := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/videos"},
		{"POST", "/api/v1/likes/toggle/videos/abc"},
		{"GET", "/api/v1/dashboard/stats"},
		{"POST", "/api/v1/playlists"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(route.method, route.path, nil)

			handler(c)

			assert.True(t, c.IsAborted())
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
