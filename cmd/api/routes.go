package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streamtube/backend/internal/metrics"
	"github.com/streamtube/backend/internal/middleware"
)

func setupRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(api.logger))
	router.Use(middleware.Tracing())
	router.Use(metricsMiddleware())

	limiter := middleware.NewRateLimiter(api.cfg.RateLimit.RequestsPerSecond, api.cfg.RateLimit.Burst)
	router.Use(middleware.RateLimit(limiter))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	v1.GET("/healthcheck", api.healthCheck)

	users := v1.Group("/users")
	{
		users.POST("/register", api.registerUser)
		users.POST("/login", api.loginUser)
		users.POST("/refresh-token", api.refreshAccessToken)
		users.GET("/c/:username", middleware.OptionalAuth(), api.getChannelProfile)

		authed := users.Group("", middleware.JWTAuth())
		authed.POST("/logout", api.logoutUser)
		authed.POST("/change-password", api.changePassword)
		authed.GET("/current-user", api.getCurrentUser)
		authed.PATCH("/update-account", api.updateAccountDetails)
		authed.PATCH("/avatar", api.updateAvatar)
		authed.PATCH("/cover-image", api.updateCoverImage)
		authed.GET("/history", api.getWatchHistory)
	}

	videos := v1.Group("/videos")
	{
		videos.GET("", middleware.OptionalAuth(), api.listVideos)
		videos.GET("/:id", middleware.OptionalAuth(), api.getVideoByID)

		authed := videos.Group("", middleware.JWTAuth())
		authed.POST("", api.publishVideo)
		authed.PATCH("/:id", api.updateVideo)
		authed.DELETE("/:id", api.deleteVideo)
		authed.PATCH("/toggle/:id", api.togglePublishStatus)
	}

	comments := v1.Group("/comments")
	{
		comments.GET("/v/:videoId", middleware.OptionalAuth(), api.listVideoComments)

		authed := comments.Group("", middleware.JWTAuth())
		authed.POST("/v/:videoId", api.addComment)
		authed.PATCH("/:id", api.updateComment)
		authed.DELETE("/:id", api.deleteComment)
	}

	tweets := v1.Group("/tweets")
	{
		tweets.GET("/user/:userId", api.listUserTweets)

		authed := tweets.Group("", middleware.JWTAuth())
		authed.POST("", api.createTweet)
		authed.PATCH("/:id", api.updateTweet)
		authed.DELETE("/:id", api.deleteTweet)
	}

	likes := v1.Group("/likes", middleware.JWTAuth())
	{
		likes.POST("/toggle/videos/:id", api.toggleVideoLike)
		likes.POST("/toggle/comments/:id", api.toggleCommentLike)
		likes.POST("/toggle/tweets/:id", api.toggleTweetLike)
		likes.GET("/liked-videos", api.listLikedVideos)
	}

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.GET("/c/:channelId/subscribers", api.listChannelSubscribers)
		subscriptions.GET("/u/:subscriberId/channels", api.listSubscribedChannels)
		subscriptions.POST("/c/:channelId", middleware.JWTAuth(), api.toggleSubscription)
	}

	playlists := v1.Group("/playlists")
	{
		playlists.GET("/:id", middleware.OptionalAuth(), api.getPlaylistByID)
		playlists.GET("/user/:userId", api.listUserPlaylists)

		authed := playlists.Group("", middleware.JWTAuth())
		authed.POST("", api.createPlaylist)
		authed.PATCH("/:id", api.updatePlaylist)
		authed.DELETE("/:id", api.deletePlaylist)
		authed.POST("/:id/videos/:videoId", api.addVideoToPlaylist)
		authed.DELETE("/:id/videos/:videoId", api.removeVideoFromPlaylist)
	}

	dashboard := v1.Group("/dashboard", middleware.JWTAuth())
	{
		dashboard.GET("/stats", api.getChannelStats)
		dashboard.GET("/videos", api.listChannelVideos)
	}

	return router
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
