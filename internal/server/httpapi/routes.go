package httpapi

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(s.requestID(), s.recovery(), s.accessLog(), s.metrics.middleware(), s.cors())

	r.GET("/metrics", s.metrics.handler())

	api := r.Group("/api/v1")
	api.GET("/healthcheck", s.healthcheck)

	auth := s.requireAuth()
	upload := s.limitBody()

	users := api.Group("/users")
	users.POST("/register", upload, s.register)
	users.POST("/login", s.loginRateLimit(), s.login)
	users.POST("/refresh-token", s.refreshToken)
	users.POST("/logout", auth, s.logout)
	users.POST("/change-password", auth, s.changePassword)
	users.GET("/current-user", auth, s.getCurrentUser)
	users.PATCH("/update-account", auth, s.updateAccount)
	users.PATCH("/avatar", auth, upload, s.updateAvatar)
	users.PATCH("/cover-image", auth, upload, s.updateCoverImage)

	videos := api.Group("/videos")
	videos.GET("", s.listVideos)
	videos.POST("", auth, upload, s.publishVideo)
	videos.GET("/:videoId", s.getVideo)
	videos.PATCH("/:videoId", auth, upload, s.updateVideo)
	videos.DELETE("/:videoId", auth, s.deleteVideo)
	videos.PATCH("/toggle/publish/:videoId", auth, s.togglePublish)

	comments := api.Group("/comments")
	comments.GET("/:videoId", s.listComments)
	comments.POST("/:videoId", auth, s.addComment)
	comments.PATCH("/c/:commentId", auth, s.updateComment)
	comments.DELETE("/c/:commentId", auth, s.deleteComment)

	likes := api.Group("/likes", auth)
	likes.POST("/toggle/v/:videoId", s.toggleVideoLike)
	likes.POST("/toggle/c/:commentId", s.toggleCommentLike)
	likes.POST("/toggle/t/:tweetId", s.toggleTweetLike)
	likes.GET("/videos", s.likedVideos)

	playlists := api.Group("/playlist")
	playlists.POST("", auth, s.createPlaylist)
	playlists.GET("/user/:userId", s.listUserPlaylists)
	playlists.GET("/:playlistId", s.getPlaylist)
	playlists.PATCH("/:playlistId", auth, s.updatePlaylist)
	playlists.DELETE("/:playlistId", auth, s.deletePlaylist)
	playlists.PATCH("/add/:videoId/:playlistId", auth, s.addVideoToPlaylist)
	playlists.PATCH("/remove/:videoId/:playlistId", auth, s.removeVideoFromPlaylist)

	tweets := api.Group("/tweets")
	tweets.POST("", auth, s.createTweet)
	tweets.GET("/user/:userId", s.listUserTweets)
	tweets.PATCH("/:tweetId", auth, s.updateTweet)
	tweets.DELETE("/:tweetId", auth, s.deleteTweet)

	return r
}
