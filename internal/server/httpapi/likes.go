package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) toggleVideoLike(c *gin.Context) {
	s.toggleLike(c, models.LikeTargetVideo, "videoId")
}

func (s *Server) toggleCommentLike(c *gin.Context) {
	s.toggleLike(c, models.LikeTargetComment, "commentId")
}

func (s *Server) toggleTweetLike(c *gin.Context) {
	s.toggleLike(c, models.LikeTargetTweet, "tweetId")
}

func (s *Server) toggleLike(c *gin.Context, target models.LikeTarget, param string) {
	id, err := pathID(c, param)
	if err != nil {
		s.writeError(c, err)
		return
	}

	liked, err := s.likes.Toggle(c.Request.Context(), target, id, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	msg := "Like removed successfully"
	if liked {
		msg = "Liked successfully"
	}
	respond(c, http.StatusOK, gin.H{"isLiked": liked}, msg)
}

func (s *Server) likedVideos(c *gin.Context) {
	videos, err := s.likes.LikedVideos(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "Liked videos fetched successfully")
}
