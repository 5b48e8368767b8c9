package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) createTweet(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	tweet, err := s.tweets.CreateTweet(c.Request.Context(), currentUser(c).ID, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "Tweet created successfully")
}

func (s *Server) listUserTweets(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	tweets, err := s.tweets.ListUserTweets(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

func (s *Server) updateTweet(c *gin.Context) {
	id, err := pathID(c, "tweetId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	tweet, err := s.tweets.UpdateTweet(c.Request.Context(), id, currentUser(c).ID, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "Tweet updated successfully")
}

func (s *Server) deleteTweet(c *gin.Context) {
	id, err := pathID(c, "tweetId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	tweet, err := s.tweets.DeleteTweet(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "Tweet deleted successfully")
}
