package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) listComments(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	page, err := s.comments.ListComments(c.Request.Context(), videoID, q.Page, q.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, page, "Comments fetched successfully")
}

func (s *Server) addComment(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	comment, err := s.comments.AddComment(c.Request.Context(), videoID, currentUser(c).ID, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "Comment added successfully")
}

func (s *Server) updateComment(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	comment, err := s.comments.UpdateComment(c.Request.Context(), commentID, currentUser(c).ID, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "Comment updated successfully")
}

func (s *Server) deleteComment(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	comment, err := s.comments.DeleteComment(c.Request.Context(), commentID, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "Comment deleted successfully")
}
