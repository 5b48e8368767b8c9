package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/gin-gonic/gin"
)

type listVideosQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Query    string `form:"query"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=createdAt title views duration"`
	SortType string `form:"sortType" binding:"omitempty,oneof=asc desc"`
	UserID   string `form:"userId" binding:"omitempty,uuid"`
}

type publishForm struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description" binding:"required"`
	Duration    float64 `form:"duration" binding:"omitempty,min=0"`
}

type updateVideoForm struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

func (s *Server) listVideos(c *gin.Context) {
	var q listVideosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	page, err := s.videos.ListVideos(c.Request.Context(), services.ListVideosInput{
		Page:     q.Page,
		Limit:    q.Limit,
		Query:    q.Query,
		SortBy:   q.SortBy,
		SortType: q.SortType,
		UserID:   q.UserID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, page, "Videos fetched successfully")
}

func (s *Server) publishVideo(c *gin.Context) {
	var form publishForm
	if err := c.ShouldBind(&form); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	files, err := s.stageUploads(c, "videoFile", "thumbnail")
	if err != nil {
		s.writeError(c, err)
		return
	}

	video, err := s.videos.Publish(c.Request.Context(), services.PublishVideoInput{
		OwnerID:       currentUser(c).ID,
		Title:         form.Title,
		Description:   form.Description,
		Duration:      form.Duration,
		VideoPath:     files["videoFile"],
		ThumbnailPath: files["thumbnail"],
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video published successfully")
}

func (s *Server) getVideo(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	video, err := s.videos.GetVideo(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video fetched successfully")
}

func (s *Server) updateVideo(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	var form updateVideoForm
	if err := c.ShouldBind(&form); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	files, err := s.stageUploads(c, "thumbnail")
	if err != nil {
		s.writeError(c, err)
		return
	}

	video, err := s.videos.UpdateVideo(c.Request.Context(), services.UpdateVideoInput{
		VideoID:       id,
		UserID:        currentUser(c).ID,
		Title:         form.Title,
		Description:   form.Description,
		ThumbnailPath: files["thumbnail"],
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video updated successfully")
}

func (s *Server) deleteVideo(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	video, err := s.videos.DeleteVideo(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video deleted successfully")
}

// togglePublish replies with the flag as it was before the toggle.
func (s *Server) togglePublish(c *gin.Context) {
	id, err := pathID(c, "videoId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	previous, err := s.videos.TogglePublish(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, previous, "Video published status toggled successfully")
}
