package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type playlistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) createPlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	playlist, err := s.playlists.CreatePlaylist(c.Request.Context(), currentUser(c).ID, req.Name, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "Playlist created successfully")
}

func (s *Server) listUserPlaylists(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	playlists, err := s.playlists.ListUserPlaylists(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "Playlists fetched successfully")
}

func (s *Server) getPlaylist(c *gin.Context) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	playlist, err := s.playlists.GetPlaylist(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (s *Server) updatePlaylist(c *gin.Context) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badInput(err))
		return
	}

	playlist, err := s.playlists.UpdatePlaylist(c.Request.Context(), id, currentUser(c).ID, req.Name, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist updated successfully")
}

func (s *Server) deletePlaylist(c *gin.Context) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		s.writeError(c, err)
		return
	}

	playlist, err := s.playlists.DeletePlaylist(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist deleted successfully")
}

func (s *Server) addVideoToPlaylist(c *gin.Context) {
	videoID, playlistID, err := playlistVideoIDs(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	playlist, err := s.playlists.AddVideo(c.Request.Context(), playlistID, videoID, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Video added to playlist successfully")
}

func (s *Server) removeVideoFromPlaylist(c *gin.Context) {
	videoID, playlistID, err := playlistVideoIDs(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	playlist, err := s.playlists.RemoveVideo(c.Request.Context(), playlistID, videoID, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Video removed from playlist successfully")
}

func playlistVideoIDs(c *gin.Context) (string, string, error) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		return "", "", err
	}
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		return "", "", err
	}
	return videoID, playlistID, nil
}
