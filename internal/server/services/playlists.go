package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

type PlaylistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPlaylistService(db *sql.DB, m repomanager.RepositoryManager) *PlaylistService {
	return &PlaylistService{db: db, repomanager: m}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Name is required")
	}

	playlist, err := s.repomanager.Playlists(s.db).Create(ctx, &models.Playlist{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     userID,
	})
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while creating playlist", err)
	}
	playlist.Videos = []models.Video{}
	return playlist, nil
}

func (s *PlaylistService) ListUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	playlists, err := s.repomanager.Playlists(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while fetching playlists", err)
	}
	return playlists, nil
}

// GetPlaylist returns the playlist with its videos in insertion order.
func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	repo := s.repomanager.Playlists(s.db)

	playlist, err := repo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, playlistLookupError(err)
	}

	videos, err := repo.ListVideos(ctx, playlistID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while fetching playlist", err)
	}
	playlist.Videos = videos
	return playlist, nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, playlistID, userID, name, description string) (*models.Playlist, error) {
	if common.IsBlank(name) {
		return nil, common.NewError(common.ErrorBadRequest, "Name is required")
	}
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	playlist, err := s.repomanager.Playlists(s.db).Update(ctx, playlistID, strings.TrimSpace(name), strings.TrimSpace(description))
	if err != nil {
		return nil, playlistLookupError(err)
	}
	return playlist, nil
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, userID string) (*models.Playlist, error) {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	playlist, err := s.repomanager.Playlists(s.db).Delete(ctx, playlistID)
	if err != nil {
		return nil, playlistLookupError(err)
	}
	return playlist, nil
}

// AddVideo is idempotent: adding a video twice keeps a single entry.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID string) (*models.Playlist, error) {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Videos(s.db).GetByID(ctx, videoID); err != nil {
		return nil, videoLookupError(err)
	}

	if err := s.repomanager.Playlists(s.db).AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, playlistLookupError(err)
	}
	return s.GetPlaylist(ctx, playlistID)
}

// RemoveVideo is a no-op when the video is not in the playlist.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID string) (*models.Playlist, error) {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	if err := s.repomanager.Playlists(s.db).RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, playlistLookupError(err)
	}
	return s.GetPlaylist(ctx, playlistID)
}

func (s *PlaylistService) checkOwner(ctx context.Context, playlistID, userID string) error {
	playlist, err := s.repomanager.Playlists(s.db).GetByID(ctx, playlistID)
	if err != nil {
		return playlistLookupError(err)
	}
	return ensureOwner(playlist.OwnerID, userID, "playlist")
}

func playlistLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, "Playlist not found")
	}
	return common.WrapError(common.ErrorInternal, "Something went wrong", err)
}
