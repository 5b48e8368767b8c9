package playlists

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error)
	GetByID(ctx context.Context, id string) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	ListVideos(ctx context.Context, playlistID string) ([]models.Video, error)
	Update(ctx context.Context, id, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, id string) (*models.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}
