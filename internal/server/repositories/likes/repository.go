package likes

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

type Repository interface {
	Find(ctx context.Context, target models.LikeTarget, targetID, userID string) (*models.Like, error)
	Create(ctx context.Context, target models.LikeTarget, targetID, userID string) (*models.Like, error)
	Delete(ctx context.Context, id string) error
	ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}
