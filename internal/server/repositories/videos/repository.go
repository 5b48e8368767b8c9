package videos

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, filter models.VideoFilter) ([]models.Video, int64, error)
	Update(ctx context.Context, video *models.Video) (*models.Video, error)
	Delete(ctx context.Context, id string) (*models.Video, error)
	TogglePublish(ctx context.Context, id string) (bool, error)
}
