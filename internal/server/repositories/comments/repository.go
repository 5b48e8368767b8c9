package comments

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]models.Comment, int64, error)
	Update(ctx context.Context, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (*models.Comment, error)
}
