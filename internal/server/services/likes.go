package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

type LikeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLikeService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *LikeService {
	return &LikeService{db: db, repomanager: m, logger: logger.With("module", "likes")}
}

// Toggle likes the target when the user has not liked it yet and unlikes it
// otherwise. It reports whether the target is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	if !target.Valid() {
		return false, common.NewError(common.ErrorBadRequest, "Unknown like target")
	}

	var liked bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Likes(tx)

		existing, err := repo.Find(ctx, target, targetID, userID)
		switch {
		case err == nil:
			liked = false
			return repo.Delete(ctx, existing.ID)
		case errors.Is(err, common.ErrorNotFound):
			if _, err := repo.Create(ctx, target, targetID, userID); err != nil {
				return err
			}
			liked = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.NewError(common.ErrorNotFound, targetLabel(target)+" not found")
		}
		return false, common.WrapError(common.ErrorInternal, "Something went wrong while toggling like", err)
	}

	s.logger.Debug(ctx, "like toggled", "target", string(target), "target_id", targetID, "user_id", userID, "liked", liked)
	return liked, nil
}

func (s *LikeService) LikedVideos(ctx context.Context, userID string) ([]models.Video, error) {
	videos, err := s.repomanager.Likes(s.db).ListLikedVideos(ctx, userID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while fetching liked videos", err)
	}
	return videos, nil
}

func targetLabel(target models.LikeTarget) string {
	switch target {
	case models.LikeTargetComment:
		return "Comment"
	case models.LikeTargetTweet:
		return "Tweet"
	default:
		return "Video"
	}
}
