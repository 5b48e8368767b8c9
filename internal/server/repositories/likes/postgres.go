// Package likes provides PostgreSQL-backed persistence for likes on videos,
// comments and tweets.
package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

// ErrUnknownTarget is returned for a LikeTarget without a column.
var ErrUnknownTarget = errors.New("unknown like target")

var targetColumns = map[models.LikeTarget]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func column(target models.LikeTarget) (string, error) {
	col, ok := targetColumns[target]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	return col, nil
}

// Find returns the like userID put on the target, or common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, target models.LikeTarget, targetID, userID string) (*models.Like, error) {
	col, err := column(target)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, created_at FROM likes WHERE ` + col + ` = $1 AND liked_by = $2`

	like := &models.Like{Target: target, TargetID: targetID, LikedBy: userID}
	if err := r.db.QueryRowContext(ctx, query, targetID, userID).Scan(&like.ID, &like.CreatedAt); err != nil {
		return nil, dbx.Classify(err)
	}
	return like, nil
}

// Create stores a like. A second like on the same target by the same user
// yields common.ErrorConflict; a missing target yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, target models.LikeTarget, targetID, userID string) (*models.Like, error) {
	col, err := column(target)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO likes (` + col + `, liked_by) VALUES ($1, $2) RETURNING id, created_at`

	like := &models.Like{Target: target, TargetID: targetID, LikedBy: userID}
	if err := r.db.QueryRowContext(ctx, query, targetID, userID).Scan(&like.ID, &like.CreatedAt); err != nil {
		return nil, dbx.Classify(err)
	}
	return like, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}

// ListLikedVideos returns the videos userID liked, most recent like first.
func (r *PostgresRepository) ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error) {
	query :=
		`SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views,
		        v.is_published, v.owner_id, v.created_at, v.updated_at
		 FROM likes l
		 JOIN videos v ON v.id = l.video_id
		 WHERE l.liked_by = $1
		 ORDER BY l.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Video{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration,
			&v.Views, &v.IsPublished, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
