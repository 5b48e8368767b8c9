// Package comments provides PostgreSQL-backed persistence for video comments.
package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

const commentColumns = `id, content, video_id, owner_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (*models.Comment, error) {
	c := &models.Comment{}
	if err := row.Scan(&c.ID, &c.Content, &c.VideoID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, dbx.Classify(err)
	}
	return c, nil
}

// Create stores a comment. A missing video or owner yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (content, video_id, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, query, comment.Content, comment.VideoID, comment.OwnerID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(r.db.QueryRowContext(ctx, query, id))
}

// ListByVideo returns comments of a video, newest first, and their total count.
func (r *PostgresRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT ` + commentColumns + ` FROM comments
		 WHERE video_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Comment, 0, limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	query :=
		`UPDATE comments SET content = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, query, id, content))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Comment, error) {
	query := `DELETE FROM comments WHERE id = $1 RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, query, id))
}
