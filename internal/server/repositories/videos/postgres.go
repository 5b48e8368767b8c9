// Package videos provides PostgreSQL-backed persistence for published videos.
package videos

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

const videoColumns = `id, video_file, thumbnail, title, description, duration, views, is_published, owner_id, created_at, updated_at`

// sortColumns maps API sort keys to columns. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"views":     "views",
	"duration":  "duration",
}

// PostgresRepository implements video storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*models.Video, error) {
	v := &models.Video{}
	err := row.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration,
		&v.Views, &v.IsPublished, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query :=
		`INSERT INTO videos (video_file, thumbnail, title, description, duration, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + videoColumns

	return scanVideo(r.db.QueryRowContext(ctx, query,
		video.VideoFile, video.Thumbnail, video.Title, video.Description, video.Duration, video.OwnerID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return scanVideo(r.db.QueryRowContext(ctx, query, id))
}

// List returns one page of videos matching filter together with the total
// number of matching rows.
func (r *PostgresRepository) List(ctx context.Context, filter models.VideoFilter) ([]models.Video, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM videos` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM videos%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		videoColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Video, 0, filter.Limit)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func buildWhere(filter models.VideoFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update writes title, description and thumbnail.
func (r *PostgresRepository) Update(ctx context.Context, video *models.Video) (*models.Video, error) {
	query :=
		`UPDATE videos SET title = $2, description = $3, thumbnail = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + videoColumns

	return scanVideo(r.db.QueryRowContext(ctx, query, video.ID, video.Title, video.Description, video.Thumbnail))
}

// Delete removes the video and returns the deleted row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Video, error) {
	query := `DELETE FROM videos WHERE id = $1 RETURNING ` + videoColumns
	return scanVideo(r.db.QueryRowContext(ctx, query, id))
}

// TogglePublish flips is_published and returns the value it had before.
func (r *PostgresRepository) TogglePublish(ctx context.Context, id string) (bool, error) {
	query :=
		`UPDATE videos SET is_published = NOT is_published, updated_at = now()
		 WHERE id = $1
		 RETURNING NOT is_published`

	var previous bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&previous); err != nil {
		return false, dbx.Classify(err)
	}
	return previous, nil
}
