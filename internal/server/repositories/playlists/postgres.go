// Package playlists provides PostgreSQL-backed persistence for playlists and
// their ordered video membership.
package playlists

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

const playlistColumns = `id, name, description, owner_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row scanner) (*models.Playlist, error) {
	p := &models.Playlist{Videos: []models.Video{}}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, dbx.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {
	query :=
		`INSERT INTO playlists (name, description, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING ` + playlistColumns
	return scanPlaylist(r.db.QueryRowContext(ctx, query, playlist.Name, playlist.Description, playlist.OwnerID))
}

// GetByID returns the playlist row without its videos.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`
	return scanPlaylist(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE owner_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ListVideos returns the playlist's videos in insertion order.
func (r *PostgresRepository) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	query :=
		`SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views,
		        v.is_published, v.owner_id, v.created_at, v.updated_at
		 FROM playlist_videos pv
		 JOIN videos v ON v.id = pv.video_id
		 WHERE pv.playlist_id = $1
		 ORDER BY pv.position`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
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

func (r *PostgresRepository) Update(ctx context.Context, id, name, description string) (*models.Playlist, error) {
	query :=
		`UPDATE playlists SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + playlistColumns
	return scanPlaylist(r.db.QueryRowContext(ctx, query, id, name, description))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Playlist, error) {
	query := `DELETE FROM playlists WHERE id = $1 RETURNING ` + playlistColumns
	return scanPlaylist(r.db.QueryRowContext(ctx, query, id))
}

// AddVideo appends videoID to the playlist. Adding a video that is already
// present is a no-op; a missing video yields common.ErrorNotFound.
func (r *PostgresRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	query :=
		`INSERT INTO playlist_videos (playlist_id, video_id, position)
		 SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM playlist_videos WHERE playlist_id = $1
		 ON CONFLICT (playlist_id, video_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, playlistID, videoID); err != nil {
		return dbx.Classify(err)
	}
	return nil
}

// RemoveVideo removes videoID from the playlist. Removing an absent video is a no-op.
func (r *PostgresRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`

	if _, err := r.db.ExecContext(ctx, query, playlistID, videoID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
