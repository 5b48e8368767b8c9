// Package tweets provides PostgreSQL-backed persistence for short text posts.
package tweets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

const tweetColumns = `id, content, owner_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTweet(row scanner) (*models.Tweet, error) {
	t := &models.Tweet{}
	if err := row.Scan(&t.ID, &t.Content, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, dbx.Classify(err)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tweet *models.Tweet) (*models.Tweet, error) {
	query := `INSERT INTO tweets (content, owner_id) VALUES ($1, $2) RETURNING ` + tweetColumns
	return scanTweet(r.db.QueryRowContext(ctx, query, tweet.Content, tweet.OwnerID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1`
	return scanTweet(r.db.QueryRowContext(ctx, query, id))
}

// ListByOwner returns all tweets of a user, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE owner_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, content string) (*models.Tweet, error) {
	query := `UPDATE tweets SET content = $2, updated_at = now() WHERE id = $1 RETURNING ` + tweetColumns
	return scanTweet(r.db.QueryRowContext(ctx, query, id, content))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Tweet, error) {
	query := `DELETE FROM tweets WHERE id = $1 RETURNING ` + tweetColumns
	return scanTweet(r.db.QueryRowContext(ctx, query, id))
}
