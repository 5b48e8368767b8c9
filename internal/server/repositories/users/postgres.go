// Package users provides the PostgreSQL-backed credential store.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

const userColumns = `id, username, email, full_name, avatar, cover_image, password, COALESCE(refresh_token, ''), created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.CoverImage,
		&u.Password, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

// Create inserts user and fills in the generated id and timestamps.
// A duplicate username or email yields common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, full_name, avatar, cover_image, password)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.Avatar, user.CoverImage, user.Password).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByUsernameOrEmail returns the first user whose username or email
// matches. Blank arguments never match since both columns are required.
func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, username, email))
}

func (r *PostgresRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// SetRefreshToken overwrites the stored refresh token. An empty token
// clears the slot.
func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET refresh_token = NULLIF($2, ''), updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, token)
}

// ReplaceRefreshToken swaps oldToken for newToken only while oldToken is
// still the stored value. When another request rotated the token first,
// nothing is written and dbx.ErrNoRowsAffected is returned.
func (r *PostgresRepository) ReplaceRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	query :=
		`UPDATE users SET refresh_token = $3, updated_at = now()
		 WHERE id = $1 AND refresh_token = $2`

	res, err := r.db.ExecContext(ctx, query, id, oldToken, newToken)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, id, fullName, email string) (*models.User, error) {
	query :=
		`UPDATE users SET full_name = $2, email = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, id, fullName, email))
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	query := `UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, id, url))
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	query := `UPDATE users SET cover_image = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, id, url))
}

// exec runs a single-row update; a missing row is common.ErrorNotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}
