package likes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFind_PerTarget(t *testing.T) {
	tests := []struct {
		target models.LikeTarget
		column string
	}{
		{models.LikeTargetVideo, "video_id"},
		{models.LikeTargetComment, "comment_id"},
		{models.LikeTargetTweet, "tweet_id"},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			mock.ExpectQuery(`^SELECT\s+id,\s*created_at\s+FROM\s+likes\s+WHERE\s+`+tt.column+`\s*=\s*\$1\s+AND\s+liked_by\s*=\s*\$2$`).
				WithArgs("x1", "u-1").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("l1", time.Now()))

			got, err := repo.Find(context.Background(), tt.target, "x1", "u-1")
			require.NoError(t, err)
			assert.Equal(t, "l1", got.ID)
			assert.Equal(t, tt.target, got.Target)
			assert.Equal(t, "x1", got.TargetID)
		})
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT\s+id`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), models.LikeTargetVideo, "v1", "u-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUnknownTarget(t *testing.T) {
	repo, _ := newRepoWithMock(t)

	_, err := repo.Find(context.Background(), "user", "x", "u-1")
	assert.ErrorIs(t, err, ErrUnknownTarget)
	_, err = repo.Create(context.Background(), "user", "x", "u-1")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^INSERT\s+INTO\s+likes\s*\(tweet_id,\s*liked_by\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at$`
	mock.ExpectQuery(q).WithArgs("t1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("l1", time.Now()))
	mock.ExpectQuery(q).WithArgs("t1", "u-1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "likes_tweet_uidx"})

	got, err := repo.Create(context.Background(), models.LikeTargetTweet, "t1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)

	_, err = repo.Create(context.Background(), models.LikeTargetTweet, "t1", "u-1")
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^DELETE\s+FROM\s+likes\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs("l1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("l1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "l1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "l1"), common.ErrorNotFound)
}

func TestListLikedVideos(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "video_file", "thumbnail", "title", "description", "duration", "views", "is_published", "owner_id", "created_at", "updated_at"}).
		AddRow("v1", "f", "t", "Title", "d", 1.5, int64(0), true, "u-2", now, now)

	mock.ExpectQuery(`(?s)^SELECT\s+v\.id,.*FROM\s+likes\s+l\s+JOIN\s+videos\s+v\s+ON\s+v\.id\s*=\s*l\.video_id\s+WHERE\s+l\.liked_by\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListLikedVideos(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Title", got[0].Title)
}
