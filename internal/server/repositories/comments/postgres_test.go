package comments

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

func commentRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "content", "video_id", "owner_id", "created_at", "updated_at"})
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "nice", "v1", "u-1", now, now)
	}
	return rows
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+comments\s*\(content,\s*video_id,\s*owner_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)`
	mock.ExpectQuery(q).WithArgs("nice", "v1", "u-1").WillReturnRows(commentRows("c1"))
	mock.ExpectQuery(q).WithArgs("nice", "ghost", "u-1").WillReturnError(&pgconn.PgError{Code: "23503"})

	got, err := repo.Create(context.Background(), &models.Comment{Content: "nice", VideoID: "v1", OwnerID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)

	_, err = repo.Create(context.Background(), &models.Comment{Content: "nice", VideoID: "ghost", OwnerID: "u-1"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByVideo(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+comments\s+WHERE\s+video_id\s*=\s*\$1$`).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+comments\s+WHERE\s+video_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+LIMIT\s+\$2\s+OFFSET\s+\$3$`).
		WithArgs("v1", 10, 0).
		WillReturnRows(commentRows("c1", "c2"))

	got, total, err := repo.ListByVideo(context.Background(), "v1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUpdateDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+comments\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("c1").WillReturnRows(commentRows("c1"))
	mock.ExpectQuery(`(?s)^UPDATE\s+comments\s+SET\s+content\s*=\s*\$2`).
		WithArgs("c1", "edited").WillReturnRows(commentRows("c1"))
	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+comments\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("c1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	_, err = repo.Update(context.Background(), "c1", "edited")
	require.NoError(t, err)
	_, err = repo.Delete(context.Background(), "c1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
