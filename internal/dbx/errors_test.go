package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "no rows", in: sql.ErrNoRows, want: common.ErrorNotFound},
		{name: "wrapped no rows", in: fmt.Errorf("scan: %w", sql.ErrNoRows), want: common.ErrorNotFound},
		{name: "unique violation", in: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, want: common.ErrorConflict},
		{name: "foreign key violation", in: &pgconn.PgError{Code: "23503"}, want: common.ErrorNotFound},
		{name: "other pg error", in: &pgconn.PgError{Code: "42P01"}, want: nil},
		{name: "plain error", in: boom, want: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			}
			if tt.want == nil || tt.want == boom {
				assert.Contains(t, got.Error(), "db error")
			}
		})
	}

	assert.NoError(t, Classify(nil))
}
