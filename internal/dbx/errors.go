package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify translates driver errors into common sentinels:
// sql.ErrNoRows becomes common.ErrorNotFound, a unique violation becomes
// common.ErrorConflict and a foreign key violation (a referenced row is
// missing) becomes common.ErrorNotFound. Everything else is wrapped as
// "db error". Nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrorConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("db error: %w", err)
}
