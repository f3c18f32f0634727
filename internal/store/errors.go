package store

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"task-tracker/internal/errutil"
)

const uniqueViolation = "23505"

// storageErr classifies a database error. Unique violations become Conflict;
// everything else is a Storage error whose detail stays server side.
func storageErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errutil.Conflict("Record already exists, please retry", errors.Wrap(err, op))
	}
	return errutil.Storage("Database error", errors.Wrap(err, op))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
