package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateSeatLock signals that an insert hit the uniqueness constraint
// on (screening_id, row_index, col_index). This is the expected outcome for
// the loser of a concurrent claim on the same seat; the service layer turns
// it into a seat conflict rather than an infrastructure error.
var ErrDuplicateSeatLock = errors.New("seat lock already exists")

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
