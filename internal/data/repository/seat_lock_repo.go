package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatLockRepository interface {
	// CreateBatch inserts the locks in one multi-row statement. A uniqueness
	// violation on (screening_id, row_index, col_index) comes back as
	// ErrDuplicateSeatLock; the constraint, not the caller's pre-checks, is
	// what decides the winner of a concurrent claim.
	CreateBatch(ctx context.Context, locks []*entity.SeatLock) error

	// FindActiveForSeats returns live locks (expiry > now) held by anyone on
	// the given coordinates of a screening, in a single set query.
	FindActiveForSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) ([]*entity.SeatLock, error)

	// FindActiveForUserSeats is FindActiveForSeats restricted to one user.
	FindActiveForUserSeats(ctx context.Context, userID, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) ([]*entity.SeatLock, error)

	// FindActiveByScreening returns all live locks of a screening.
	FindActiveByScreening(ctx context.Context, screeningID uuid.UUID, now time.Time) ([]*entity.SeatLock, error)

	// FindActiveForUser returns all live locks a user holds on a screening.
	FindActiveForUser(ctx context.Context, userID, screeningID uuid.UUID, now time.Time) ([]*entity.SeatLock, error)

	// DeleteForUserSeats removes the user's locks on the given coordinates
	// and returns how many rows went away. Zero is not an error.
	DeleteForUserSeats(ctx context.Context, userID, screeningID uuid.UUID, seats []entity.SeatRef) (int64, error)

	// DeleteExpired removes every lock with expiry_time < now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteExpiredForSeats removes dead lock rows on the given seats so
	// they cannot trip the uniqueness constraint when a new claim is
	// inserted before the reclaimer has swept them.
	DeleteExpiredForSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) (int64, error)
}

type seatLockRepository struct {
	db  database.Queryer
	log *zap.Logger
}

func NewSeatLockRepository(db database.Queryer, log *zap.Logger) SeatLockRepository {
	return &seatLockRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_lock")),
	}
}

// seatTupleClause renders "(row_index, col_index) IN (($n,$n+1), ...)" and
// appends the coordinates to args, starting at placeholder index next.
func seatTupleClause(seats []entity.SeatRef, next int, args []any) (string, []any) {
	var sb strings.Builder
	sb.WriteString("(row_index, col_index) IN (")
	for i, seat := range seats {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("($%d, $%d)", next, next+1))
		next += 2
		args = append(args, seat.Row, seat.Col)
	}
	sb.WriteString(")")
	return sb.String(), args
}

const seatLockColumns = `id, screening_id, row_index, col_index, user_id, expiry_time, created_at`

func (r *seatLockRepository) scanRows(rows pgx.Rows) ([]*entity.SeatLock, error) {
	var locks []*entity.SeatLock
	for rows.Next() {
		var lock entity.SeatLock
		err := rows.Scan(
			&lock.ID,
			&lock.ScreeningID,
			&lock.RowIndex,
			&lock.ColIndex,
			&lock.UserID,
			&lock.ExpiryTime,
			&lock.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat lock row", zap.Error(err))
			return nil, fmt.Errorf("scan seat lock row: %w", err)
		}
		locks = append(locks, &lock)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate seat lock rows: %w", err)
	}

	return locks, nil
}

func (r *seatLockRepository) CreateBatch(ctx context.Context, locks []*entity.SeatLock) error {
	if len(locks) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO seat_locks (id, screening_id, row_index, col_index, user_id, expiry_time, created_at) VALUES `)
	args := make([]any, 0, len(locks)*7)
	for i, lock := range locks {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args,
			lock.ID,
			lock.ScreeningID,
			lock.RowIndex,
			lock.ColIndex,
			lock.UserID,
			lock.ExpiryTime,
			lock.CreatedAt,
		)
	}

	_, err := r.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create seat locks: %w", ErrDuplicateSeatLock)
		}
		r.log.Error("Failed to create seat locks",
			zap.Error(err),
			zap.Int("count", len(locks)),
			zap.String("screening_id", locks[0].ScreeningID.String()),
		)
		return fmt.Errorf("create seat locks for screening %s: %w", locks[0].ScreeningID.String(), err)
	}

	return nil
}

func (r *seatLockRepository) FindActiveForSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) ([]*entity.SeatLock, error) {
	if len(seats) == 0 {
		return nil, nil
	}

	args := []any{screeningID, now}
	clause, args := seatTupleClause(seats, 3, args)
	query := `
		SELECT ` + seatLockColumns + `
		FROM seat_locks
		WHERE screening_id = $1 AND expiry_time > $2 AND ` + clause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find active locks for seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.Int("seat_count", len(seats)),
		)
		return nil, fmt.Errorf("find active locks for screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *seatLockRepository) FindActiveForUserSeats(ctx context.Context, userID, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) ([]*entity.SeatLock, error) {
	if len(seats) == 0 {
		return nil, nil
	}

	args := []any{screeningID, now, userID}
	clause, args := seatTupleClause(seats, 4, args)
	query := `
		SELECT ` + seatLockColumns + `
		FROM seat_locks
		WHERE screening_id = $1 AND expiry_time > $2 AND user_id = $3 AND ` + clause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find active user locks for seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active user locks for screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *seatLockRepository) FindActiveByScreening(ctx context.Context, screeningID uuid.UUID, now time.Time) ([]*entity.SeatLock, error) {
	query := `
		SELECT ` + seatLockColumns + `
		FROM seat_locks
		WHERE screening_id = $1 AND expiry_time > $2
	`

	rows, err := r.db.Query(ctx, query, screeningID, now)
	if err != nil {
		r.log.Error("Failed to find active locks by screening",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find active locks by screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *seatLockRepository) FindActiveForUser(ctx context.Context, userID, screeningID uuid.UUID, now time.Time) ([]*entity.SeatLock, error) {
	query := `
		SELECT ` + seatLockColumns + `
		FROM seat_locks
		WHERE screening_id = $1 AND expiry_time > $2 AND user_id = $3
		ORDER BY row_index, col_index
	`

	rows, err := r.db.Query(ctx, query, screeningID, now, userID)
	if err != nil {
		r.log.Error("Failed to find active locks for user",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active locks for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *seatLockRepository) DeleteForUserSeats(ctx context.Context, userID, screeningID uuid.UUID, seats []entity.SeatRef) (int64, error) {
	if len(seats) == 0 {
		return 0, nil
	}

	args := []any{screeningID, userID}
	clause, args := seatTupleClause(seats, 3, args)
	query := `DELETE FROM seat_locks WHERE screening_id = $1 AND user_id = $2 AND ` + clause

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete user seat locks",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("delete user locks for screening %s: %w", screeningID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *seatLockRepository) DeleteExpiredForSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) (int64, error) {
	if len(seats) == 0 {
		return 0, nil
	}

	args := []any{screeningID, now}
	clause, args := seatTupleClause(seats, 3, args)
	query := `DELETE FROM seat_locks WHERE screening_id = $1 AND expiry_time <= $2 AND ` + clause

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete expired locks for seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return 0, fmt.Errorf("delete expired locks for screening %s: %w", screeningID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *seatLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM seat_locks WHERE expiry_time < $1`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to delete expired seat locks", zap.Error(err))
		return 0, fmt.Errorf("delete expired seat locks: %w", err)
	}

	return result.RowsAffected(), nil
}
