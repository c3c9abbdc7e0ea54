package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScreeningRepository interface {
	Create(ctx context.Context, screening *entity.Screening) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ScreeningStatus, updatedAt time.Time) error

	// FindConflicting returns screenings occupying the room over [start,end)
	// with status APPROVED or PENDING_APPROVAL. Half-open interval overlap:
	// touching endpoints do not conflict. excludeID skips a screening's own
	// record when re-validating it.
	FindConflicting(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Screening, error)
}

type screeningRepository struct {
	db  database.Queryer
	log *zap.Logger
}

func NewScreeningRepository(db database.Queryer, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening")),
	}
}

const screeningColumns = `id, movie_id, room_id, cinema_id, start_time, end_time, price, status, created_at, updated_at`

func scanScreening(row pgx.Row) (*entity.Screening, error) {
	var s entity.Screening
	err := row.Scan(
		&s.ID,
		&s.MovieID,
		&s.RoomID,
		&s.CinemaID,
		&s.StartTime,
		&s.EndTime,
		&s.Price,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *screeningRepository) Create(ctx context.Context, screening *entity.Screening) error {
	query := `
		INSERT INTO screenings (id, movie_id, room_id, cinema_id, start_time, end_time, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		screening.ID,
		screening.MovieID,
		screening.RoomID,
		screening.CinemaID,
		screening.StartTime,
		screening.EndTime,
		screening.Price,
		screening.Status,
		screening.CreatedAt,
		screening.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create screening",
			zap.Error(err),
			zap.String("screening_id", screening.ID.String()),
			zap.String("room_id", screening.RoomID.String()),
		)
		return fmt.Errorf("create screening %s: %w", screening.ID.String(), err)
	}

	return nil
}

func (r *screeningRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	query := `SELECT ` + screeningColumns + ` FROM screenings WHERE id = $1`

	screening, err := scanScreening(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screening by ID",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return nil, fmt.Errorf("find screening by ID %s: %w", id.String(), err)
	}

	return screening, nil
}

func (r *screeningRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ScreeningStatus, updatedAt time.Time) error {
	query := `UPDATE screenings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		r.log.Error("Failed to update screening status",
			zap.Error(err),
			zap.String("screening_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update screening %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("screening %s not found", id.String())
	}

	return nil
}

func (r *screeningRepository) FindConflicting(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Screening, error) {
	query := `
		SELECT ` + screeningColumns + `
		FROM screenings
		WHERE room_id = $1
		  AND status IN ('APPROVED', 'PENDING_APPROVAL')
		  AND start_time < $3
		  AND end_time > $2
	`
	args := []any{roomID, start, end}

	if excludeID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find conflicting screenings",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find conflicting screenings for room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	var screenings []*entity.Screening
	for rows.Next() {
		screening, err := scanScreening(rows)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		screenings = append(screenings, screening)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate screening rows: %w", err)
	}

	return screenings, nil
}
