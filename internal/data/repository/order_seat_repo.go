package repository

import (
	"context"
	"fmt"
	"strings"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderSeatRepository interface {
	// CreateBatch inserts all seats of an order in one statement so the
	// enclosing transaction either commits the full seat set or nothing.
	CreateBatch(ctx context.Context, seats []*entity.OrderSeat) error

	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderSeat, error)
	FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.OrderSeat, error)

	// FindByScreeningSeats returns sold-seat rows matching the given
	// coordinates of a screening, in a single set query.
	FindByScreeningSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef) ([]*entity.OrderSeat, error)

	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error)
	DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (int64, error)
}

type orderSeatRepository struct {
	db  database.Queryer
	log *zap.Logger
}

func NewOrderSeatRepository(db database.Queryer, log *zap.Logger) OrderSeatRepository {
	return &orderSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "order_seat")),
	}
}

const orderSeatColumns = `id, order_id, screening_id, row_index, col_index, seat_label, created_at`

func (r *orderSeatRepository) scanRows(rows pgx.Rows) ([]*entity.OrderSeat, error) {
	var seats []*entity.OrderSeat
	for rows.Next() {
		var seat entity.OrderSeat
		err := rows.Scan(
			&seat.ID,
			&seat.OrderID,
			&seat.ScreeningID,
			&seat.RowIndex,
			&seat.ColIndex,
			&seat.SeatLabel,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan order seat row", zap.Error(err))
			return nil, fmt.Errorf("scan order seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate order seat rows: %w", err)
	}

	return seats, nil
}

func (r *orderSeatRepository) CreateBatch(ctx context.Context, seats []*entity.OrderSeat) error {
	if len(seats) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_seats (id, order_id, screening_id, row_index, col_index, seat_label, created_at) VALUES `)
	args := make([]any, 0, len(seats)*7)
	for i, seat := range seats {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args,
			seat.ID,
			seat.OrderID,
			seat.ScreeningID,
			seat.RowIndex,
			seat.ColIndex,
			seat.SeatLabel,
			seat.CreatedAt,
		)
	}

	_, err := r.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		r.log.Error("Failed to create order seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
			zap.String("order_id", seats[0].OrderID.String()),
		)
		return fmt.Errorf("create order seats for order %s: %w", seats[0].OrderID.String(), err)
	}

	return nil
}

func (r *orderSeatRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderSeat, error) {
	query := `
		SELECT ` + orderSeatColumns + `
		FROM order_seats
		WHERE order_id = $1
		ORDER BY row_index, col_index
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find order seats by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find order seats by order ID %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *orderSeatRepository) FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.OrderSeat, error) {
	query := `
		SELECT ` + orderSeatColumns + `
		FROM order_seats
		WHERE screening_id = $1
	`

	rows, err := r.db.Query(ctx, query, screeningID)
	if err != nil {
		r.log.Error("Failed to find order seats by screening ID",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find order seats by screening ID %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *orderSeatRepository) FindByScreeningSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef) ([]*entity.OrderSeat, error) {
	if len(seats) == 0 {
		return nil, nil
	}

	args := []any{screeningID}
	clause, args := seatTupleClause(seats, 2, args)
	query := `
		SELECT ` + orderSeatColumns + `
		FROM order_seats
		WHERE screening_id = $1 AND ` + clause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find sold seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.Int("seat_count", len(seats)),
		)
		return nil, fmt.Errorf("find sold seats for screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *orderSeatRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	query := `DELETE FROM order_seats WHERE order_id = $1`

	result, err := r.db.Exec(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to delete order seats by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return 0, fmt.Errorf("delete order seats by order ID %s: %w", orderID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *orderSeatRepository) DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM order_seats WHERE order_id = ANY($1)`

	result, err := r.db.Exec(ctx, query, orderIDs)
	if err != nil {
		r.log.Error("Failed to delete order seats by order IDs",
			zap.Error(err),
			zap.Int("count", len(orderIDs)),
		)
		return 0, fmt.Errorf("delete order seats for %d orders: %w", len(orderIDs), err)
	}

	return result.RowsAffected(), nil
}
