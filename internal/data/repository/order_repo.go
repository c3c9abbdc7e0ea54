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

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus) (int64, error)

	// MarkPaid transitions PENDING_PAYMENT -> PAID, filtering on status at
	// write time so a concurrent cancellation wins cleanly. Returns whether
	// a row was updated.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentTime time.Time) (bool, error)

	// MarkCancelled transitions the order to CANCELLED with a cancel time.
	// allowedFrom restricts which current statuses may transition.
	MarkCancelled(ctx context.Context, id uuid.UUID, cancelTime time.Time, allowedFrom []entity.OrderStatus) (bool, error)

	// FindTimedOutPendingIDs returns ids of PENDING_PAYMENT orders created
	// before the cutoff.
	FindTimedOutPendingIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)

	// CancelBatch cancels the given orders, touching only rows still in
	// PENDING_PAYMENT at update time, and returns the ids actually
	// cancelled. An order paid between the find and this update is left
	// alone and not returned.
	CancelBatch(ctx context.Context, ids []uuid.UUID, cancelTime time.Time) ([]uuid.UUID, error)
}

type orderRepository struct {
	db  database.Queryer
	log *zap.Logger
}

func NewOrderRepository(db database.Queryer, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

const orderColumns = `id, order_no, user_id, screening_id, cinema_id, movie_id, total_amount, seat_count, status, payment_time, cancel_time, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNo,
		&o.UserID,
		&o.ScreeningID,
		&o.CinemaID,
		&o.MovieID,
		&o.TotalAmount,
		&o.SeatCount,
		&o.Status,
		&o.PaymentTime,
		&o.CancelTime,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, order_no, user_id, screening_id, cinema_id, movie_id, total_amount, seat_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		order.ID,
		order.OrderNo,
		order.UserID,
		order.ScreeningID,
		order.CinemaID,
		order.MovieID,
		order.TotalAmount,
		order.SeatCount,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("order_no", order.OrderNo),
			zap.String("user_id", order.UserID.String()),
		)
		return fmt.Errorf("create order %s: %w", order.OrderNo, err)
	}

	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order by ID %s: %w", id.String(), err)
	}

	return order, nil
}

func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_no = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, orderNo))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by order number",
			zap.Error(err),
			zap.String("order_no", orderNo),
		)
		return nil, fmt.Errorf("find order by order number %s: %w", orderNo, err)
	}

	return order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1`
	args := []any{userID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find orders by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find orders by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) CountByUserID(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	args := []any{userID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count orders by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count orders by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentTime time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, payment_time = $3, updated_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query, id, entity.OrderStatusPaid, paymentTime, entity.OrderStatusPendingPayment)
	if err != nil {
		r.log.Error("Failed to mark order paid",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return false, fmt.Errorf("mark order %s paid: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *orderRepository) MarkCancelled(ctx context.Context, id uuid.UUID, cancelTime time.Time, allowedFrom []entity.OrderStatus) (bool, error) {
	placeholders := make([]string, len(allowedFrom))
	args := []any{id, entity.OrderStatusCancelled, cancelTime}
	for i, status := range allowedFrom {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, status)
	}

	query := `
		UPDATE orders
		SET status = $2, cancel_time = $3, updated_at = $3
		WHERE id = $1 AND status IN (` + strings.Join(placeholders, ", ") + `)
	`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to mark order cancelled",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return false, fmt.Errorf("mark order %s cancelled: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *orderRepository) FindTimedOutPendingIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM orders
		WHERE status = $1 AND created_at < $2
	`

	rows, err := r.db.Query(ctx, query, entity.OrderStatusPendingPayment, cutoff)
	if err != nil {
		r.log.Error("Failed to find timed-out pending orders",
			zap.Error(err),
			zap.Time("cutoff", cutoff),
		)
		return nil, fmt.Errorf("find timed-out pending orders: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan order ID row", zap.Error(err))
			return nil, fmt.Errorf("scan order ID row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate timed-out order rows: %w", err)
	}

	return ids, nil
}

func (r *orderRepository) CancelBatch(ctx context.Context, ids []uuid.UUID, cancelTime time.Time) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		UPDATE orders
		SET status = $1, cancel_time = $2, updated_at = $2
		WHERE id = ANY($3) AND status = $4
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, entity.OrderStatusCancelled, cancelTime, ids, entity.OrderStatusPendingPayment)
	if err != nil {
		r.log.Error("Failed to batch cancel orders",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return nil, fmt.Errorf("batch cancel %d orders: %w", len(ids), err)
	}
	defer rows.Close()

	var cancelled []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan cancelled order ID", zap.Error(err))
			return nil, fmt.Errorf("scan cancelled order ID: %w", err)
		}
		cancelled = append(cancelled, id)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate cancelled order rows: %w", err)
	}

	return cancelled, nil
}
