package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusRefunded       OrderStatus = "REFUNDED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
)

type Order struct {
	Base
	OrderNo     string          `db:"order_no"`
	UserID      uuid.UUID       `db:"user_id"`
	ScreeningID uuid.UUID       `db:"screening_id"`
	CinemaID    uuid.UUID       `db:"cinema_id"` // denormalized
	MovieID     uuid.UUID       `db:"movie_id"`  // denormalized
	TotalAmount decimal.Decimal `db:"total_amount"`
	SeatCount   int             `db:"seat_count"`
	Status      OrderStatus     `db:"status"`
	PaymentTime *time.Time      `db:"payment_time"`
	CancelTime  *time.Time      `db:"cancel_time"`
}
