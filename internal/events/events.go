package events

import "time"

// Queue names. One durable queue per event type, declared on publish.
const (
	QueueSeatsLocked     = "seats.locked"
	QueueSeatsUnlocked   = "seats.unlocked"
	QueueOrderCreated    = "order.created"
	QueueOrderCancelled  = "order.cancelled"
	QueueOrderPaid       = "order.paid"
	QueueOrdersReclaimed = "orders.reclaimed"
)

type Seat struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type SeatsLockedEvent struct {
	ScreeningID string    `json:"screening_id"`
	UserID      string    `json:"user_id"`
	Seats       []Seat    `json:"seats"`
	ExpiryTime  time.Time `json:"expiry_time"`
}

type SeatsUnlockedEvent struct {
	ScreeningID string `json:"screening_id"`
	UserID      string `json:"user_id"`
	Seats       []Seat `json:"seats"`
}

type OrderCreatedEvent struct {
	OrderID     string `json:"order_id"`
	OrderNo     string `json:"order_no"`
	ScreeningID string `json:"screening_id"`
	UserID      string `json:"user_id"`
	SeatCount   int    `json:"seat_count"`
	TotalAmount string `json:"total_amount"`
}

type OrderCancelledEvent struct {
	OrderID     string `json:"order_id"`
	OrderNo     string `json:"order_no"`
	ScreeningID string `json:"screening_id"`
	UserID      string `json:"user_id"`
}

type OrderPaidEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	UserID      string    `json:"user_id"`
	PaymentTime time.Time `json:"payment_time"`
}

type OrdersReclaimedEvent struct {
	CancelledCount int64     `json:"cancelled_count"`
	Cutoff         time.Time `json:"cutoff"`
}
