package entity

import "github.com/google/uuid"

// OrderSeat is a permanently sold seat. While a row exists the seat can
// never be locked or sold again for that screening; cancelling the order
// deletes the row and frees the seat.
type OrderSeat struct {
	BaseSimple
	OrderID     uuid.UUID `db:"order_id"`
	ScreeningID uuid.UUID `db:"screening_id"`
	RowIndex    int       `db:"row_index"`
	ColIndex    int       `db:"col_index"`
	SeatLabel   string    `db:"seat_label"`
}

func (s *OrderSeat) Seat() SeatRef {
	return SeatRef{Row: s.RowIndex, Col: s.ColIndex}
}
