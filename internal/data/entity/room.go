package entity

import "github.com/google/uuid"

// Room layout is immutable for the engine; layout changes are owned by the
// catalog service.
type Room struct {
	Base
	CinemaID uuid.UUID `db:"cinema_id"`
	Name     string    `db:"name"`
	RowCount int       `db:"row_count"`
	ColCount int       `db:"col_count"`
}

// Contains reports whether the seat lies inside [1..RowCount]x[1..ColCount].
func (r *Room) Contains(seat SeatRef) bool {
	return seat.Row >= 1 && seat.Row <= r.RowCount &&
		seat.Col >= 1 && seat.Col <= r.ColCount
}
