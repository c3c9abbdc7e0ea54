package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeatLock is a time-bounded per-user reservation of one seat. The database
// enforces uniqueness on (screening_id, row_index, col_index); liveness is a
// read-side filter on ExpiryTime, so an expired row never blocks a new claim
// even before the reclaimer has deleted it.
type SeatLock struct {
	BaseSimple
	ScreeningID uuid.UUID `db:"screening_id"`
	RowIndex    int       `db:"row_index"`
	ColIndex    int       `db:"col_index"`
	UserID      uuid.UUID `db:"user_id"`
	ExpiryTime  time.Time `db:"expiry_time"`
}

func (l *SeatLock) Seat() SeatRef {
	return SeatRef{Row: l.RowIndex, Col: l.ColIndex}
}

// IsLive reports whether the lock still holds the seat.
func (l *SeatLock) IsLive(now time.Time) bool {
	return l.ExpiryTime.After(now)
}
