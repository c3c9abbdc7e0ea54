package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopspring/decimal"
)

type ScreeningStatus string

const (
	ScreeningStatusPendingApproval ScreeningStatus = "PENDING_APPROVAL"
	ScreeningStatusApproved        ScreeningStatus = "APPROVED"
	ScreeningStatusRejected        ScreeningStatus = "REJECTED"
	ScreeningStatusCancelled       ScreeningStatus = "CANCELLED"
	ScreeningStatusFinished        ScreeningStatus = "FINISHED"
)

type Screening struct {
	Base
	MovieID   uuid.UUID       `db:"movie_id"`
	RoomID    uuid.UUID       `db:"room_id"`
	CinemaID  uuid.UUID       `db:"cinema_id"` // denormalized for order queries
	StartTime time.Time       `db:"start_time"`
	EndTime   time.Time       `db:"end_time"`
	Price     decimal.Decimal `db:"price"`
	Status    ScreeningStatus `db:"status"`
}

// IsLockable reports whether seats of this screening may still be locked:
// APPROVED and not yet ended.
func (s *Screening) IsLockable(now time.Time) bool {
	return s.Status == ScreeningStatusApproved && s.EndTime.After(now)
}

// IsPurchasable reports whether an order may still be created: APPROVED and
// not yet started.
func (s *Screening) IsPurchasable(now time.Time) bool {
	return s.Status == ScreeningStatusApproved && s.StartTime.After(now)
}
