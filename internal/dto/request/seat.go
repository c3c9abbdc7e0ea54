package request

import "cinema-reservation/internal/data/entity"

type SeatRequest struct {
	Row int `json:"row" validate:"required,min=1"`
	Col int `json:"col" validate:"required,min=1"`
}

type LockSeatsRequest struct {
	Seats           []SeatRequest `json:"seats" validate:"required,min=1,dive"`
	DurationSeconds int           `json:"duration_seconds" validate:"omitempty,min=1"`
}

type UnlockSeatsRequest struct {
	Seats []SeatRequest `json:"seats" validate:"required,min=1,dive"`
}

// SeatRefs converts request seats to entity coordinates.
func SeatRefs(seats []SeatRequest) []entity.SeatRef {
	refs := make([]entity.SeatRef, len(seats))
	for i, s := range seats {
		refs[i] = entity.SeatRef{Row: s.Row, Col: s.Col}
	}
	return refs
}
