package response

import (
	"time"

	"cinema-reservation/internal/data/entity"
)

type SeatLockResponse struct {
	Row        int       `json:"row"`
	Col        int       `json:"col"`
	Label      string    `json:"label"`
	ExpiryTime time.Time `json:"expiry_time"`
}

type LockSeatsResponse struct {
	ScreeningID string             `json:"screening_id"`
	Locks       []SeatLockResponse `json:"locks"`
}

type UnlockSeatsResponse struct {
	ScreeningID string `json:"screening_id"`
	Released    bool   `json:"released"`
}

// SeatGridResponse is the full seat map of a screening. Grid is row-major,
// Grid[r][c] describes seat (r+1, c+1).
type SeatGridResponse struct {
	ScreeningID string                `json:"screening_id"`
	Rows        int                   `json:"rows"`
	Cols        int                   `json:"cols"`
	Grid        [][]entity.SeatStatus `json:"grid"`
}

func SeatLockToResponse(lock *entity.SeatLock) SeatLockResponse {
	return SeatLockResponse{
		Row:        lock.RowIndex,
		Col:        lock.ColIndex,
		Label:      lock.Seat().Label(),
		ExpiryTime: lock.ExpiryTime,
	}
}

func SeatLocksToResponse(screeningID string, locks []*entity.SeatLock) *LockSeatsResponse {
	resp := &LockSeatsResponse{
		ScreeningID: screeningID,
		Locks:       make([]SeatLockResponse, len(locks)),
	}
	for i, lock := range locks {
		resp.Locks[i] = SeatLockToResponse(lock)
	}
	return resp
}
