package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeatRefLabel(t *testing.T) {
	tests := []struct {
		seat  SeatRef
		label string
	}{
		{SeatRef{Row: 1, Col: 1}, "A1"},
		{SeatRef{Row: 5, Col: 8}, "E8"},
		{SeatRef{Row: 26, Col: 3}, "Z3"},
		{SeatRef{Row: 27, Col: 1}, "AA1"},
		{SeatRef{Row: 52, Col: 12}, "AZ12"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.seat.Label())
	}
}

func TestSeatRefString(t *testing.T) {
	assert.Equal(t, "[3,5]", SeatRef{Row: 3, Col: 5}.String())
}

func TestSeatLockIsLive(t *testing.T) {
	now := time.Now()
	live := &SeatLock{ExpiryTime: now.Add(time.Minute)}
	dead := &SeatLock{ExpiryTime: now.Add(-time.Minute)}

	assert.True(t, live.IsLive(now))
	assert.False(t, dead.IsLive(now))
	assert.False(t, (&SeatLock{ExpiryTime: now}).IsLive(now))
}

func TestScreeningWindows(t *testing.T) {
	now := time.Now()
	s := &Screening{
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(3 * time.Hour),
		Status:    ScreeningStatusApproved,
	}

	assert.True(t, s.IsLockable(now))
	assert.True(t, s.IsPurchasable(now))

	// Started but not ended: lockable for latecomers, not purchasable.
	started := now.Add(-90 * time.Minute)
	s.StartTime = started
	assert.True(t, s.IsLockable(now))
	assert.False(t, s.IsPurchasable(now))

	s.EndTime = now.Add(-time.Minute)
	assert.False(t, s.IsLockable(now))

	s.Status = ScreeningStatusPendingApproval
	s.StartTime = now.Add(time.Hour)
	s.EndTime = now.Add(3 * time.Hour)
	assert.False(t, s.IsLockable(now))
	assert.False(t, s.IsPurchasable(now))
}

func TestRoomContains(t *testing.T) {
	room := &Room{RowCount: 5, ColCount: 6}

	assert.True(t, room.Contains(SeatRef{Row: 1, Col: 1}))
	assert.True(t, room.Contains(SeatRef{Row: 5, Col: 6}))
	assert.False(t, room.Contains(SeatRef{Row: 0, Col: 1}))
	assert.False(t, room.Contains(SeatRef{Row: 6, Col: 1}))
	assert.False(t, room.Contains(SeatRef{Row: 1, Col: 7}))
}
