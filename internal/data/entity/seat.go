package entity

import "fmt"

// SeatRef identifies a seat by its 1-based coordinates in the room grid.
type SeatRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Label renders the human-readable seat label, e.g. row 5 col 8 -> "E8".
// Rows past Z continue spreadsheet-style: 27 -> AA.
func (s SeatRef) Label() string {
	row := s.Row
	letters := ""
	for row > 0 {
		row--
		letters = string(rune('A'+row%26)) + letters
		row /= 26
	}
	return fmt.Sprintf("%s%d", letters, s.Col)
}

// String renders the coordinate form used in error messages, e.g. "[3,5]".
func (s SeatRef) String() string {
	return fmt.Sprintf("[%d,%d]", s.Row, s.Col)
}

type SeatState string

const (
	SeatStateAvailable SeatState = "AVAILABLE"
	SeatStateLocked    SeatState = "LOCKED"
	SeatStateSold      SeatState = "SOLD"
)

// SeatStatus is one cell of the projected seat grid.
type SeatStatus struct {
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	State SeatState `json:"state"`
}
