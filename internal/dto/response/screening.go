package response

import (
	"time"

	"cinema-reservation/internal/data/entity"
)

type ScreeningResponse struct {
	ID        string                 `json:"id"`
	MovieID   string                 `json:"movie_id"`
	RoomID    string                 `json:"room_id"`
	CinemaID  string                 `json:"cinema_id"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
	Price     string                 `json:"price"`
	Status    entity.ScreeningStatus `json:"status"`
}

func ScreeningToResponse(s *entity.Screening) *ScreeningResponse {
	return &ScreeningResponse{
		ID:        s.ID.String(),
		MovieID:   s.MovieID.String(),
		RoomID:    s.RoomID.String(),
		CinemaID:  s.CinemaID.String(),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Price:     s.Price.String(),
		Status:    s.Status,
	}
}
