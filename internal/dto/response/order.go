package response

import (
	"time"

	"cinema-reservation/internal/data/entity"
)

type OrderResponse struct {
	ID          string             `json:"id"`
	OrderNo     string             `json:"order_no"`
	UserID      string             `json:"user_id"`
	ScreeningID string             `json:"screening_id"`
	MovieTitle  string             `json:"movie_title,omitempty"`
	CinemaName  string             `json:"cinema_name,omitempty"`
	RoomName    string             `json:"room_name,omitempty"`
	StartTime   *time.Time         `json:"start_time,omitempty"`
	TotalAmount string             `json:"total_amount"`
	SeatCount   int                `json:"seat_count"`
	Status      entity.OrderStatus `json:"status"`
	Seats       []string           `json:"seats,omitempty"` // labels, e.g. "E8"
	PaymentTime *time.Time         `json:"payment_time,omitempty"`
	CancelTime  *time.Time         `json:"cancel_time,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// OrderToResponse converts the order plus optional denormalized details.
// Any of movie/cinema/room may be nil when the caller only needs the bare
// order fields.
func OrderToResponse(order *entity.Order, screening *entity.Screening, movie *entity.Movie, cinema *entity.Cinema, room *entity.Room, seats []*entity.OrderSeat) *OrderResponse {
	resp := &OrderResponse{
		ID:          order.ID.String(),
		OrderNo:     order.OrderNo,
		UserID:      order.UserID.String(),
		ScreeningID: order.ScreeningID.String(),
		TotalAmount: order.TotalAmount.String(),
		SeatCount:   order.SeatCount,
		Status:      order.Status,
		PaymentTime: order.PaymentTime,
		CancelTime:  order.CancelTime,
		CreatedAt:   order.CreatedAt,
	}

	if screening != nil {
		start := screening.StartTime
		resp.StartTime = &start
	}
	if movie != nil {
		resp.MovieTitle = movie.Title
	}
	if cinema != nil {
		resp.CinemaName = cinema.Name
	}
	if room != nil {
		resp.RoomName = room.Name
	}
	for _, seat := range seats {
		resp.Seats = append(resp.Seats, seat.SeatLabel)
	}

	return resp
}
