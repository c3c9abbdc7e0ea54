package request

type ProposeScreeningRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid4"`
	RoomID    string `json:"room_id" validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"` // RFC3339
	Price     string `json:"price" validate:"required"`      // decimal string
}

type ReviewScreeningRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}
