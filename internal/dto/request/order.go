package request

type CreateOrderRequest struct {
	ScreeningID string        `json:"screening_id" validate:"required,uuid4"`
	Seats       []SeatRequest `json:"seats" validate:"required,min=1,dive"`
}

// PaymentNotifyRequest is the payload the payment collaborator posts back.
// Amount is a decimal string; it must match the order total before the paid
// transition is applied.
type PaymentNotifyRequest struct {
	OrderNo string `json:"order_no" validate:"required"`
	UserID  string `json:"user_id" validate:"required,uuid4"`
	Amount  string `json:"amount" validate:"required"`
}
