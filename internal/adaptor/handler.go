package adaptor

import (
	"net/http"

	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Seat      *SeatHandler
	Order     *OrderHandler
	Screening *ScreeningHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Seat:      NewSeatHandler(service.SeatLock, service.SeatStatus, log),
		Order:     NewOrderHandler(service.Order, log),
		Screening: NewScreeningHandler(service.Screening, log),
	}
}

// writeServiceError maps the error taxonomy to HTTP statuses. Conflict and
// Validation responses carry the offending seat labels in errors.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		utils.ResponseNotFound(w, err.Error())
	case apperror.KindValidation:
		utils.ResponseBadRequest(w, err.Error(), seatErrors(err))
	case apperror.KindInvalidState:
		utils.ResponseBadRequest(w, err.Error(), nil)
	case apperror.KindConflict:
		utils.ResponseConflict(w, err.Error(), seatErrors(err))
	default:
		log.Error("Unhandled service error",
			zap.Error(err),
			zap.String("operation", operation),
		)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func seatErrors(err error) any {
	seats := apperror.SeatsOf(err)
	if len(seats) == 0 {
		return nil
	}
	return map[string]any{"seats": seats}
}
