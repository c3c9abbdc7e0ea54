package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatHandler struct {
	locks  usecase.SeatLockService
	status usecase.SeatStatusService
	log    *zap.Logger
}

func NewSeatHandler(locks usecase.SeatLockService, status usecase.SeatStatusService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		locks:  locks,
		status: status,
		log:    log.With(zap.String("handler", "seat")),
	}
}

// LockSeats handles POST /api/screenings/{id}/seats/lock (protected)
func (h *SeatHandler) LockSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.LockSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screeningID := chi.URLParam(r, "id")
	locks, err := h.locks.LockSeats(r.Context(), userID, screeningID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "lock seats")
		return
	}

	utils.ResponseCreated(w, "success", locks)
}

// UnlockSeats handles POST /api/screenings/{id}/seats/unlock (protected)
func (h *SeatHandler) UnlockSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UnlockSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screeningID := chi.URLParam(r, "id")
	result, err := h.locks.UnlockSeats(r.Context(), userID, screeningID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "unlock seats")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetMyLocks handles GET /api/screenings/{id}/seats/locks (protected)
func (h *SeatHandler) GetMyLocks(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	screeningID := chi.URLParam(r, "id")
	locks, err := h.locks.FindActiveLocks(r.Context(), userID, screeningID)
	if err != nil {
		writeServiceError(w, h.log, err, "get active locks")
		return
	}

	utils.ResponseSuccess(w, "success", locks)
}

// GetSeatGrid handles GET /api/screenings/{id}/seats (public)
func (h *SeatHandler) GetSeatGrid(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	grid, err := h.status.GetSeatGrid(r.Context(), screeningID)
	if err != nil {
		writeServiceError(w, h.log, err, "get seat grid")
		return
	}

	utils.ResponseSuccess(w, "success", grid)
}
