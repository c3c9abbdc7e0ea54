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

type ScreeningHandler struct {
	service usecase.ScreeningService
	log     *zap.Logger
}

func NewScreeningHandler(service usecase.ScreeningService, log *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		service: service,
		log:     log.With(zap.String("handler", "screening")),
	}
}

// ProposeScreening handles POST /api/screenings (protected)
func (h *ScreeningHandler) ProposeScreening(w http.ResponseWriter, r *http.Request) {
	var req request.ProposeScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screening, err := h.service.ProposeScreening(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "propose screening")
		return
	}

	utils.ResponseCreated(w, "success", screening)
}

// ReviewScreening handles PUT /api/screenings/{id}/review (protected)
func (h *ScreeningHandler) ReviewScreening(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screening, err := h.service.ReviewScreening(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "review screening")
		return
	}

	utils.ResponseSuccess(w, "success", screening)
}

// GetScreening handles GET /api/screenings/{id} (public)
func (h *ScreeningHandler) GetScreening(w http.ResponseWriter, r *http.Request) {
	screening, err := h.service.GetScreening(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get screening")
		return
	}

	utils.ResponseSuccess(w, "success", screening)
}
