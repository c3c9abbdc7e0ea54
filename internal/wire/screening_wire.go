package wire

import (
	"cinema-reservation/internal/adaptor"
	"cinema-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireScreenings(r chi.Router, screeningHandler *adaptor.ScreeningHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES ====================
	// Proposal and review come from internal staff tooling; role checks
	// live in the gateway, identity is still required here.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/screenings - Propose a screening
		r.Post("/api/screenings", screeningHandler.ProposeScreening)

		// PUT /api/screenings/{id}/review - Approve or reject a proposal
		r.Put("/api/screenings/{id}/review", screeningHandler.ReviewScreening)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/screenings/{id} - Screening details
	r.Get("/api/screenings/{id}", screeningHandler.GetScreening)
}
