package wire

import (
	"cinema-reservation/internal/adaptor"
	"cinema-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSeats(r chi.Router, seatHandler *adaptor.SeatHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/screenings/{id}/seats/lock - Claim seats
		r.Post("/api/screenings/{id}/seats/lock", seatHandler.LockSeats)

		// POST /api/screenings/{id}/seats/unlock - Release claimed seats
		r.Post("/api/screenings/{id}/seats/unlock", seatHandler.UnlockSeats)

		// GET /api/screenings/{id}/seats/locks - Caller's live locks
		r.Get("/api/screenings/{id}/seats/locks", seatHandler.GetMyLocks)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/screenings/{id}/seats - Seat map of a screening
	r.Get("/api/screenings/{id}/seats", seatHandler.GetSeatGrid)
}
