package wire

import (
	"cinema-reservation/internal/adaptor"
	"cinema-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrders(r chi.Router, orderHandler *adaptor.OrderHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/orders - Convert seat locks into a pending order
		r.Post("/api/orders", orderHandler.CreateOrder)

		// GET /api/orders/{id} - Order details by UUID or order number
		r.Get("/api/orders/{id}", orderHandler.GetOrder)

		// GET /api/user/orders - Caller's order history
		r.Get("/api/user/orders", orderHandler.GetUserOrders)

		// PUT /api/orders/{id}/cancel - Cancel a pending order
		r.Put("/api/orders/{id}/cancel", orderHandler.CancelOrder)

		// POST /api/orders/{id}/pay - Mark an order paid
		r.Post("/api/orders/{id}/pay", orderHandler.PayOrder)
	})

	// ==================== CALLBACK ROUTES ====================
	// POST /api/payment/notify - Payment collaborator callback
	r.Post("/api/payment/notify", orderHandler.PaymentNotify)
}
