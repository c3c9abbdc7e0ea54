// Package worker hosts the background reclaimer that garbage-collects
// expired seat locks and times out unpaid orders. Correctness never depends
// on it running: reads filter on expiry and status; the reclaimer only keeps
// the tables small and the seat maps tidy.
package worker

import (
	"context"
	"time"

	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Reclaimer struct {
	seatLocks usecase.SeatLockService
	orders    usecase.OrderService
	interval  time.Duration
	timeout   time.Duration
	log       *zap.Logger
}

func NewReclaimer(seatLocks usecase.SeatLockService, orders usecase.OrderService, config *utils.Config, log *zap.Logger) *Reclaimer {
	return &Reclaimer{
		seatLocks: seatLocks,
		orders:    orders,
		interval:  time.Duration(config.Reclaimer.IntervalSeconds) * time.Second,
		timeout:   time.Duration(config.Order.PaymentTimeoutMinutes) * time.Minute,
		log:       log.With(zap.String("worker", "reclaimer")),
	}
}

// Run ticks until the context is cancelled. Each pass runs both jobs;
// failures are logged and retried on the next tick.
func (r *Reclaimer) Run(ctx context.Context) {
	r.log.Info("Reclaimer started",
		zap.Duration("interval", r.interval),
		zap.Duration("payment_timeout", r.timeout),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Reclaimer stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes one reclaim pass.
func (r *Reclaimer) RunOnce(ctx context.Context) {
	now := time.Now()

	deleted, err := r.seatLocks.DeleteExpiredLocks(ctx, now)
	if err != nil {
		r.log.Error("Failed to delete expired seat locks", zap.Error(err))
	} else if deleted > 0 {
		r.log.Info("Expired seat locks deleted", zap.Int64("count", deleted))
	}

	cancelled, err := r.orders.CancelTimedOutOrders(ctx, now.Add(-r.timeout))
	if err != nil {
		r.log.Error("Failed to cancel timed-out orders", zap.Error(err))
	} else if cancelled > 0 {
		r.log.Info("Timed-out orders cancelled", zap.Int64("count", cancelled))
	}
}
