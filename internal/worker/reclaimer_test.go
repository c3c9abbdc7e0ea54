package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSeatLockService struct {
	usecase.SeatLockService
	calls   atomic.Int64
	deleted int64
	err     error
}

func (s *stubSeatLockService) DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	s.calls.Add(1)
	return s.deleted, s.err
}

type stubOrderService struct {
	usecase.OrderService
	calls     atomic.Int64
	cancelled int64
	err       error
	cutoff    atomic.Value
}

func (s *stubOrderService) CancelTimedOutOrders(ctx context.Context, cutoff time.Time) (int64, error) {
	s.calls.Add(1)
	s.cutoff.Store(cutoff)
	return s.cancelled, s.err
}

func testReclaimerConfig(intervalSeconds int) *utils.Config {
	return &utils.Config{
		Order:     utils.OrderConfig{PaymentTimeoutMinutes: 15},
		Reclaimer: utils.ReclaimerConfig{IntervalSeconds: intervalSeconds},
	}
}

func TestRunOnce(t *testing.T) {
	t.Run("runs both jobs", func(t *testing.T) {
		locks := &stubSeatLockService{deleted: 3}
		orders := &stubOrderService{cancelled: 2}
		r := NewReclaimer(locks, orders, testReclaimerConfig(60), zap.NewNop())

		before := time.Now()
		r.RunOnce(context.Background())

		assert.Equal(t, int64(1), locks.calls.Load())
		assert.Equal(t, int64(1), orders.calls.Load())

		// Cutoff sits one payment timeout in the past.
		cutoff := orders.cutoff.Load().(time.Time)
		assert.WithinDuration(t, before.Add(-15*time.Minute), cutoff, time.Minute)
	})

	t.Run("lock job failure does not skip the order job", func(t *testing.T) {
		locks := &stubSeatLockService{err: errors.New("db down")}
		orders := &stubOrderService{}
		r := NewReclaimer(locks, orders, testReclaimerConfig(60), zap.NewNop())

		r.RunOnce(context.Background())

		assert.Equal(t, int64(1), orders.calls.Load())
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	locks := &stubSeatLockService{}
	orders := &stubOrderService{}
	r := NewReclaimer(locks, orders, testReclaimerConfig(1), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Wait for at least one tick, then stop.
	deadline := time.After(5 * time.Second)
	for locks.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reclaimer never ticked")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reclaimer did not stop on cancel")
	}
}
