package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/internal/events"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	// CreateOrder converts the user's live seat locks into a pending
	// order. Every requested seat must be covered by a live lock of the
	// same user; the locks are consumed in the same transaction that
	// writes the order and its seats.
	CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error)

	// GetOrder fetches one order by UUID or order number. Orders of other
	// users read as not found.
	GetOrder(ctx context.Context, userID uuid.UUID, identifier string) (*response.OrderResponse, error)

	GetUserOrders(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)

	// CancelOrder cancels an order and frees its seats. Pending orders are
	// always cancellable; paid orders only before the screening starts.
	CancelOrder(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error)

	// MarkOrderPaid transitions PENDING_PAYMENT -> PAID. Repeating the
	// call on a paid order is a no-op success.
	MarkOrderPaid(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error)

	// HandlePaymentNotify applies the paid transition from a payment
	// callback after checking the amount against the order total.
	HandlePaymentNotify(ctx context.Context, req *request.PaymentNotifyRequest) (*response.OrderResponse, error)

	// CancelTimedOutOrders cancels pending orders created before the
	// cutoff and frees their seats. Called by the reclaimer.
	CancelTimedOutOrders(ctx context.Context, cutoff time.Time) (int64, error)
}

type orderService struct {
	repo   *repository.Repository
	txm    repository.TxManager
	config *utils.Config
	pub    events.Publisher
	log    *zap.Logger
}

func NewOrderService(repo *repository.Repository, txm repository.TxManager, config *utils.Config, publisher events.Publisher, log *zap.Logger) OrderService {
	return &orderService{
		repo:   repo,
		txm:    txm,
		config: config,
		pub:    publisher,
		log:    log.With(zap.String("service", "order")),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create order validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	screeningUUID, err := uuid.Parse(req.ScreeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", req.ScreeningID))
	}

	seats := request.SeatRefs(req.Seats)
	if err := dedupeSeats(seats); err != nil {
		return nil, err
	}

	now := time.Now()
	var order *entity.Order
	var orderSeats []*entity.OrderSeat
	var screening *entity.Screening

	err = s.txm.RunInTx(ctx, func(r *repository.Repository) error {
		screening, err = r.Screening.FindByID(ctx, screeningUUID)
		if err != nil {
			return err
		}
		if screening == nil {
			return apperror.NotFound(fmt.Sprintf("screening %s not found", req.ScreeningID))
		}
		if !screening.IsPurchasable(now) {
			return apperror.InvalidState("screening is not open for purchase")
		}

		// Every seat must be covered by a live lock of this user. A lock
		// that expired between locking and checkout shows up here as
		// missing, even if the reclaimer has not deleted the row yet.
		locks, err := r.SeatLock.FindActiveForUserSeats(ctx, userID, screeningUUID, seats, now)
		if err != nil {
			return err
		}
		// The query filtered on the timestamp captured at entry; re-check
		// against a fresh clock so a lock that expired while this
		// transaction ran still counts as missing.
		recheck := time.Now()
		held := make(map[entity.SeatRef]struct{}, len(locks))
		for _, lock := range locks {
			if !lock.IsLive(recheck) {
				continue
			}
			held[lock.Seat()] = struct{}{}
		}
		var missing []string
		for _, seat := range seats {
			if _, ok := held[seat]; !ok {
				missing = append(missing, seat.Label())
			}
		}
		if len(missing) > 0 {
			return apperror.Conflict("seats are not locked by you or the lock expired", missing...)
		}

		total := screening.Price.Mul(decimal.NewFromInt(int64(len(seats))))
		order = &entity.Order{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			OrderNo:     utils.GenerateOrderNumber(),
			UserID:      userID,
			ScreeningID: screeningUUID,
			CinemaID:    screening.CinemaID,
			MovieID:     screening.MovieID,
			TotalAmount: total,
			SeatCount:   len(seats),
			Status:      entity.OrderStatusPendingPayment,
		}
		if err := r.Order.Create(ctx, order); err != nil {
			return err
		}

		orderSeats = make([]*entity.OrderSeat, len(seats))
		for i, seat := range seats {
			orderSeats[i] = &entity.OrderSeat{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: now,
				},
				OrderID:     order.ID,
				ScreeningID: screeningUUID,
				RowIndex:    seat.Row,
				ColIndex:    seat.Col,
				SeatLabel:   seat.Label(),
			}
		}
		if err := r.OrderSeat.CreateBatch(ctx, orderSeats); err != nil {
			return err
		}

		// Locks are consumed by the sale.
		if _, err := r.SeatLock.DeleteForUserSeats(ctx, userID, screeningUUID, seats); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created",
		zap.String("order_no", order.OrderNo),
		zap.String("user_id", userID.String()),
		zap.String("screening_id", req.ScreeningID),
		zap.Int("seat_count", order.SeatCount),
	)

	_ = s.pub.Publish(ctx, events.QueueOrderCreated, events.OrderCreatedEvent{
		OrderID:     order.ID.String(),
		OrderNo:     order.OrderNo,
		ScreeningID: req.ScreeningID,
		UserID:      userID.String(),
		SeatCount:   order.SeatCount,
		TotalAmount: order.TotalAmount.String(),
	})

	return s.toResponse(ctx, order, orderSeats)
}

// findOwnedOrder resolves the identifier as a UUID first, then as an order
// number, and hides other users' orders behind not-found.
func (s *orderService) findOwnedOrder(ctx context.Context, repo *repository.Repository, userID uuid.UUID, identifier string) (*entity.Order, error) {
	var order *entity.Order
	var err error

	if id, parseErr := uuid.Parse(identifier); parseErr == nil {
		order, err = repo.Order.FindByID(ctx, id)
	} else {
		order, err = repo.Order.FindByOrderNo(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, apperror.NotFound(fmt.Sprintf("order %s not found", identifier))
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, identifier string) (*response.OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, s.repo, userID, identifier)
	if err != nil {
		return nil, err
	}

	seats, err := s.repo.OrderSeat.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, order, seats)
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("List orders validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	orders, err := s.repo.Order.FindByUserID(ctx, userID, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Order.CountByUserID(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	items := make([]response.OrderResponse, len(orders))
	for i, order := range orders {
		resp, err := s.toResponse(ctx, order, nil)
		if err != nil {
			return nil, err
		}
		items[i] = *resp
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error) {
	now := time.Now()
	var order *entity.Order

	err := s.txm.RunInTx(ctx, func(r *repository.Repository) error {
		var err error
		order, err = s.findOwnedOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		switch order.Status {
		case entity.OrderStatusPendingPayment:
			// Always cancellable.
		case entity.OrderStatusPaid:
			// Refund path: only before the screening starts.
			screening, err := r.Screening.FindByID(ctx, order.ScreeningID)
			if err != nil {
				return err
			}
			if screening == nil || !screening.StartTime.After(now) {
				return apperror.InvalidState("paid order cannot be cancelled after the screening started")
			}
		default:
			return apperror.InvalidState(fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		ok, err := r.Order.MarkCancelled(ctx, order.ID, now, []entity.OrderStatus{order.Status})
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidState(fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		// Cancellation frees the seats for sale again.
		if _, err := r.OrderSeat.DeleteByOrderID(ctx, order.ID); err != nil {
			return err
		}

		order.Status = entity.OrderStatusCancelled
		order.CancelTime = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order cancelled",
		zap.String("order_no", order.OrderNo),
		zap.String("user_id", userID.String()),
	)

	_ = s.pub.Publish(ctx, events.QueueOrderCancelled, events.OrderCancelledEvent{
		OrderID:     order.ID.String(),
		OrderNo:     order.OrderNo,
		ScreeningID: order.ScreeningID.String(),
		UserID:      userID.String(),
	})

	return s.toResponse(ctx, order, nil)
}

// applyPaid performs the idempotent paid transition shared by the user-facing
// endpoint and the payment callback.
func (s *orderService) applyPaid(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if order.Status == entity.OrderStatusPaid {
		return order, nil
	}

	now := time.Now()
	ok, err := s.repo.Order.MarkPaid(ctx, order.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The status filter rejected the update; reread to tell a lost
		// race against another payment from a genuinely bad state.
		current, err := s.repo.Order.FindByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Status == entity.OrderStatusPaid {
			return current, nil
		}
		return nil, apperror.InvalidState(fmt.Sprintf("order in status %s cannot be paid", order.Status))
	}

	order.Status = entity.OrderStatusPaid
	order.PaymentTime = &now

	s.log.Info("Order paid", zap.String("order_no", order.OrderNo))

	_ = s.pub.Publish(ctx, events.QueueOrderPaid, events.OrderPaidEvent{
		OrderID:     order.ID.String(),
		OrderNo:     order.OrderNo,
		UserID:      order.UserID.String(),
		PaymentTime: now,
	})

	return order, nil
}

func (s *orderService) MarkOrderPaid(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, s.repo, userID, orderID)
	if err != nil {
		return nil, err
	}

	order, err = s.applyPaid(ctx, order)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, order, nil)
}

func (s *orderService) HandlePaymentNotify(ctx context.Context, req *request.PaymentNotifyRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Payment notify validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid user ID format %s", req.UserID))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid payment amount %s", req.Amount))
	}

	order, err := s.findOwnedOrder(ctx, s.repo, userID, req.OrderNo)
	if err != nil {
		return nil, err
	}

	if !amount.Equal(order.TotalAmount) {
		s.log.Warn("Payment amount mismatch",
			zap.String("order_no", order.OrderNo),
			zap.String("expected", order.TotalAmount.String()),
			zap.String("received", req.Amount),
		)
		return nil, apperror.Validation("payment amount does not match order total")
	}

	order, err = s.applyPaid(ctx, order)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, order, nil)
}

func (s *orderService) CancelTimedOutOrders(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now()
	var cancelled []uuid.UUID

	err := s.txm.RunInTx(ctx, func(r *repository.Repository) error {
		ids, err := r.Order.FindTimedOutPendingIDs(ctx, cutoff)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		// Only orders still pending at update time come back; seats are
		// freed for those alone.
		cancelled, err = r.Order.CancelBatch(ctx, ids, now)
		if err != nil {
			return err
		}
		if _, err := r.OrderSeat.DeleteByOrderIDs(ctx, cancelled); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(cancelled) > 0 {
		s.log.Info("Timed-out orders cancelled",
			zap.Int("count", len(cancelled)),
			zap.Time("cutoff", cutoff),
		)
		_ = s.pub.Publish(ctx, events.QueueOrdersReclaimed, events.OrdersReclaimedEvent{
			CancelledCount: int64(len(cancelled)),
			Cutoff:         cutoff,
		})
	}

	return int64(len(cancelled)), nil
}

// toResponse assembles the order view, fetching the denormalized screening,
// movie, cinema and room names. seats may be nil for list views.
func (s *orderService) toResponse(ctx context.Context, order *entity.Order, seats []*entity.OrderSeat) (*response.OrderResponse, error) {
	screening, err := s.repo.Screening.FindByID(ctx, order.ScreeningID)
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, order.MovieID)
	if err != nil {
		return nil, err
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, order.CinemaID)
	if err != nil {
		return nil, err
	}

	var room *entity.Room
	if screening != nil {
		room, err = s.repo.Room.FindByID(ctx, screening.RoomID)
		if err != nil {
			return nil, err
		}
	}

	return response.OrderToResponse(order, screening, movie, cinema, room, seats), nil
}
