package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeStore is an in-memory stand-in for Postgres, shared by the fake
// repositories so cross-table behavior (locks vs sold seats) matches the
// real schema, including the uniqueness constraint on seat_locks.
type fakeStore struct {
	mu         sync.Mutex
	screenings map[uuid.UUID]*entity.Screening
	rooms      map[uuid.UUID]*entity.Room
	movies     map[uuid.UUID]*entity.Movie
	cinemas    map[uuid.UUID]*entity.Cinema
	locks      []*entity.SeatLock
	orders     map[uuid.UUID]*entity.Order
	orderSeats []*entity.OrderSeat
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		screenings: make(map[uuid.UUID]*entity.Screening),
		rooms:      make(map[uuid.UUID]*entity.Room),
		movies:     make(map[uuid.UUID]*entity.Movie),
		cinemas:    make(map[uuid.UUID]*entity.Cinema),
		orders:     make(map[uuid.UUID]*entity.Order),
	}
}

func (s *fakeStore) repository() *repository.Repository {
	return &repository.Repository{
		Movie:     &fakeMovieRepo{s},
		Cinema:    &fakeCinemaRepo{s},
		Room:      &fakeRoomRepo{s},
		Screening: &fakeScreeningRepo{s},
		SeatLock:  &fakeSeatLockRepo{s},
		Order:     &fakeOrderRepo{s},
		OrderSeat: &fakeOrderSeatRepo{s},
	}
}

// fakeTxManager runs the function against the same fake repositories; the
// store has no rollback, which is fine for tests that assert on the error
// paths before any write happens.
type fakeTxManager struct {
	repo *repository.Repository
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(r *repository.Repository) error) error {
	return fn(m.repo)
}

type publishedEvent struct {
	queue string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{queue: queue, event: event})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) queues() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.queue
	}
	return out
}

func testConfig() *utils.Config {
	return &utils.Config{
		Lock:      utils.LockConfig{DefaultDurationSeconds: 600, MaxDurationSeconds: 1800},
		Order:     utils.OrderConfig{PaymentTimeoutMinutes: 15},
		Reclaimer: utils.ReclaimerConfig{IntervalSeconds: 60},
	}
}

// testEnv bundles the pieces every service test needs.
type testEnv struct {
	store *fakeStore
	repo  *repository.Repository
	txm   *fakeTxManager
	pub   *fakePublisher
	cfg   *utils.Config
	log   *zap.Logger
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	repo := store.repository()
	return &testEnv{
		store: store,
		repo:  repo,
		txm:   &fakeTxManager{repo: repo},
		pub:   &fakePublisher{},
		cfg:   testConfig(),
		log:   zap.NewNop(),
	}
}

func (e *testEnv) addCinema() *entity.Cinema {
	c := &entity.Cinema{
		Base: entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name: "Central",
	}
	e.store.cinemas[c.ID] = c
	return c
}

func (e *testEnv) addMovie(duration int) *entity.Movie {
	m := &entity.Movie{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title:    "Interstellar",
		Duration: duration,
	}
	e.store.movies[m.ID] = m
	return m
}

func (e *testEnv) addRoom(cinemaID uuid.UUID, rows, cols int) *entity.Room {
	r := &entity.Room{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		CinemaID: cinemaID,
		Name:     "Room 1",
		RowCount: rows,
		ColCount: cols,
	}
	e.store.rooms[r.ID] = r
	return r
}

func (e *testEnv) addScreening(movie *entity.Movie, room *entity.Room, start time.Time, price string, status entity.ScreeningStatus) *entity.Screening {
	s := &entity.Screening{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		MovieID:   movie.ID,
		RoomID:    room.ID,
		CinemaID:  room.CinemaID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(movie.Duration) * time.Minute),
		Price:     mustDecimal(price),
		Status:    status,
	}
	e.store.screenings[s.ID] = s
	return s
}

func (e *testEnv) addLock(screeningID, userID uuid.UUID, seat entity.SeatRef, expiry time.Time) *entity.SeatLock {
	lock := &entity.SeatLock{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		ScreeningID: screeningID,
		RowIndex:    seat.Row,
		ColIndex:    seat.Col,
		UserID:      userID,
		ExpiryTime:  expiry,
	}
	e.store.locks = append(e.store.locks, lock)
	return lock
}

// ---------------- repositories ----------------

type fakeScreeningRepo struct{ s *fakeStore }

func (r *fakeScreeningRepo) Create(ctx context.Context, screening *entity.Screening) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.screenings[screening.ID] = screening
	return nil
}

func (r *fakeScreeningRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.screenings[id], nil
}

func (r *fakeScreeningRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ScreeningStatus, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.screenings[id]
	if !ok {
		return fmt.Errorf("screening %s not found", id.String())
	}
	s.Status = status
	s.UpdatedAt = updatedAt
	return nil
}

func (r *fakeScreeningRepo) FindConflicting(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Screening, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Screening
	for _, s := range r.s.screenings {
		if s.RoomID != roomID {
			continue
		}
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.Status != entity.ScreeningStatusApproved && s.Status != entity.ScreeningStatusPendingApproval {
			continue
		}
		if s.StartTime.Before(end) && s.EndTime.After(start) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSeatLockRepo struct{ s *fakeStore }

func (r *fakeSeatLockRepo) CreateBatch(ctx context.Context, locks []*entity.SeatLock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lock := range locks {
		for _, existing := range r.s.locks {
			if existing.ScreeningID == lock.ScreeningID &&
				existing.RowIndex == lock.RowIndex &&
				existing.ColIndex == lock.ColIndex {
				return fmt.Errorf("create seat locks: %w", repository.ErrDuplicateSeatLock)
			}
		}
	}
	r.s.locks = append(r.s.locks, locks...)
	return nil
}

func (r *fakeSeatLockRepo) find(screeningID uuid.UUID, match func(*entity.SeatLock) bool) []*entity.SeatLock {
	var out []*entity.SeatLock
	for _, lock := range r.s.locks {
		if lock.ScreeningID == screeningID && match(lock) {
			out = append(out, lock)
		}
	}
	return out
}

func inSeats(lock *entity.SeatLock, seats []entity.SeatRef) bool {
	for _, seat := range seats {
		if lock.RowIndex == seat.Row && lock.ColIndex == seat.Col {
			return true
		}
	}
	return false
}

func (r *fakeSeatLockRepo) FindActiveForSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) ([]*entity.SeatLock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(screeningID, func(l *entity.SeatLock) bool {
		return l.ExpiryTime.After(now) && inSeats(l, seats)
	}), nil
}

func (r *fakeSeatLockRepo) FindActiveForUserSeats(ctx context.Context, userID, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) ([]*entity.SeatLock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(screeningID, func(l *entity.SeatLock) bool {
		return l.UserID == userID && l.ExpiryTime.After(now) && inSeats(l, seats)
	}), nil
}

func (r *fakeSeatLockRepo) FindActiveByScreening(ctx context.Context, screeningID uuid.UUID, now time.Time) ([]*entity.SeatLock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(screeningID, func(l *entity.SeatLock) bool {
		return l.ExpiryTime.After(now)
	}), nil
}

func (r *fakeSeatLockRepo) FindActiveForUser(ctx context.Context, userID, screeningID uuid.UUID, now time.Time) ([]*entity.SeatLock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(screeningID, func(l *entity.SeatLock) bool {
		return l.UserID == userID && l.ExpiryTime.After(now)
	}), nil
}

func (r *fakeSeatLockRepo) deleteWhere(match func(*entity.SeatLock) bool) int64 {
	var kept []*entity.SeatLock
	var deleted int64
	for _, lock := range r.s.locks {
		if match(lock) {
			deleted++
			continue
		}
		kept = append(kept, lock)
	}
	r.s.locks = kept
	return deleted
}

func (r *fakeSeatLockRepo) DeleteForUserSeats(ctx context.Context, userID, screeningID uuid.UUID, seats []entity.SeatRef) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(l *entity.SeatLock) bool {
		return l.ScreeningID == screeningID && l.UserID == userID && inSeats(l, seats)
	}), nil
}

func (r *fakeSeatLockRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(l *entity.SeatLock) bool {
		return l.ExpiryTime.Before(now)
	}), nil
}

func (r *fakeSeatLockRepo) DeleteExpiredForSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(l *entity.SeatLock) bool {
		return l.ScreeningID == screeningID && !l.ExpiryTime.After(now) && inSeats(l, seats)
	}), nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.orders[id], nil
}

func (r *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID != userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeOrderRepo) CountByUserID(ctx context.Context, userID uuid.UUID, status *entity.OrderStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, o := range r.s.orders {
		if o.UserID != userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentTime time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Status != entity.OrderStatusPendingPayment {
		return false, nil
	}
	o.Status = entity.OrderStatusPaid
	o.PaymentTime = &paymentTime
	o.UpdatedAt = paymentTime
	return true, nil
}

func (r *fakeOrderRepo) MarkCancelled(ctx context.Context, id uuid.UUID, cancelTime time.Time, allowedFrom []entity.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, status := range allowedFrom {
		if o.Status == status {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	o.Status = entity.OrderStatusCancelled
	o.CancelTime = &cancelTime
	o.UpdatedAt = cancelTime
	return true, nil
}

func (r *fakeOrderRepo) FindTimedOutPendingIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for _, o := range r.s.orders {
		if o.Status == entity.OrderStatusPendingPayment && o.CreatedAt.Before(cutoff) {
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func (r *fakeOrderRepo) CancelBatch(ctx context.Context, ids []uuid.UUID, cancelTime time.Time) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var cancelled []uuid.UUID
	for _, id := range ids {
		o, ok := r.s.orders[id]
		if !ok || o.Status != entity.OrderStatusPendingPayment {
			continue
		}
		o.Status = entity.OrderStatusCancelled
		o.CancelTime = &cancelTime
		o.UpdatedAt = cancelTime
		cancelled = append(cancelled, id)
	}
	return cancelled, nil
}

type fakeOrderSeatRepo struct{ s *fakeStore }

func (r *fakeOrderSeatRepo) CreateBatch(ctx context.Context, seats []*entity.OrderSeat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderSeats = append(r.s.orderSeats, seats...)
	return nil
}

func (r *fakeOrderSeatRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderSeat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderSeat
	for _, seat := range r.s.orderSeats {
		if seat.OrderID == orderID {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowIndex != out[j].RowIndex {
			return out[i].RowIndex < out[j].RowIndex
		}
		return out[i].ColIndex < out[j].ColIndex
	})
	return out, nil
}

func (r *fakeOrderSeatRepo) FindByScreeningID(ctx context.Context, screeningID uuid.UUID) ([]*entity.OrderSeat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderSeat
	for _, seat := range r.s.orderSeats {
		if seat.ScreeningID == screeningID {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (r *fakeOrderSeatRepo) FindByScreeningSeats(ctx context.Context, screeningID uuid.UUID, seats []entity.SeatRef) ([]*entity.OrderSeat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderSeat
	for _, seat := range r.s.orderSeats {
		if seat.ScreeningID != screeningID {
			continue
		}
		for _, ref := range seats {
			if seat.RowIndex == ref.Row && seat.ColIndex == ref.Col {
				out = append(out, seat)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOrderSeatRepo) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	return r.DeleteByOrderIDs(ctx, []uuid.UUID{orderID})
}

func (r *fakeOrderSeatRepo) DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[uuid.UUID]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		ids[id] = struct{}{}
	}
	var kept []*entity.OrderSeat
	var deleted int64
	for _, seat := range r.s.orderSeats {
		if _, ok := ids[seat.OrderID]; ok {
			deleted++
			continue
		}
		kept = append(kept, seat)
	}
	r.s.orderSeats = kept
	return deleted, nil
}

type fakeRoomRepo struct{ s *fakeStore }

func (r *fakeRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rooms[id], nil
}

type fakeMovieRepo struct{ s *fakeStore }

func (r *fakeMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.movies[id], nil
}

type fakeCinemaRepo struct{ s *fakeStore }

func (r *fakeCinemaRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cinema, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.cinemas[id], nil
}
