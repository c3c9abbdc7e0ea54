package usecase

import (
	"context"
	"errors"
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
	"go.uber.org/zap"
)

type SeatLockService interface {
	// LockSeats claims the requested seats for the user. Re-locking seats
	// the user already holds is idempotent and does not extend their
	// expiry. All pre-checks are advisory; the uniqueness constraint on
	// (screening_id, row_index, col_index) decides concurrent claims.
	LockSeats(ctx context.Context, userID uuid.UUID, screeningID string, req *request.LockSeatsRequest) (*response.LockSeatsResponse, error)

	// UnlockSeats releases the user's locks on the given seats. Seats the
	// user does not hold are skipped silently; Released reports whether
	// anything was removed.
	UnlockSeats(ctx context.Context, userID uuid.UUID, screeningID string, req *request.UnlockSeatsRequest) (*response.UnlockSeatsResponse, error)

	// FindActiveLocks returns the user's live locks on a screening.
	FindActiveLocks(ctx context.Context, userID uuid.UUID, screeningID string) (*response.LockSeatsResponse, error)

	// DeleteExpiredLocks removes locks whose expiry has passed. Called by
	// the reclaimer.
	DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error)
}

type seatLockService struct {
	repo   *repository.Repository
	txm    repository.TxManager
	rooms  repository.RoomRepository
	config *utils.Config
	pub    events.Publisher
	log    *zap.Logger
}

func NewSeatLockService(repo *repository.Repository, txm repository.TxManager, rooms repository.RoomRepository, config *utils.Config, publisher events.Publisher, log *zap.Logger) SeatLockService {
	return &seatLockService{
		repo:   repo,
		txm:    txm,
		rooms:  rooms,
		config: config,
		pub:    publisher,
		log:    log.With(zap.String("service", "seat_lock")),
	}
}

// lockDuration clamps the requested duration into [1s, max], falling back
// to the configured default when the request leaves it out.
func (s *seatLockService) lockDuration(requested int) time.Duration {
	seconds := requested
	if seconds <= 0 {
		seconds = s.config.Lock.DefaultDurationSeconds
	}
	if seconds > s.config.Lock.MaxDurationSeconds {
		seconds = s.config.Lock.MaxDurationSeconds
	}
	return time.Duration(seconds) * time.Second
}

// dedupeSeats rejects requests that name the same seat twice.
func dedupeSeats(seats []entity.SeatRef) error {
	seen := make(map[entity.SeatRef]struct{}, len(seats))
	var dups []string
	for _, seat := range seats {
		if _, ok := seen[seat]; ok {
			dups = append(dups, seat.Label())
		}
		seen[seat] = struct{}{}
	}
	if len(dups) > 0 {
		return apperror.Validation("duplicate seats in request", dups...)
	}
	return nil
}

func (s *seatLockService) LockSeats(ctx context.Context, userID uuid.UUID, screeningID string, req *request.LockSeatsRequest) (*response.LockSeatsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Lock seats validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	screeningUUID, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", screeningID))
	}

	seats := request.SeatRefs(req.Seats)
	if err := dedupeSeats(seats); err != nil {
		return nil, err
	}

	now := time.Now()
	expiry := now.Add(s.lockDuration(req.DurationSeconds))

	var locks []*entity.SeatLock
	err = s.txm.RunInTx(ctx, func(r *repository.Repository) error {
		screening, err := r.Screening.FindByID(ctx, screeningUUID)
		if err != nil {
			return err
		}
		if screening == nil {
			return apperror.NotFound(fmt.Sprintf("screening %s not found", screeningID))
		}
		if !screening.IsLockable(now) {
			return apperror.InvalidState("screening is not open for seat locking")
		}

		room, err := s.rooms.FindByID(ctx, screening.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return apperror.NotFound(fmt.Sprintf("room %s not found", screening.RoomID.String()))
		}

		var outOfRange []string
		for _, seat := range seats {
			if !room.Contains(seat) {
				outOfRange = append(outOfRange, seat.String())
			}
		}
		if len(outOfRange) > 0 {
			return apperror.Validation("seats outside the room layout", outOfRange...)
		}

		// Advisory pre-checks so losers get a readable answer listing the
		// seats at fault. The insert below is still the only arbiter.
		otherLocks, err := r.SeatLock.FindActiveForSeats(ctx, screeningUUID, seats, now)
		if err != nil {
			return err
		}
		var takenByOthers []string
		held := make(map[entity.SeatRef]*entity.SeatLock)
		for _, lock := range otherLocks {
			if lock.UserID == userID {
				held[lock.Seat()] = lock
				continue
			}
			takenByOthers = append(takenByOthers, lock.Seat().Label())
		}
		if len(takenByOthers) > 0 {
			return apperror.Conflict("seats are locked by another user", takenByOthers...)
		}

		sold, err := r.OrderSeat.FindByScreeningSeats(ctx, screeningUUID, seats)
		if err != nil {
			return err
		}
		if len(sold) > 0 {
			labels := make([]string, len(sold))
			for i, seat := range sold {
				labels[i] = seat.Seat().Label()
			}
			return apperror.Conflict("seats are already sold", labels...)
		}

		// Seats the user already holds stay as they are; only the
		// remainder is inserted.
		var toInsert []*entity.SeatLock
		for _, seat := range seats {
			if existing, ok := held[seat]; ok {
				locks = append(locks, existing)
				continue
			}
			lock := &entity.SeatLock{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: now,
				},
				ScreeningID: screeningUUID,
				RowIndex:    seat.Row,
				ColIndex:    seat.Col,
				UserID:      userID,
				ExpiryTime:  expiry,
			}
			toInsert = append(toInsert, lock)
			locks = append(locks, lock)
		}

		// Dead rows on these seats would trip the uniqueness constraint
		// even though they no longer hold anything.
		if _, err := r.SeatLock.DeleteExpiredForSeats(ctx, screeningUUID, seats, now); err != nil {
			return err
		}

		if err := r.SeatLock.CreateBatch(ctx, toInsert); err != nil {
			if errors.Is(err, repository.ErrDuplicateSeatLock) {
				// Lost the race after the pre-checks passed.
				return apperror.ConflictFrom(err, "seats were claimed by another user")
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Seats locked",
		zap.String("screening_id", screeningID),
		zap.String("user_id", userID.String()),
		zap.Int("seat_count", len(locks)),
	)

	_ = s.pub.Publish(ctx, events.QueueSeatsLocked, events.SeatsLockedEvent{
		ScreeningID: screeningID,
		UserID:      userID.String(),
		Seats:       eventSeats(seats),
		ExpiryTime:  expiry,
	})

	return response.SeatLocksToResponse(screeningID, locks), nil
}

func (s *seatLockService) UnlockSeats(ctx context.Context, userID uuid.UUID, screeningID string, req *request.UnlockSeatsRequest) (*response.UnlockSeatsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Unlock seats validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	screeningUUID, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", screeningID))
	}

	screening, err := s.repo.Screening.FindByID(ctx, screeningUUID)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, apperror.NotFound(fmt.Sprintf("screening %s not found", screeningID))
	}

	seats := request.SeatRefs(req.Seats)
	deleted, err := s.repo.SeatLock.DeleteForUserSeats(ctx, userID, screeningUUID, seats)
	if err != nil {
		return nil, err
	}

	if deleted > 0 {
		s.log.Info("Seats unlocked",
			zap.String("screening_id", screeningID),
			zap.String("user_id", userID.String()),
			zap.Int64("released", deleted),
		)
		_ = s.pub.Publish(ctx, events.QueueSeatsUnlocked, events.SeatsUnlockedEvent{
			ScreeningID: screeningID,
			UserID:      userID.String(),
			Seats:       eventSeats(seats),
		})
	}

	return &response.UnlockSeatsResponse{
		ScreeningID: screeningID,
		Released:    deleted > 0,
	}, nil
}

func (s *seatLockService) FindActiveLocks(ctx context.Context, userID uuid.UUID, screeningID string) (*response.LockSeatsResponse, error) {
	screeningUUID, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", screeningID))
	}

	locks, err := s.repo.SeatLock.FindActiveForUser(ctx, userID, screeningUUID, time.Now())
	if err != nil {
		return nil, err
	}

	return response.SeatLocksToResponse(screeningID, locks), nil
}

func (s *seatLockService) DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.SeatLock.DeleteExpired(ctx, now)
}

func eventSeats(seats []entity.SeatRef) []events.Seat {
	out := make([]events.Seat, len(seats))
	for i, seat := range seats {
		out[i] = events.Seat{Row: seat.Row, Col: seat.Col}
	}
	return out
}
