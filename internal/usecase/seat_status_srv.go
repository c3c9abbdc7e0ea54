package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatStatusService interface {
	// GetSeatGrid projects the seat map of a screening. Sold wins over
	// locked; a lock row whose expiry has passed reads as available even
	// before the reclaimer deletes it.
	GetSeatGrid(ctx context.Context, screeningID string) (*response.SeatGridResponse, error)
}

type seatStatusService struct {
	repo  *repository.Repository
	txm   repository.TxManager
	rooms repository.RoomRepository
	log   *zap.Logger
}

func NewSeatStatusService(repo *repository.Repository, txm repository.TxManager, rooms repository.RoomRepository, log *zap.Logger) SeatStatusService {
	return &seatStatusService{
		repo:  repo,
		txm:   txm,
		rooms: rooms,
		log:   log.With(zap.String("service", "seat_status")),
	}
}

func (s *seatStatusService) GetSeatGrid(ctx context.Context, screeningID string) (*response.SeatGridResponse, error) {
	screeningUUID, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", screeningID))
	}

	now := time.Now()
	var room *entity.Room
	var locks []*entity.SeatLock
	var sold []*entity.OrderSeat

	// One transaction so locks and sold seats come from the same moment.
	err = s.txm.RunInTx(ctx, func(r *repository.Repository) error {
		screening, err := r.Screening.FindByID(ctx, screeningUUID)
		if err != nil {
			return err
		}
		if screening == nil {
			return apperror.NotFound(fmt.Sprintf("screening %s not found", screeningID))
		}
		if !screening.IsLockable(now) {
			return apperror.InvalidState("screening is not open for sale")
		}

		room, err = s.rooms.FindByID(ctx, screening.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return apperror.NotFound(fmt.Sprintf("room %s not found", screening.RoomID.String()))
		}

		locks, err = r.SeatLock.FindActiveByScreening(ctx, screeningUUID, now)
		if err != nil {
			return err
		}

		sold, err = r.OrderSeat.FindByScreeningID(ctx, screeningUUID)
		return err
	})
	if err != nil {
		return nil, err
	}

	grid := make([][]entity.SeatStatus, room.RowCount)
	for r := 0; r < room.RowCount; r++ {
		grid[r] = make([]entity.SeatStatus, room.ColCount)
		for c := 0; c < room.ColCount; c++ {
			grid[r][c] = entity.SeatStatus{Row: r + 1, Col: c + 1, State: entity.SeatStateAvailable}
		}
	}

	mark := func(seat entity.SeatRef, state entity.SeatState) {
		// Rows outside the layout are skipped rather than crashing the
		// projection; they cannot be produced through the lock path.
		if seat.Row < 1 || seat.Row > room.RowCount || seat.Col < 1 || seat.Col > room.ColCount {
			s.log.Warn("Seat outside room layout in projection",
				zap.String("screening_id", screeningID),
				zap.String("seat", seat.String()),
			)
			return
		}
		grid[seat.Row-1][seat.Col-1].State = state
	}

	for _, lock := range locks {
		mark(lock.Seat(), entity.SeatStateLocked)
	}
	for _, seat := range sold {
		mark(seat.Seat(), entity.SeatStateSold)
	}

	return &response.SeatGridResponse{
		ScreeningID: screeningID,
		Rows:        room.RowCount,
		Cols:        room.ColCount,
		Grid:        grid,
	}, nil
}
