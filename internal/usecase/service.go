package usecase

import (
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/events"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	SeatLock   SeatLockService
	Order      OrderService
	SeatStatus SeatStatusService
	Screening  ScreeningService
}

// NewService wires the services over a shared repository set. rooms is the
// room repository used for layout reads; callers may pass a cached variant
// since layouts are immutable.
func NewService(repo *repository.Repository, txm repository.TxManager, rooms repository.RoomRepository, config *utils.Config, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{
		SeatLock:   NewSeatLockService(repo, txm, rooms, config, publisher, log),
		Order:      NewOrderService(repo, txm, config, publisher, log),
		SeatStatus: NewSeatStatusService(repo, txm, rooms, log),
		Screening:  NewScreeningService(repo, log),
	}
}
