package repository

import (
	"cinema-reservation/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Movie     MovieRepository
	Cinema    CinemaRepository
	Room      RoomRepository
	Screening ScreeningRepository
	SeatLock  SeatLockRepository
	Order     OrderRepository
	OrderSeat OrderSeatRepository
}

// NewRepository builds the repository set over any Queryer, so the same
// constructor serves both the connection pool and a transaction.
func NewRepository(db database.Queryer, log *zap.Logger) *Repository {
	return &Repository{
		Movie:     NewMovieRepository(db, log),
		Cinema:    NewCinemaRepository(db, log),
		Room:      NewRoomRepository(db, log),
		Screening: NewScreeningRepository(db, log),
		SeatLock:  NewSeatLockRepository(db, log),
		Order:     NewOrderRepository(db, log),
		OrderSeat: NewOrderSeatRepository(db, log),
	}
}
