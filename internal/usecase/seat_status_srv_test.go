package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeatStatusEnv(t *testing.T) (*testEnv, SeatStatusService, *entity.Screening) {
	t.Helper()
	env := newTestEnv()
	cinema := env.addCinema()
	movie := env.addMovie(120)
	room := env.addRoom(cinema.ID, 3, 4)
	screening := env.addScreening(movie, room, time.Now().Add(2*time.Hour), "50000", entity.ScreeningStatusApproved)
	svc := NewSeatStatusService(env.repo, env.txm, env.repo.Room, env.log)
	return env, svc, screening
}

func TestGetSeatGrid(t *testing.T) {
	ctx := context.Background()

	t.Run("projects available, locked and sold", func(t *testing.T) {
		env, svc, screening := newSeatStatusEnv(t)
		env.addLock(screening.ID, uuid.New(), entity.SeatRef{Row: 1, Col: 2}, time.Now().Add(10*time.Minute))
		env.addLock(screening.ID, uuid.New(), entity.SeatRef{Row: 2, Col: 2}, time.Now().Add(-time.Minute)) // expired
		env.store.orderSeats = append(env.store.orderSeats, &entity.OrderSeat{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			OrderID:     uuid.New(),
			ScreeningID: screening.ID,
			RowIndex:    3,
			ColIndex:    4,
			SeatLabel:   "C4",
		})

		grid, err := svc.GetSeatGrid(ctx, screening.ID.String())
		require.NoError(t, err)

		assert.Equal(t, 3, grid.Rows)
		assert.Equal(t, 4, grid.Cols)
		assert.Equal(t, entity.SeatStateLocked, grid.Grid[0][1].State)
		assert.Equal(t, entity.SeatStateAvailable, grid.Grid[1][1].State) // expired lock
		assert.Equal(t, entity.SeatStateSold, grid.Grid[2][3].State)
		assert.Equal(t, entity.SeatStateAvailable, grid.Grid[0][0].State)
	})

	t.Run("sold wins over a lingering lock", func(t *testing.T) {
		env, svc, screening := newSeatStatusEnv(t)
		env.addLock(screening.ID, uuid.New(), entity.SeatRef{Row: 1, Col: 1}, time.Now().Add(10*time.Minute))
		env.store.orderSeats = append(env.store.orderSeats, &entity.OrderSeat{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			OrderID:     uuid.New(),
			ScreeningID: screening.ID,
			RowIndex:    1,
			ColIndex:    1,
			SeatLabel:   "A1",
		})

		grid, err := svc.GetSeatGrid(ctx, screening.ID.String())
		require.NoError(t, err)
		assert.Equal(t, entity.SeatStateSold, grid.Grid[0][0].State)
	})

	t.Run("unknown screening", func(t *testing.T) {
		_, svc, _ := newSeatStatusEnv(t)

		_, err := svc.GetSeatGrid(ctx, uuid.New().String())
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("screening not approved", func(t *testing.T) {
		env, svc, _ := newSeatStatusEnv(t)
		movie := env.addMovie(90)
		room := env.addRoom(env.addCinema().ID, 2, 2)
		pending := env.addScreening(movie, room, time.Now().Add(time.Hour), "40000", entity.ScreeningStatusPendingApproval)

		_, err := svc.GetSeatGrid(ctx, pending.ID.String())
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})
}
