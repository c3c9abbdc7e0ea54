package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ScreeningService interface {
	// ProposeScreening creates a screening in PENDING_APPROVAL. The end
	// time is derived from the movie duration; the room must be free over
	// the half-open interval [start, end).
	ProposeScreening(ctx context.Context, req *request.ProposeScreeningRequest) (*response.ScreeningResponse, error)

	// ReviewScreening approves or rejects a pending screening. Approval
	// re-checks the room for conflicts, excluding the screening itself.
	ReviewScreening(ctx context.Context, screeningID string, req *request.ReviewScreeningRequest) (*response.ScreeningResponse, error)

	// HasConflict reports whether another screening occupies the room over
	// [start, end). Touching endpoints do not conflict.
	HasConflict(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	GetScreening(ctx context.Context, screeningID string) (*response.ScreeningResponse, error)
}

type screeningService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewScreeningService(repo *repository.Repository, log *zap.Logger) ScreeningService {
	return &screeningService{
		repo: repo,
		log:  log.With(zap.String("service", "screening")),
	}
}

func (s *screeningService) HasConflict(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	conflicts, err := s.repo.Screening.FindConflicting(ctx, roomID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

func (s *screeningService) ProposeScreening(ctx context.Context, req *request.ProposeScreeningRequest) (*response.ScreeningResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Propose screening validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid movie ID format %s", req.MovieID))
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid room ID format %s", req.RoomID))
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid start time %s, expected RFC3339", req.StartTime))
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, apperror.Validation(fmt.Sprintf("invalid price %s", req.Price))
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperror.NotFound(fmt.Sprintf("movie %s not found", req.MovieID))
	}

	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperror.NotFound(fmt.Sprintf("room %s not found", req.RoomID))
	}

	endTime := startTime.Add(time.Duration(movie.Duration) * time.Minute)

	conflict, err := s.HasConflict(ctx, roomID, startTime, endTime, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperror.Conflict("room is already scheduled over this time")
	}

	now := time.Now()
	screening := &entity.Screening{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:   movieID,
		RoomID:    roomID,
		CinemaID:  room.CinemaID,
		StartTime: startTime,
		EndTime:   endTime,
		Price:     price,
		Status:    entity.ScreeningStatusPendingApproval,
	}

	if err := s.repo.Screening.Create(ctx, screening); err != nil {
		return nil, err
	}

	s.log.Info("Screening proposed",
		zap.String("screening_id", screening.ID.String()),
		zap.String("room_id", req.RoomID),
		zap.Time("start_time", startTime),
	)

	return response.ScreeningToResponse(screening), nil
}

func (s *screeningService) ReviewScreening(ctx context.Context, screeningID string, req *request.ReviewScreeningRequest) (*response.ScreeningResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Review screening validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", screeningID))
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, apperror.NotFound(fmt.Sprintf("screening %s not found", screeningID))
	}
	if screening.Status != entity.ScreeningStatusPendingApproval {
		return nil, apperror.InvalidState(fmt.Sprintf("screening in status %s cannot be reviewed", screening.Status))
	}

	status := entity.ScreeningStatusRejected
	if *req.Approved {
		// Another screening may have been approved for the room since the
		// proposal; re-check, skipping this screening's own record.
		conflict, err := s.HasConflict(ctx, screening.RoomID, screening.StartTime, screening.EndTime, &id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperror.Conflict("room is already scheduled over this time")
		}
		status = entity.ScreeningStatusApproved
	}

	now := time.Now()
	if err := s.repo.Screening.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}

	screening.Status = status
	screening.UpdatedAt = now

	s.log.Info("Screening reviewed",
		zap.String("screening_id", screeningID),
		zap.String("status", string(status)),
	)

	return response.ScreeningToResponse(screening), nil
}

func (s *screeningService) GetScreening(ctx context.Context, screeningID string) (*response.ScreeningResponse, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid screening ID format %s", screeningID))
	}

	screening, err := s.repo.Screening.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, apperror.NotFound(fmt.Sprintf("screening %s not found", screeningID))
	}

	return response.ScreeningToResponse(screening), nil
}
