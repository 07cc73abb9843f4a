package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

type RatingService interface {
	GetAllRatingsOfRoutine(ctx context.Context, db *gorm.DB, routineID string) ([]*dto.RatingResponse, error)
	CreateRoutineRating(ctx context.Context, db *gorm.DB, userID, routineID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error)
	UpdateRoutineRating(ctx context.Context, db *gorm.DB, userID, routineID, ratingID string, req *dto.UpdateRatingRequest) (*dto.RatingResponse, error)
	DeleteRoutineRating(ctx context.Context, db *gorm.DB, userID, routineID, ratingID string) error
}

type ratingService struct {
	ratingRepo  repositories.RatingRepository
	routineRepo repositories.RoutineRepository
	now         func() time.Time
}

func NewRatingService(ratingRepo repositories.RatingRepository, routineRepo repositories.RoutineRepository) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		routineRepo: routineRepo,
		now:         time.Now,
	}
}

func (s *ratingService) GetAllRatingsOfRoutine(ctx context.Context, db *gorm.DB, routineID string) ([]*dto.RatingResponse, error) {
	if _, err := s.routineRepo.FindEnabledRoutineByID(db, routineID); err != nil {
		return nil, translateError(err)
	}

	ratings, err := s.ratingRepo.FindEnabledRatingsByRoutine(db, routineID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, dto.ToRatingResponse(&ratings[i]))
	}
	return out, nil
}

func (s *ratingService) CreateRoutineRating(ctx context.Context, db *gorm.DB, userID, routineID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.routineRepo.FindEnabledRoutineByID(tx, routineID); err != nil {
		return nil, translateError(err)
	}

	// Одна активная оценка на пользователя
	exists, err := s.ratingRepo.ExistsEnabledRatingByAuthor(tx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyRated
	}

	rating := &models.RoutineRating{
		RoutineID: routineID,
		Stars:     req.Stars,
		Comment:   req.Comment,
		CreatedBy: userID,
		Enabled:   true,
	}
	if err := s.ratingRepo.CreateRating(tx, rating); err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Routine rated", "routine_id", routineID, "stars", rating.Stars)
	return dto.ToRatingResponse(rating), nil
}

// loadAuthoredRating - активная оценка программы routineID, созданная userID
func (s *ratingService) loadAuthoredRating(db *gorm.DB, userID, routineID, ratingID string) (*models.RoutineRating, error) {
	if _, err := s.routineRepo.FindEnabledRoutineByID(db, routineID); err != nil {
		return nil, translateError(err)
	}

	rating, err := s.ratingRepo.FindEnabledRatingByID(db, ratingID)
	if err != nil {
		return nil, translateError(err)
	}
	if rating.RoutineID != routineID {
		return nil, apperrors.ErrRatingNotFound
	}
	if rating.CreatedBy != userID {
		return nil, apperrors.ErrNotRatingAuthor
	}
	return rating, nil
}

func (s *ratingService) UpdateRoutineRating(ctx context.Context, db *gorm.DB, userID, routineID, ratingID string, req *dto.UpdateRatingRequest) (*dto.RatingResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	rating, err := s.loadAuthoredRating(tx, userID, routineID, ratingID)
	if err != nil {
		return nil, err
	}

	if req.Stars != nil {
		rating.Stars = *req.Stars
	}
	if req.Comment != nil {
		rating.Comment = *req.Comment
	}
	modified := s.now()
	rating.ModifiedAt = &modified

	if err := s.ratingRepo.UpdateRating(tx, rating); err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToRatingResponse(rating), nil
}

// DeleteRoutineRating выключает оценку, после чего автор может оценить снова
func (s *ratingService) DeleteRoutineRating(ctx context.Context, db *gorm.DB, userID, routineID, ratingID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	rating, err := s.loadAuthoredRating(tx, userID, routineID, ratingID)
	if err != nil {
		return err
	}

	rating.Enabled = false
	modified := s.now()
	rating.ModifiedAt = &modified
	if err := s.ratingRepo.UpdateRating(tx, rating); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
