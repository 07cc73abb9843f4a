package services

import (
	"context"

	"gorm.io/gorm"

	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

type SavedRoutineService interface {
	GetAllRoutinesOfList(ctx context.Context, db *gorm.DB, userID, listType string) ([]*dto.RoutineResponse, error)
	SaveRoutineInList(ctx context.Context, db *gorm.DB, userID, routineID, listType string) error
	UnsaveRoutineInList(ctx context.Context, db *gorm.DB, userID, routineID, listType string) error
}

type savedRoutineService struct {
	savedRepo   repositories.SavedRoutineRepository
	routineRepo repositories.RoutineRepository
	userRepo    repositories.UserRepository
}

func NewSavedRoutineService(
	savedRepo repositories.SavedRoutineRepository,
	routineRepo repositories.RoutineRepository,
	userRepo repositories.UserRepository,
) SavedRoutineService {
	return &savedRoutineService{
		savedRepo:   savedRepo,
		routineRepo: routineRepo,
		userRepo:    userRepo,
	}
}

func parseListType(raw string) (models.ListType, error) {
	lt, ok := models.ParseListType(raw)
	if !ok {
		return "", apperrors.ErrInvalidListType
	}
	return lt, nil
}

func (s *savedRoutineService) GetAllRoutinesOfList(ctx context.Context, db *gorm.DB, userID, listType string) ([]*dto.RoutineResponse, error) {
	lt, err := parseListType(listType)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindEnabledUserByID(db, userID); err != nil {
		return nil, translateError(err)
	}

	routines, err := s.savedRepo.FindRoutinesInList(db, userID, lt)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToRoutineResponses(routines), nil
}

func (s *savedRoutineService) SaveRoutineInList(ctx context.Context, db *gorm.DB, userID, routineID, listType string) error {
	lt, err := parseListType(listType)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindEnabledUserByID(tx, userID); err != nil {
		return translateError(err)
	}

	routine, err := s.routineRepo.FindEnabledRoutineByID(tx, routineID)
	if err != nil {
		return translateError(err)
	}
	if lt == models.ListTypeSaved && routine.UserID == userID {
		return apperrors.ErrCannotSaveOwnRoutine
	}

	exists, err := s.savedRepo.ExistsSavedRoutine(tx, userID, routineID, lt)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exists {
		return apperrors.ErrRoutineAlreadyInList
	}

	saved := &models.SavedRoutine{UserID: userID, RoutineID: routineID, ListType: lt}
	if err := s.savedRepo.CreateSavedRoutine(tx, saved); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// UnsaveRoutineInList - программа должна существовать и быть активной
func (s *savedRoutineService) UnsaveRoutineInList(ctx context.Context, db *gorm.DB, userID, routineID, listType string) error {
	lt, err := parseListType(listType)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.routineRepo.FindEnabledRoutineByID(tx, routineID); err != nil {
		return translateError(err)
	}

	if err := s.savedRepo.DeleteSavedRoutine(tx, userID, routineID, lt); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
