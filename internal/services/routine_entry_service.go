package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

type RoutineEntryService interface {
	// CreateRoutineEntries строит записи без сохранения; неизвестные упражнения пропускаются
	CreateRoutineEntries(ctx context.Context, db *gorm.DB, requests []dto.RoutineEntryRequest) ([]models.RoutineEntry, error)
	AddExerciseToRoutine(ctx context.Context, db *gorm.DB, userID, routineID string, req *dto.RoutineEntryRequest) error
	ChangeExerciseInRoutine(ctx context.Context, db *gorm.DB, userID, routineID, exerciseID string, req *dto.UpdateRoutineEntryRequest) error
	DeleteExerciseFromRoutine(ctx context.Context, db *gorm.DB, userID, routineID, exerciseID string) error
}

type routineEntryService struct {
	routineRepo  repositories.RoutineRepository
	entryRepo    repositories.RoutineEntryRepository
	exerciseRepo repositories.ExerciseRepository
}

func NewRoutineEntryService(
	routineRepo repositories.RoutineRepository,
	entryRepo repositories.RoutineEntryRepository,
	exerciseRepo repositories.ExerciseRepository,
) RoutineEntryService {
	return &routineEntryService{
		routineRepo:  routineRepo,
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
	}
}

func (s *routineEntryService) CreateRoutineEntries(ctx context.Context, db *gorm.DB, requests []dto.RoutineEntryRequest) ([]models.RoutineEntry, error) {
	// Повтор упражнения в запросе схлопывается, побеждает последний
	order := make([]string, 0, len(requests))
	byExercise := make(map[string]dto.RoutineEntryRequest, len(requests))
	for _, req := range requests {
		if _, seen := byExercise[req.ExerciseID]; !seen {
			order = append(order, req.ExerciseID)
		}
		byExercise[req.ExerciseID] = req
	}

	exercises, err := s.exerciseRepo.FindEnabledExercisesByIDs(db, order)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	found := make(map[string]*models.Exercise, len(exercises))
	for i := range exercises {
		found[exercises[i].ID] = &exercises[i]
	}

	entries := make([]models.RoutineEntry, 0, len(found))
	for _, id := range order {
		exercise, ok := found[id]
		if !ok {
			logger.CtxDebug(ctx, "Skipping unknown exercise in routine entries", "exercise_id", id)
			continue
		}
		req := byExercise[id]
		entries = append(entries, models.RoutineEntry{
			ExerciseID:  id,
			Sets:        req.Sets,
			Reps:        req.Reps,
			RestSeconds: req.RestSeconds,
			Notes:       req.Notes,
			Exercise:    exercise,
		})
	}
	return entries, nil
}

// loadOwnedRoutine - активная программа, которой владеет userID
func (s *routineEntryService) loadOwnedRoutine(db *gorm.DB, userID, routineID string) (*models.Routine, error) {
	routine, err := s.routineRepo.FindEnabledRoutineByID(db, routineID)
	if err != nil {
		return nil, translateError(err)
	}
	if routine.UserID != userID {
		return nil, apperrors.ErrNotRoutineOwner
	}
	return routine, nil
}

func findEntry(routine *models.Routine, exerciseID string) *models.RoutineEntry {
	for i := range routine.Entries {
		if routine.Entries[i].ExerciseID == exerciseID {
			return &routine.Entries[i]
		}
	}
	return nil
}

func (s *routineEntryService) AddExerciseToRoutine(ctx context.Context, db *gorm.DB, userID, routineID string, req *dto.RoutineEntryRequest) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	routine, err := s.loadOwnedRoutine(tx, userID, routineID)
	if err != nil {
		return err
	}

	if routine.HasExercise(req.ExerciseID) {
		return apperrors.ErrExerciseAlreadyInRoutine
	}

	if _, err := s.exerciseRepo.FindEnabledExerciseByID(tx, req.ExerciseID); err != nil {
		return translateError(err)
	}

	entry := &models.RoutineEntry{
		RoutineID:   routine.ID,
		ExerciseID:  req.ExerciseID,
		Sets:        req.Sets,
		Reps:        req.Reps,
		RestSeconds: req.RestSeconds,
		Notes:       req.Notes,
	}
	if err := s.entryRepo.CreateEntry(tx, entry); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Exercise added to routine", "routine_id", routineID, "exercise_id", req.ExerciseID)
	return nil
}

func (s *routineEntryService) ChangeExerciseInRoutine(ctx context.Context, db *gorm.DB, userID, routineID, exerciseID string, req *dto.UpdateRoutineEntryRequest) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	routine, err := s.loadOwnedRoutine(tx, userID, routineID)
	if err != nil {
		return err
	}

	entry := findEntry(routine, exerciseID)
	if entry == nil {
		return apperrors.ErrExerciseNotInRoutine
	}

	if req.ExerciseID != nil && *req.ExerciseID != exerciseID {
		if routine.HasExercise(*req.ExerciseID) {
			return apperrors.ErrExerciseSwapConflict
		}
		if _, err := s.exerciseRepo.FindEnabledExerciseByID(tx, *req.ExerciseID); err != nil {
			return translateError(err)
		}
		entry.ExerciseID = *req.ExerciseID
		entry.Exercise = nil
	}
	if req.Sets != nil {
		entry.Sets = *req.Sets
	}
	if req.Reps != nil {
		entry.Reps = *req.Reps
	}
	if req.RestSeconds != nil {
		entry.RestSeconds = req.RestSeconds
	}
	if req.Notes != nil {
		entry.Notes = req.Notes
	}

	if err := s.entryRepo.UpdateEntry(tx, entry); err != nil {
		if errors.Is(err, repositories.ErrEntryAlreadyExists) {
			return apperrors.ErrExerciseSwapConflict
		}
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *routineEntryService) DeleteExerciseFromRoutine(ctx context.Context, db *gorm.DB, userID, routineID, exerciseID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	routine, err := s.loadOwnedRoutine(tx, userID, routineID)
	if err != nil {
		return err
	}

	entry := findEntry(routine, exerciseID)
	if entry == nil {
		return apperrors.ErrExerciseNotInRoutine
	}

	if err := s.entryRepo.DeleteEntry(tx, entry.ID); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
