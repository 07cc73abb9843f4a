package services

import (
	"errors"

	"workout_scheduler/internal/repositories"
	"workout_scheduler/pkg/apperrors"
)

// repoErrors - соответствие ошибок репозиториев классифицированным ошибкам
var repoErrors = []struct {
	repo error
	app  *apperrors.AppError
}{
	{repositories.ErrUserNotFound, apperrors.ErrUserNotFound},
	{repositories.ErrRoutineNotFound, apperrors.ErrRoutineNotFound},
	{repositories.ErrExerciseNotFound, apperrors.ErrExerciseNotFound},
	{repositories.ErrEntryNotFound, apperrors.ErrExerciseNotInRoutine},
	{repositories.ErrEntryAlreadyExists, apperrors.ErrExerciseAlreadyInRoutine},
	{repositories.ErrRatingNotFound, apperrors.ErrRatingNotFound},
	{repositories.ErrRatingAlreadyExists, apperrors.ErrAlreadyRated},
	{repositories.ErrSavedRoutineNotFound, apperrors.ErrRoutineNotInList},
	{repositories.ErrSavedRoutineAlreadyExist, apperrors.ErrRoutineAlreadyInList},
}

// translateError - AppError возвращается как есть, неизвестное становится 500
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	for _, m := range repoErrors {
		if errors.Is(err, m.repo) {
			return m.app
		}
	}
	return apperrors.InternalError(err)
}
