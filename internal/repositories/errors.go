package repositories

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrRoleNotFound             = errors.New("role not found")
	ErrExerciseNotFound         = errors.New("exercise not found")
	ErrRoutineNotFound          = errors.New("routine not found")
	ErrEntryNotFound            = errors.New("routine entry not found")
	ErrEntryAlreadyExists       = errors.New("exercise already present in routine")
	ErrRatingNotFound           = errors.New("rating not found")
	ErrRatingAlreadyExists      = errors.New("active rating already exists")
	ErrSavedRoutineNotFound     = errors.New("routine is not in the list")
	ErrSavedRoutineAlreadyExist = errors.New("routine already in the list")
	ErrUnsupportedPredicate     = errors.New("unsupported routine predicate")
)
