package services

import (
	"workout_scheduler/internal/email"
	"workout_scheduler/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UserService         UserService
	AuthService         AuthService
	RoutineService      RoutineService
	RoutineEntryService RoutineEntryService
	RatingService       RatingService
	SavedRoutineService SavedRoutineService
	ExerciseService     ExerciseService
	ImageService        ImageService
	EmailService        email.Provider
	Storage             storage.Storage
}
