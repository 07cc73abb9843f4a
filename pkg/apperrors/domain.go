package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - ошибка репозитория (gorm.ErrRecordNotFound и т.п.) в 404
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// NotFound - 404 с доменным сообщением
func NotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrExternalService - сбой внешнего сервиса (почта, хранилище)
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusInternalServerError)
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// --- Users ---

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrUsernameTaken = New(CodeConflict, "user", "Username is already taken", http.StatusConflict)

var ErrEmailTaken = New(CodeConflict, "user", "Email is already registered", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid username/email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid token", http.StatusUnauthorized)

var ErrTokenExpired = New(CodeTokenExpired, "auth", "Token expired", http.StatusUnauthorized)

var ErrAccountNotConfirmed = New(CodeForbidden, "auth", "Account is not confirmed", http.StatusForbidden)

var ErrCodeNotFoundOrExpired = New(CodeNotFound, "confirmation", "Confirmation code not found or expired", http.StatusNotFound)

var ErrInvalidAttempt = New(CodeValidationFailed, "confirmation", "Confirmation code must be numeric", http.StatusBadRequest)

// --- Routines ---

var ErrRoutineNotFound = New(CodeNotFound, "routine", "Routine not found", http.StatusNotFound)

var ErrNotRoutineOwner = New(CodeForbidden, "routine", "Only the routine creator can modify it", http.StatusForbidden)

var ErrBetweenRequiresTwoDates = New(CodeValidationFailed, "routine_filter", "between filter requires two dates", http.StatusBadRequest)

var ErrExerciseNotInRoutine = New(CodeNotFound, "routine_entry", "Exercise not found in routine", http.StatusNotFound)

var ErrExerciseAlreadyInRoutine = New(CodeAlreadyExists, "routine_entry", "Exercise already added to routine", http.StatusBadRequest)

var ErrExerciseSwapConflict = New(CodeConflict, "routine_entry", "Exercise is already present in routine", http.StatusConflict)

// --- Ratings ---

var ErrRatingNotFound = New(CodeNotFound, "rating", "Rating not found", http.StatusNotFound)

var ErrAlreadyRated = New(CodeConflict, "rating", "User already has an active rating", http.StatusConflict)

var ErrNotRatingAuthor = New(CodeInvalidOperation, "rating", "Only the creator may update or delete the rating", http.StatusBadRequest)

// --- Saved routines ---

var ErrInvalidListType = New(CodeNotFound, "saved_routine", "Invalid routine list", http.StatusNotFound)

var ErrCannotSaveOwnRoutine = New(CodeConflict, "saved_routine", "Cannot save your own routine", http.StatusConflict)

var ErrRoutineAlreadyInList = New(CodeConflict, "saved_routine", "Routine is already in the list", http.StatusConflict)

var ErrRoutineNotInList = New(CodeConflict, "saved_routine", "Routine is not saved in the list", http.StatusConflict)

// --- Exercises ---

var ErrExerciseNotFound = New(CodeNotFound, "exercise", "Exercise not found", http.StatusNotFound)

var ErrInvalidExerciseData = New(CodeValidationFailed, "exercise", "Invalid data", http.StatusBadRequest)

var ErrExerciseNameRequired = New(CodeValidationFailed, "exercise", "Exercise name is required", http.StatusBadRequest)

var ErrMainMuscleRequired = New(CodeValidationFailed, "exercise", "Main muscle is required", http.StatusBadRequest)

// --- Uploads ---

var ErrFileTooLarge = New(CodeValidationFailed, "upload", "File exceeds the maximum allowed size", http.StatusBadRequest)

var ErrInvalidFileType = New(CodeValidationFailed, "upload", "File type is not allowed", http.StatusBadRequest)

var ErrTooManyRequests = New(CodeRateLimited, "rate_limit", "Too many requests", http.StatusTooManyRequests)
