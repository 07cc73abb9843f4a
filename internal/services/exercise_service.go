package services

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

type ExerciseService interface {
	FindExercisesByName(ctx context.Context, db *gorm.DB, name string) ([]*dto.ExerciseResponse, error)
	GetExerciseByID(ctx context.Context, db *gorm.DB, id string) (*dto.ExerciseResponse, error)
	// CreateCustomExercise - payload это JSON из multipart-поля "data"
	CreateCustomExercise(ctx context.Context, db *gorm.DB, payload string, images []*multipart.FileHeader) (*dto.CreateExerciseResponse, error)
	// UpdateCustomExercise - переданные картинки полностью заменяют старые
	UpdateCustomExercise(ctx context.Context, db *gorm.DB, id, payload string, images []*multipart.FileHeader) (*dto.ExerciseResponse, error)
	DeleteCustomExercise(ctx context.Context, db *gorm.DB, id string) error
	PurgeExercise(ctx context.Context, db *gorm.DB, id string) error
}

type exerciseService struct {
	exerciseRepo repositories.ExerciseRepository
	entryRepo    repositories.RoutineEntryRepository
	images       ImageService
}

func NewExerciseService(
	exerciseRepo repositories.ExerciseRepository,
	entryRepo repositories.RoutineEntryRepository,
	images ImageService,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		entryRepo:    entryRepo,
		images:       images,
	}
}

func parseExercisePayload(raw string) (*dto.ExercisePayload, error) {
	var payload dto.ExercisePayload
	if strings.TrimSpace(raw) == "" {
		return &payload, nil
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperrors.ErrInvalidExerciseData
	}
	return &payload, nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// applyExercisePayload переносит заданные поля; пустые имя и основная мышца игнорируются
func applyExercisePayload(e *models.Exercise, p *dto.ExercisePayload) {
	if !isBlank(p.Name) {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if !isBlank(p.MainMuscle) {
		e.MainMuscle = strings.TrimSpace(*p.MainMuscle)
	}
	if p.SecondaryMuscle != nil {
		e.SecondaryMuscle = strings.TrimSpace(*p.SecondaryMuscle)
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.RequireEquipment != nil {
		e.RequireEquipment = *p.RequireEquipment
	}
	if p.VideoURL != nil {
		e.VideoURL = strings.TrimSpace(*p.VideoURL)
	}
}

func (s *exerciseService) FindExercisesByName(ctx context.Context, db *gorm.DB, name string) ([]*dto.ExerciseResponse, error) {
	exercises, err := s.exerciseRepo.FindExercisesByName(db, strings.TrimSpace(name))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		out = append(out, dto.ToExerciseResponse(&exercises[i]))
	}
	return out, nil
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, db *gorm.DB, id string) (*dto.ExerciseResponse, error) {
	exercise, err := s.exerciseRepo.FindEnabledExerciseByID(db, id)
	if err != nil {
		return nil, translateError(err)
	}
	return dto.ToExerciseResponse(exercise), nil
}

func (s *exerciseService) CreateCustomExercise(ctx context.Context, db *gorm.DB, payload string, images []*multipart.FileHeader) (*dto.CreateExerciseResponse, error) {
	p, err := parseExercisePayload(payload)
	if err != nil {
		return nil, err
	}
	if isBlank(p.Name) {
		return nil, apperrors.ErrExerciseNameRequired
	}
	if isBlank(p.MainMuscle) {
		return nil, apperrors.ErrMainMuscleRequired
	}

	exercise := &models.Exercise{IsCustom: true, Enabled: true}
	exercise.ID = uuid.NewString()
	applyExercisePayload(exercise, p)

	// Файлы сохраняются до транзакции, чтобы не держать ее открытой во время загрузки
	stored, err := s.images.StoreExerciseImages(ctx, exercise.ID, images)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			s.images.DeleteStoredImages(ctx, stored)
		}
	}()
	exercise.Images = stored

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.exerciseRepo.CreateExercise(tx, exercise); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	committed = true

	logger.CtxInfo(ctx, "Custom exercise created", "exercise_id", exercise.ID, "images", len(stored))
	return &dto.CreateExerciseResponse{ID: exercise.ID}, nil
}

func (s *exerciseService) UpdateCustomExercise(ctx context.Context, db *gorm.DB, id, payload string, images []*multipart.FileHeader) (*dto.ExerciseResponse, error) {
	p, err := parseExercisePayload(payload)
	if err != nil {
		return nil, err
	}

	// Проверка до загрузки файлов
	if _, err := s.exerciseRepo.FindEnabledExerciseByID(db, id); err != nil {
		return nil, translateError(err)
	}

	var stored []models.ExerciseImage
	if len(images) > 0 {
		stored, err = s.images.StoreExerciseImages(ctx, id, images)
		if err != nil {
			return nil, err
		}
	}
	committed := false
	defer func() {
		if !committed {
			s.images.DeleteStoredImages(ctx, stored)
		}
	}()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	exercise, err := s.exerciseRepo.FindEnabledExerciseByID(tx, id)
	if err != nil {
		return nil, translateError(err)
	}
	applyExercisePayload(exercise, p)

	if err := s.exerciseRepo.UpdateExercise(tx, exercise); err != nil {
		return nil, apperrors.InternalError(err)
	}

	var replaced []models.ExerciseImage
	if len(images) > 0 {
		replaced, err = s.exerciseRepo.DeleteExerciseImages(tx, id)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.exerciseRepo.CreateExerciseImages(tx, stored); err != nil {
			return nil, apperrors.InternalError(err)
		}
		exercise.Images = stored
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	committed = true

	s.images.DeleteStoredImages(ctx, replaced)
	return dto.ToExerciseResponse(exercise), nil
}

func (s *exerciseService) DeleteCustomExercise(ctx context.Context, db *gorm.DB, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.exerciseRepo.DisableExercise(tx, id); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Exercise disabled", "exercise_id", id)
	return nil
}

func (s *exerciseService) PurgeExercise(ctx context.Context, db *gorm.DB, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.exerciseRepo.FindExerciseByID(tx, id); err != nil {
		return translateError(err)
	}

	images, err := s.exerciseRepo.DeleteExerciseImages(tx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.entryRepo.DeleteEntriesByExercise(tx, id); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.exerciseRepo.DeleteExercise(tx, id); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.images.DeleteStoredImages(ctx, images)
	logger.CtxWarn(ctx, "Exercise purged", "exercise_id", id)
	return nil
}
