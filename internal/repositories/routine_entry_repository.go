package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workout_scheduler/internal/models"
)

type RoutineEntryRepository interface {
	CreateEntry(db *gorm.DB, entry *models.RoutineEntry) error
	UpdateEntry(db *gorm.DB, entry *models.RoutineEntry) error
	DeleteEntry(db *gorm.DB, entryID string) error
	DeleteEntriesByRoutine(db *gorm.DB, routineID string) error
	DeleteEntriesByExercise(db *gorm.DB, exerciseID string) error
}

type RoutineEntryRepositoryImpl struct{}

func NewRoutineEntryRepository() RoutineEntryRepository {
	return &RoutineEntryRepositoryImpl{}
}

func (r *RoutineEntryRepositoryImpl) CreateEntry(db *gorm.DB, entry *models.RoutineEntry) error {
	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEntryAlreadyExists
		}
		return err
	}
	return nil
}

func (r *RoutineEntryRepositoryImpl) UpdateEntry(db *gorm.DB, entry *models.RoutineEntry) error {
	if err := db.Omit(clause.Associations).Save(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEntryAlreadyExists
		}
		return err
	}
	return nil
}

func (r *RoutineEntryRepositoryImpl) DeleteEntry(db *gorm.DB, entryID string) error {
	result := db.Where("id = ?", entryID).Delete(&models.RoutineEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *RoutineEntryRepositoryImpl) DeleteEntriesByRoutine(db *gorm.DB, routineID string) error {
	return db.Where("routine_id = ?", routineID).Delete(&models.RoutineEntry{}).Error
}

func (r *RoutineEntryRepositoryImpl) DeleteEntriesByExercise(db *gorm.DB, exerciseID string) error {
	return db.Where("exercise_id = ?", exerciseID).Delete(&models.RoutineEntry{}).Error
}
