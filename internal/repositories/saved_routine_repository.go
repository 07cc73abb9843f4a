package repositories

import (
	"errors"

	"gorm.io/gorm"

	"workout_scheduler/internal/models"
)

type SavedRoutineRepository interface {
	CreateSavedRoutine(db *gorm.DB, saved *models.SavedRoutine) error
	ExistsSavedRoutine(db *gorm.DB, userID, routineID string, listType models.ListType) (bool, error)
	DeleteSavedRoutine(db *gorm.DB, userID, routineID string, listType models.ListType) error
	FindRoutinesInList(db *gorm.DB, userID string, listType models.ListType) ([]models.Routine, error)
	DeleteSavedRoutinesByRoutine(db *gorm.DB, routineID string) error
}

type SavedRoutineRepositoryImpl struct{}

func NewSavedRoutineRepository() SavedRoutineRepository {
	return &SavedRoutineRepositoryImpl{}
}

func (r *SavedRoutineRepositoryImpl) CreateSavedRoutine(db *gorm.DB, saved *models.SavedRoutine) error {
	if err := db.Omit("Routine").Create(saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSavedRoutineAlreadyExist
		}
		return err
	}
	return nil
}

func (r *SavedRoutineRepositoryImpl) ExistsSavedRoutine(db *gorm.DB, userID, routineID string, listType models.ListType) (bool, error) {
	var count int64
	err := db.Model(&models.SavedRoutine{}).
		Where("user_id = ? AND routine_id = ? AND list_type = ?", userID, routineID, listType).
		Count(&count).Error
	return count > 0, err
}

func (r *SavedRoutineRepositoryImpl) DeleteSavedRoutine(db *gorm.DB, userID, routineID string, listType models.ListType) error {
	result := db.Where("user_id = ? AND routine_id = ? AND list_type = ?", userID, routineID, listType).
		Delete(&models.SavedRoutine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSavedRoutineNotFound
	}
	return nil
}

// FindRoutinesInList - активные программы списка в порядке добавления
func (r *SavedRoutineRepositoryImpl) FindRoutinesInList(db *gorm.DB, userID string, listType models.ListType) ([]models.Routine, error) {
	var routines []models.Routine
	err := withEntries(db.Model(&models.Routine{})).
		Joins("JOIN saved_routines sr ON sr.routine_id = routines.id").
		Where("sr.user_id = ? AND sr.list_type = ? AND routines.enabled = ?", userID, listType, true).
		Order("sr.created_at ASC").
		Find(&routines).Error
	return routines, err
}

func (r *SavedRoutineRepositoryImpl) DeleteSavedRoutinesByRoutine(db *gorm.DB, routineID string) error {
	return db.Where("routine_id = ?", routineID).Delete(&models.SavedRoutine{}).Error
}
