package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workout_scheduler/internal/models"
)

type ExerciseRepository interface {
	FindExercisesByName(db *gorm.DB, name string) ([]models.Exercise, error)
	FindEnabledExerciseByID(db *gorm.DB, id string) (*models.Exercise, error)
	FindEnabledExercisesByIDs(db *gorm.DB, ids []string) ([]models.Exercise, error)
	FindExerciseByID(db *gorm.DB, id string) (*models.Exercise, error)
	CreateExercise(db *gorm.DB, exercise *models.Exercise) error
	UpdateExercise(db *gorm.DB, exercise *models.Exercise) error
	DisableExercise(db *gorm.DB, id string) error
	DeleteExercise(db *gorm.DB, id string) error

	CreateExerciseImages(db *gorm.DB, images []models.ExerciseImage) error
	DeleteExerciseImages(db *gorm.DB, exerciseID string) ([]models.ExerciseImage, error)
}

type ExerciseRepositoryImpl struct{}

func NewExerciseRepository() ExerciseRepository {
	return &ExerciseRepositoryImpl{}
}

// FindExercisesByName - подстрока без учета регистра, по имени
func (r *ExerciseRepositoryImpl) FindExercisesByName(db *gorm.DB, name string) ([]models.Exercise, error) {
	var exercises []models.Exercise
	query := db.Preload("Images").Where("enabled = ?", true)
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	err := query.Order("name ASC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepositoryImpl) FindEnabledExerciseByID(db *gorm.DB, id string) (*models.Exercise, error) {
	return r.findOne(db.Where("id = ? AND enabled = ?", id, true))
}

func (r *ExerciseRepositoryImpl) FindExerciseByID(db *gorm.DB, id string) (*models.Exercise, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *ExerciseRepositoryImpl) findOne(query *gorm.DB) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := query.Preload("Images").First(&exercise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepositoryImpl) FindEnabledExercisesByIDs(db *gorm.DB, ids []string) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if len(ids) == 0 {
		return exercises, nil
	}
	err := db.Preload("Images").Where("id IN ? AND enabled = ?", ids, true).Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepositoryImpl) CreateExercise(db *gorm.DB, exercise *models.Exercise) error {
	return db.Create(exercise).Error
}

// UpdateExercise сохраняет скалярные поля; картинки меняются отдельно
func (r *ExerciseRepositoryImpl) UpdateExercise(db *gorm.DB, exercise *models.Exercise) error {
	return db.Omit(clause.Associations).Save(exercise).Error
}

func (r *ExerciseRepositoryImpl) DisableExercise(db *gorm.DB, id string) error {
	result := db.Model(&models.Exercise{}).Where("id = ? AND enabled = ?", id, true).Update("enabled", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *ExerciseRepositoryImpl) DeleteExercise(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Exercise{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *ExerciseRepositoryImpl) CreateExerciseImages(db *gorm.DB, images []models.ExerciseImage) error {
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}

// DeleteExerciseImages удаляет строки картинок и возвращает их для очистки хранилища
func (r *ExerciseRepositoryImpl) DeleteExerciseImages(db *gorm.DB, exerciseID string) ([]models.ExerciseImage, error) {
	var images []models.ExerciseImage
	if err := db.Where("exercise_id = ?", exerciseID).Find(&images).Error; err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return images, nil
	}
	if err := db.Where("exercise_id = ?", exerciseID).Delete(&models.ExerciseImage{}).Error; err != nil {
		return nil, err
	}
	return images, nil
}
