package repositories

import (
	"errors"

	"gorm.io/gorm"

	"workout_scheduler/internal/models"
)

type RatingRepository interface {
	CreateRating(db *gorm.DB, rating *models.RoutineRating) error
	FindEnabledRatingByID(db *gorm.DB, id string) (*models.RoutineRating, error)
	ExistsEnabledRatingByAuthor(db *gorm.DB, userID string) (bool, error)
	UpdateRating(db *gorm.DB, rating *models.RoutineRating) error
	FindEnabledRatingsByRoutine(db *gorm.DB, routineID string) ([]models.RoutineRating, error)
	DeleteRatingsByRoutine(db *gorm.DB, routineID string) error
}

type RatingRepositoryImpl struct{}

func NewRatingRepository() RatingRepository {
	return &RatingRepositoryImpl{}
}

func (r *RatingRepositoryImpl) CreateRating(db *gorm.DB, rating *models.RoutineRating) error {
	if err := db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRatingAlreadyExists
		}
		return err
	}
	return nil
}

func (r *RatingRepositoryImpl) FindEnabledRatingByID(db *gorm.DB, id string) (*models.RoutineRating, error) {
	var rating models.RoutineRating
	if err := db.Where("id = ? AND enabled = ?", id, true).First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// ExistsEnabledRatingByAuthor - активная оценка пользователя на любой программе
func (r *RatingRepositoryImpl) ExistsEnabledRatingByAuthor(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.RoutineRating{}).
		Where("created_by = ? AND enabled = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *RatingRepositoryImpl) UpdateRating(db *gorm.DB, rating *models.RoutineRating) error {
	return db.Save(rating).Error
}

func (r *RatingRepositoryImpl) FindEnabledRatingsByRoutine(db *gorm.DB, routineID string) ([]models.RoutineRating, error) {
	var ratings []models.RoutineRating
	err := db.Where("routine_id = ? AND enabled = ?", routineID, true).
		Order("created_at ASC").
		Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepositoryImpl) DeleteRatingsByRoutine(db *gorm.DB, routineID string) error {
	return db.Where("routine_id = ?", routineID).Delete(&models.RoutineRating{}).Error
}
