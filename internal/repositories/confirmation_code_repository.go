package repositories

import (
	"time"

	"gorm.io/gorm"

	"workout_scheduler/internal/models"
)

type ConfirmationCodeRepository interface {
	CreateCode(db *gorm.DB, code *models.ConfirmationCode) error
	ExistsValidCode(db *gorm.DB, userID string, code int, now time.Time) (bool, error)
	MarkAllUsed(db *gorm.DB, userID string) error
	DeleteAllForUser(db *gorm.DB, userID string) error
	DeleteStale(db *gorm.DB, now time.Time) (int64, error)
}

type ConfirmationCodeRepositoryImpl struct{}

func NewConfirmationCodeRepository() ConfirmationCodeRepository {
	return &ConfirmationCodeRepositoryImpl{}
}

func (r *ConfirmationCodeRepositoryImpl) CreateCode(db *gorm.DB, code *models.ConfirmationCode) error {
	return db.Create(code).Error
}

// ExistsValidCode - NEW, совпадает по значению и еще не истек
func (r *ConfirmationCodeRepositoryImpl) ExistsValidCode(db *gorm.DB, userID string, code int, now time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.ConfirmationCode{}).
		Where("user_id = ? AND code = ? AND status = ? AND expires_at > ?", userID, code, models.ConfirmationCodeNew, now).
		Count(&count).Error
	return count > 0, err
}

func (r *ConfirmationCodeRepositoryImpl) MarkAllUsed(db *gorm.DB, userID string) error {
	return db.Model(&models.ConfirmationCode{}).
		Where("user_id = ?", userID).
		Update("status", models.ConfirmationCodeUsed).Error
}

func (r *ConfirmationCodeRepositoryImpl) DeleteAllForUser(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.ConfirmationCode{}).Error
}

// DeleteStale удаляет истекшие и использованные коды
func (r *ConfirmationCodeRepositoryImpl) DeleteStale(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ? OR status = ?", now, models.ConfirmationCodeUsed).
		Delete(&models.ConfirmationCode{})
	return result.RowsAffected, result.Error
}
