package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"workout_scheduler/internal/models"
)

type UserRepository interface {
	CreateUser(db *gorm.DB, user *models.User) error
	FindUserByID(db *gorm.DB, id string) (*models.User, error)
	FindEnabledUserByID(db *gorm.DB, id string) (*models.User, error)
	FindDisabledUserByID(db *gorm.DB, id string) (*models.User, error)
	FindUserByLogin(db *gorm.DB, usernameOrEmail string) (*models.User, error)
	ExistsByUsername(db *gorm.DB, username string) (bool, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	EnableUser(db *gorm.DB, id string) error

	FindRoleByName(db *gorm.DB, name models.RoleName) (*models.Role, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

// CreateUser сохраняет пользователя с профилем; роли только связываются
func (r *UserRepositoryImpl) CreateUser(db *gorm.DB, user *models.User) error {
	return db.Omit("Roles.*").Create(user).Error
}

func (r *UserRepositoryImpl) FindUserByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *UserRepositoryImpl) FindEnabledUserByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db.Where("id = ? AND enabled = ?", id, true))
}

func (r *UserRepositoryImpl) FindDisabledUserByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db.Where("id = ? AND enabled = ?", id, false))
}

func (r *UserRepositoryImpl) FindUserByLogin(db *gorm.DB, usernameOrEmail string) (*models.User, error) {
	login := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	return r.findOne(db.Where("LOWER(username) = ? OR LOWER(email) = ?", login, login))
}

func (r *UserRepositoryImpl) findOne(query *gorm.DB) (*models.User, error) {
	var user models.User
	err := query.Preload("Roles").Preload("Profile").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ExistsByUsername(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) EnableUser(db *gorm.DB, id string) error {
	result := db.Model(&models.User{}).Where("id = ?", id).Update("enabled", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindRoleByName(db *gorm.DB, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}
