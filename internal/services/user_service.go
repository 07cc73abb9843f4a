package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/email"
	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/metrics"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

const (
	confirmationCodeMin = 10000
	confirmationCodeMax = 99999
	confirmationCodeTTL = 2 * time.Hour
)

type UserService interface {
	// PreRegister создает выключенного пользователя и отправляет код подтверждения
	PreRegister(ctx context.Context, db *gorm.DB, req *dto.PreRegisterRequest) (*dto.PreRegisterResponse, error)
	RegisterConfirmation(ctx context.Context, db *gorm.DB, userID, attempt string) error
	ResendConfirmationCode(ctx context.Context, db *gorm.DB, userID string) error
	GetUserData(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDataResponse, error)
	// PurgeStaleConfirmationCodes удаляет истекшие и использованные коды, запускается администратором
	PurgeStaleConfirmationCodes(ctx context.Context, db *gorm.DB) (int64, error)
}

type userService struct {
	userRepo repositories.UserRepository
	codeRepo repositories.ConfirmationCodeRepository
	mailer   email.Provider
	now      func() time.Time
	newCode  func() (int, error)
}

func NewUserService(
	userRepo repositories.UserRepository,
	codeRepo repositories.ConfirmationCodeRepository,
	mailer email.Provider,
) UserService {
	return &userService{
		userRepo: userRepo,
		codeRepo: codeRepo,
		mailer:   mailer,
		now:      time.Now,
		newCode:  randomConfirmationCode,
	}
}

// randomConfirmationCode - равномерно в [10000, 99999]
func randomConfirmationCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(confirmationCodeMax-confirmationCodeMin+1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + confirmationCodeMin, nil
}

func (s *userService) PreRegister(ctx context.Context, db *gorm.DB, req *dto.PreRegisterRequest) (*dto.PreRegisterResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	profile, err := buildProfile(req)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	username := strings.TrimSpace(req.Username)
	userEmail := strings.TrimSpace(req.Email)

	taken, err := s.userRepo.ExistsByUsername(tx, username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	taken, err = s.userRepo.ExistsByEmail(tx, userEmail)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	role, err := s.userRepo.FindRoleByName(tx, models.RoleUser)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("default role: %w", err))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     username,
		Email:        userEmail,
		PasswordHash: hash,
		Enabled:      false,
		Roles:        []models.Role{*role},
		Profile:      profile,
	}
	if err := s.userRepo.CreateUser(tx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict(err, "user", "User already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.issueCode(ctx, tx, user); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordRegistrationEvent("pre_registered")
	logger.CtxInfo(ctx, "User pre-registered", "user_id", user.ID)

	return &dto.PreRegisterResponse{
		UserID:  user.ID,
		Message: "Confirmation code sent to " + user.Email,
	}, nil
}

func buildProfile(req *dto.PreRegisterRequest) (*models.Profile, error) {
	profile := &models.Profile{
		Name:      strings.TrimSpace(req.Name),
		Lastname:  strings.TrimSpace(req.Lastname),
		Phone:     strings.TrimSpace(req.Phone),
		Height:    req.Height,
		Weight:    req.Weight,
		Trainings: req.Trainings,
	}

	if req.PersonType != "" {
		pt := models.PersonType(strings.ToUpper(req.PersonType))
		if !pt.IsValid() {
			return nil, apperrors.NewBadRequestError("Unknown person type: " + req.PersonType)
		}
		profile.PersonType = pt
	}

	if req.Birthdate != "" {
		t, err := time.Parse("2006-01-02", req.Birthdate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Birthdate must have format YYYY-MM-DD")
		}
		d := datatypes.Date(t)
		profile.Birthdate = &d
	}
	return profile, nil
}

// issueCode сохраняет новый код и отправляет письмо; ошибка отправки откатывает транзакцию
func (s *userService) issueCode(ctx context.Context, tx *gorm.DB, user *models.User) error {
	value, err := s.newCode()
	if err != nil {
		return apperrors.InternalError(err)
	}

	code := &models.ConfirmationCode{
		UserID:    user.ID,
		Code:      value,
		ExpiresAt: s.now().Add(confirmationCodeTTL),
		Status:    models.ConfirmationCodeNew,
	}
	if err := s.codeRepo.CreateCode(tx, code); err != nil {
		return apperrors.InternalError(err)
	}

	err = s.mailer.SendTemplate(
		[]string{user.Email},
		email.SubjectConfirmation,
		email.TemplateConfirmationCode,
		email.TemplateData{
			"Username":       user.Username,
			"Code":           value,
			"ExpiresInHours": int(confirmationCodeTTL.Hours()),
		},
	)
	metrics.RecordConfirmationEmail(err)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to send confirmation code", err, "user_id", user.ID)
		return apperrors.ErrExternalService(err, "email", "Failed to send confirmation email")
	}
	return nil
}

func (s *userService) RegisterConfirmation(ctx context.Context, db *gorm.DB, userID, attempt string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	// Подтвердить можно только еще выключенного пользователя
	if _, err := s.userRepo.FindDisabledUserByID(tx, userID); err != nil {
		return translateError(err)
	}

	code, err := strconv.Atoi(strings.TrimSpace(attempt))
	if err != nil {
		return apperrors.ErrInvalidAttempt
	}

	valid, err := s.codeRepo.ExistsValidCode(tx, userID, code, s.now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !valid {
		return apperrors.ErrCodeNotFoundOrExpired
	}

	if err := s.userRepo.EnableUser(tx, userID); err != nil {
		return translateError(err)
	}
	if err := s.codeRepo.MarkAllUsed(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	metrics.RecordRegistrationEvent("confirmed")
	logger.CtxInfo(ctx, "User registration confirmed", "user_id", userID)
	return nil
}

func (s *userService) ResendConfirmationCode(ctx context.Context, db *gorm.DB, userID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindDisabledUserByID(tx, userID)
	if err != nil {
		return translateError(err)
	}

	if err := s.codeRepo.DeleteAllForUser(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.issueCode(ctx, tx, user); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	metrics.RecordRegistrationEvent("code_resent")
	return nil
}

func (s *userService) GetUserData(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDataResponse, error) {
	user, err := s.userRepo.FindEnabledUserByID(db, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return dto.ToUserDataResponse(user), nil
}

func (s *userService) PurgeStaleConfirmationCodes(ctx context.Context, db *gorm.DB) (int64, error) {
	deleted, err := s.codeRepo.DeleteStale(db, s.now())
	if err != nil {
		logger.CtxWithError(ctx, "Failed to purge confirmation codes", err)
		return 0, apperrors.InternalError(err)
	}
	metrics.AddPurgedCodes(deleted)
	logger.CtxInfo(ctx, "Purged stale confirmation codes", "count", deleted)
	return deleted, nil
}
