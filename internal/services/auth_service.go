package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

type AuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByLogin(db, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Login failed: wrong password", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	// Статус аккаунта проверяется только после пароля
	if !user.Enabled {
		return nil, apperrors.ErrAccountNotConfirmed
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.RoleNames())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		UserID:    user.ID,
	}, nil
}
