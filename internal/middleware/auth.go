package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/models"
	"workout_scheduler/pkg/apperrors"
)

const (
	userIDKey = "userID"
	rolesKey  = "roles"
	claimsKey = "claims"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				apperrors.HandleError(c, apperrors.ErrTokenExpired)
				return
			}
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(userIDKey, claims.UserID)
		c.Set(rolesKey, claims.Roles)
		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRoles пропускает, если у пользователя есть хотя бы одна из ролей
func RequireRoles(roles ...models.RoleName) gin.HandlerFunc {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[string(r)] = true
	}

	return func(c *gin.Context) {
		for _, role := range GetRoles(c) {
			if roleSet[role] {
				c.Next()
				return
			}
		}
		apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
	}
}

// RequirePermission проверяет разрешение по таблице ролей
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !auth.CanPerformAction(claims, permission) {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetRoles(c *gin.Context) []string {
	return c.GetStringSlice(rolesKey)
}

func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
