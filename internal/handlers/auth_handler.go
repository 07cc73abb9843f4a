package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.RateLimited(), h.Login)
	}
}

// Login godoc
// @Summary Вход по username или email
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apperrors.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} apperrors.ErrorResponse "Аккаунт не подтвержден"
// @Failure 429 {object} apperrors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
