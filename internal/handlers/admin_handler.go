package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
)

// AdminHandler - физическое удаление данных, только для ROLE_ADMIN
type AdminHandler struct {
	*BaseHandler
	routineService  services.RoutineService
	exerciseService services.ExerciseService
	userService     services.UserService
}

func NewAdminHandler(base *BaseHandler, routineService services.RoutineService, exerciseService services.ExerciseService, userService services.UserService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:     base,
		routineService:  routineService,
		exerciseService: exerciseService,
		userService:     userService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(h.RequireAuth(), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.DELETE("/routines/:id", middleware.RequirePermission(auth.PermRoutinesPurge), h.PurgeRoutine)
		admin.DELETE("/exercises/:id", middleware.RequirePermission(auth.PermExercisesPurge), h.PurgeExercise)
		admin.DELETE("/confirmation-codes/stale", h.PurgeConfirmationCodes)
	}
}

// PurgeRoutine godoc
// @Summary Физически удалить программу
// @Tags admin
// @Security BearerAuth
// @Param id path string true "ID программы"
// @Success 204
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/routines/{id} [delete]
func (h *AdminHandler) PurgeRoutine(c *gin.Context) {
	if err := h.routineService.PurgeRoutine(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) PurgeExercise(c *gin.Context) {
	if err := h.exerciseService.PurgeExercise(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurgeConfirmationCodes godoc
// @Summary Удалить истекшие и использованные коды подтверждения
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PurgeResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /admin/confirmation-codes/stale [delete]
func (h *AdminHandler) PurgeConfirmationCodes(c *gin.Context) {
	deleted, err := h.userService.PurgeStaleConfirmationCodes(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PurgeResponse{Deleted: deleted})
}
