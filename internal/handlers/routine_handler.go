package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
)

type RoutineHandler struct {
	*BaseHandler
	routineService services.RoutineService
}

func NewRoutineHandler(base *BaseHandler, routineService services.RoutineService) *RoutineHandler {
	return &RoutineHandler{
		BaseHandler:    base,
		routineService: routineService,
	}
}

func (h *RoutineHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/routines")
	{
		public.POST("/search", h.SearchRoutines)
		public.GET("/:id", h.GetRoutine)
	}

	protected := r.Group("/routines")
	protected.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermRoutinesWrite))
	{
		protected.POST("", h.CreateRoutine)
		protected.PATCH("/:id/name", h.ChangeRoutineName)
		protected.DELETE("/:id", h.DeleteRoutine)
	}
}

// SearchRoutines godoc
// @Summary Поиск программ по фильтрам
// @Description Все фильтры опциональны и объединяются через AND. mostPopular сортирует страницу по популярности, если задан хотя бы один фильтр
// @Tags routines
// @Accept json
// @Produce json
// @Param filters body dto.RoutineFiltersRequest false "Фильтры и пагинация"
// @Success 200 {array} dto.RoutineResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /routines/search [post]
func (h *RoutineHandler) SearchRoutines(c *gin.Context) {
	var req dto.RoutineFiltersRequest
	// Пустое тело - поиск без фильтров
	if c.Request.ContentLength != 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	routines, err := h.routineService.SearchRoutinesByFilters(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, routines)
}

// GetRoutine godoc
// @Summary Программа по ID
// @Tags routines
// @Produce json
// @Param id path string true "ID программы"
// @Success 200 {object} dto.RoutineResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	routine, err := h.routineService.GetRoutineByID(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, routine)
}

// CreateRoutine godoc
// @Summary Создать программу
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body dto.CreateRoutineRequest true "Название и упражнения"
// @Success 201 {object} dto.CreateRoutineResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoutineRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.routineService.CreateRoutine(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *RoutineHandler) ChangeRoutineName(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.routineService.ChangeRoutineName(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), c.Query("newName"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Routine renamed"})
}

func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.routineService.DeleteRoutine(c.Request.Context(), h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Routine deleted"})
}
