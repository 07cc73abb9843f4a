package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
)

type RoutineEntryHandler struct {
	*BaseHandler
	entryService services.RoutineEntryService
}

func NewRoutineEntryHandler(base *BaseHandler, entryService services.RoutineEntryService) *RoutineEntryHandler {
	return &RoutineEntryHandler{
		BaseHandler:  base,
		entryService: entryService,
	}
}

func (h *RoutineEntryHandler) RegisterRoutes(r *gin.RouterGroup) {
	entries := r.Group("/routines/:id/entries")
	entries.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermRoutinesWrite))
	{
		entries.POST("", h.AddExercise)
		entries.PATCH("/:exerciseId", h.ChangeExercise)
		entries.DELETE("/:exerciseId", h.DeleteExercise)
	}
}

func (h *RoutineEntryHandler) AddExercise(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RoutineEntryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.entryService.AddExerciseToRoutine(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Exercise added to routine"})
}

func (h *RoutineEntryHandler) ChangeExercise(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoutineEntryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.entryService.ChangeExerciseInRoutine(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), c.Param("exerciseId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Routine entry updated"})
}

func (h *RoutineEntryHandler) DeleteExercise(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.entryService.DeleteExerciseFromRoutine(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), c.Param("exerciseId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Exercise removed from routine"})
}
