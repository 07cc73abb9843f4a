package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

const (
	exerciseDataField   = "data"
	exerciseImagesField = "images"
)

type ExerciseHandler struct {
	*BaseHandler
	exerciseService services.ExerciseService
}

func NewExerciseHandler(base *BaseHandler, exerciseService services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{
		BaseHandler:     base,
		exerciseService: exerciseService,
	}
}

func (h *ExerciseHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/exercises")
	{
		public.GET("", h.FindExercises)
		public.GET("/:id", h.GetExercise)
	}

	protected := r.Group("/exercises")
	protected.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermExercisesWrite))
	{
		protected.POST("", h.CreateExercise)
		protected.PATCH("/:id", h.UpdateExercise)
		protected.DELETE("/:id", h.DeleteExercise)
	}
}

// multipartParts - поле "data" и файлы "images"; не-multipart запрос дает пустые значения
func multipartParts(c *gin.Context) (string, []*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil, nil
		}
		return "", nil, apperrors.NewBadRequestError("Invalid multipart form: " + err.Error())
	}

	var data string
	if values := form.Value[exerciseDataField]; len(values) > 0 {
		data = values[0]
	}
	return data, form.File[exerciseImagesField], nil
}

// FindExercises godoc
// @Summary Поиск упражнений по имени
// @Tags exercises
// @Produce json
// @Param name query string false "Подстрока имени"
// @Success 200 {array} dto.ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) FindExercises(c *gin.Context) {
	exercises, err := h.exerciseService.FindExercisesByName(c.Request.Context(), h.GetDB(c), c.Query("name"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// CreateExercise godoc
// @Summary Создать пользовательское упражнение
// @Tags exercises
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param data formData string true "JSON с полями упражнения"
// @Param images formData file false "Картинки"
// @Success 201 {object} dto.CreateExerciseResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	data, files, err := multipartParts(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if data == "" {
		h.HandleServiceError(c, apperrors.ErrInvalidExerciseData)
		return
	}

	resp, err := h.exerciseService.CreateCustomExercise(c.Request.Context(), h.GetDB(c), data, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	data, files, err := multipartParts(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.exerciseService.UpdateCustomExercise(c.Request.Context(), h.GetDB(c), c.Param("id"), data, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	if err := h.exerciseService.DeleteCustomExercise(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Exercise deleted"})
}
