package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService         services.UserService
	routineService      services.RoutineService
	savedRoutineService services.SavedRoutineService
}

func NewUserHandler(
	base *BaseHandler,
	userService services.UserService,
	routineService services.RoutineService,
	savedRoutineService services.SavedRoutineService,
) *UserHandler {
	return &UserHandler{
		BaseHandler:         base,
		userService:         userService,
		routineService:      routineService,
		savedRoutineService: savedRoutineService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/users")
	{
		public.POST("/pre-register", h.RateLimited(), h.PreRegister)
		public.PATCH("/:id/register-confirmation", h.RegisterConfirmation)
		public.PATCH("/:id/resend-confirmation-code", h.RateLimited(), h.ResendConfirmationCode)
		public.GET("/:id/routines", h.GetUserRoutines)
	}

	// Protected routes
	me := r.Group("/users/me")
	me.Use(h.RequireAuth())
	{
		me.GET("", h.GetMe)
		me.GET("/saved-routines", h.GetSavedRoutines)
		me.POST("/saved-routines/:routineId", h.SaveRoutine)
		me.DELETE("/saved-routines/:routineId", h.UnsaveRoutine)
	}
}

// PreRegister godoc
// @Summary Предварительная регистрация
// @Description Создает неподтвержденного пользователя и отправляет код на почту
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.PreRegisterRequest true "Данные пользователя"
// @Success 201 {object} dto.PreRegisterResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Username или email заняты"
// @Router /users/pre-register [post]
func (h *UserHandler) PreRegister(c *gin.Context) {
	var req dto.PreRegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.userService.PreRegister(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RegisterConfirmation godoc
// @Summary Подтверждение регистрации кодом
// @Tags users
// @Produce json
// @Param id path string true "ID пользователя"
// @Param attempt query string true "Код из письма"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} apperrors.ErrorResponse "Пользователь или код не найдены"
// @Router /users/{id}/register-confirmation [patch]
func (h *UserHandler) RegisterConfirmation(c *gin.Context) {
	attempt := c.Query("attempt")
	if attempt == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Query parameter 'attempt' is required"))
		return
	}

	if err := h.userService.RegisterConfirmation(c.Request.Context(), h.GetDB(c), c.Param("id"), attempt); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Registration confirmed"})
}

func (h *UserHandler) ResendConfirmationCode(c *gin.Context) {
	if err := h.userService.ResendConfirmationCode(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Confirmation code sent"})
}

func (h *UserHandler) GetUserRoutines(c *gin.Context) {
	routines, err := h.routineService.GetUserRoutines(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, routines)
}

// --- Protected handlers ---

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserData(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetSavedRoutines(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ListTypeQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	routines, err := h.savedRoutineService.GetAllRoutinesOfList(c.Request.Context(), h.GetDB(c), userID, query.ListType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, routines)
}

func (h *UserHandler) SaveRoutine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveRoutineRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.savedRoutineService.SaveRoutineInList(c.Request.Context(), h.GetDB(c), userID, c.Param("routineId"), req.ListType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Routine saved in list"})
}

func (h *UserHandler) UnsaveRoutine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveRoutineRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.savedRoutineService.UnsaveRoutineInList(c.Request.Context(), h.GetDB(c), userID, c.Param("routineId"), req.ListType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Routine removed from list"})
}
