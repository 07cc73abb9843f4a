package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
)

type RatingHandler struct {
	*BaseHandler
	ratingService services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{
		BaseHandler:   base,
		ratingService: ratingService,
	}
}

func (h *RatingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/routines/:id/ratings", h.GetRatings)

	ratings := r.Group("/routines/:id/ratings")
	ratings.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermRatingsWrite))
	{
		ratings.POST("", h.CreateRating)
		ratings.PATCH("/:ratingId", h.UpdateRating)
		ratings.DELETE("/:ratingId", h.DeleteRating)
	}
}

// GetRatings godoc
// @Summary Активные оценки программы
// @Tags ratings
// @Produce json
// @Param id path string true "ID программы"
// @Success 200 {array} dto.RatingResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /routines/{id}/ratings [get]
func (h *RatingHandler) GetRatings(c *gin.Context) {
	ratings, err := h.ratingService.GetAllRatingsOfRoutine(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	rating, err := h.ratingService.CreateRoutineRating(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRatingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	rating, err := h.ratingService.UpdateRoutineRating(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), c.Param("ratingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.ratingService.DeleteRoutineRating(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), c.Param("ratingId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Rating deleted"})
}
