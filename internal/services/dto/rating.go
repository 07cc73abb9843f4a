package dto

import (
	"time"

	"workout_scheduler/internal/models"
)

type CreateRatingRequest struct {
	Stars   int    `json:"stars" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type UpdateRatingRequest struct {
	Stars   *int    `json:"stars,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type RatingResponse struct {
	ID         string     `json:"id"`
	Stars      int        `json:"stars"`
	Comment    string     `json:"comment"`
	RoutineID  string     `json:"routineId"`
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
}

func ToRatingResponse(r *models.RoutineRating) *RatingResponse {
	return &RatingResponse{
		ID:         r.ID,
		Stars:      r.Stars,
		Comment:    r.Comment,
		RoutineID:  r.RoutineID,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		ModifiedAt: r.ModifiedAt,
	}
}
