package dto

import (
	"strings"
	"time"

	"workout_scheduler/internal/models"
)

// ======================
// Request DTOs
// ======================

// RoutineFiltersRequest - все поля опциональны; dates, если передан, ровно из двух дат
type RoutineFiltersRequest struct {
	Name            *string         `json:"name,omitempty"`
	MainMuscle      *string         `json:"mainMuscle,omitempty"`
	SecondaryMuscle *string         `json:"secondaryMuscle,omitempty"`
	Before          *time.Time      `json:"before,omitempty"`
	After           *time.Time      `json:"after,omitempty"`
	Dates           []time.Time     `json:"dates,omitempty"`
	Exercises       []string        `json:"exercises,omitempty"`
	MostPopular     bool            `json:"mostPopular"`
	PageRequest     *PageRequestDTO `json:"pageRequest,omitempty" validate:"omitempty"`
}

// IsSomeFilterActive - mostPopular и пагинация фильтрами не считаются.
// Пустые строки и пустой список упражнений ничего не ограничивают
func (r *RoutineFiltersRequest) IsSomeFilterActive() bool {
	return NotBlank(r.Name) ||
		NotBlank(r.MainMuscle) ||
		NotBlank(r.SecondaryMuscle) ||
		r.Before != nil ||
		r.After != nil ||
		r.Dates != nil ||
		len(r.Exercises) > 0
}

// NotBlank - строковый фильтр задан и не пустой
func NotBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

type PageRequestDTO struct {
	Page       int    `json:"page" validate:"min=0"`
	Size       int    `json:"size" validate:"min=0"`
	OrderField string `json:"orderField,omitempty"`
	Direction  string `json:"direction,omitempty" validate:"omitempty,is-sort-direction"`
}

type RoutineEntryRequest struct {
	ExerciseID  string  `json:"exerciseId" validate:"required"`
	Sets        int     `json:"sets" validate:"required,min=1,max=100"`
	Reps        int     `json:"reps" validate:"required,min=1,max=1000"`
	RestSeconds *int    `json:"restSeconds,omitempty" validate:"omitempty,min=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type CreateRoutineRequest struct {
	Name      string                `json:"name" validate:"required,not-blank,max=150"`
	Exercises []RoutineEntryRequest `json:"exercises" validate:"dive"`
}

// UpdateRoutineEntryRequest - nil поля не меняются
type UpdateRoutineEntryRequest struct {
	ExerciseID  *string `json:"exerciseId,omitempty" validate:"omitempty,min=1"`
	Sets        *int    `json:"sets,omitempty" validate:"omitempty,min=1,max=100"`
	Reps        *int    `json:"reps,omitempty" validate:"omitempty,min=1,max=1000"`
	RestSeconds *int    `json:"restSeconds,omitempty" validate:"omitempty,min=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ======================
// Response DTOs
// ======================

type RoutineEntryResponse struct {
	ID           string    `json:"id"`
	ExerciseID   string    `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName,omitempty"`
	MainMuscle   string    `json:"mainMuscle,omitempty"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	RestSeconds  *int      `json:"restSeconds,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RoutineResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	CreatedBy string                 `json:"createdBy"`
	CreatedAt time.Time              `json:"createdAt"`
	Entries   []RoutineEntryResponse `json:"entries"`
}

type CreateRoutineResponse struct {
	ID string `json:"id"`
}

func ToRoutineResponse(r *models.Routine) *RoutineResponse {
	resp := &RoutineResponse{
		ID:        r.ID,
		Name:      r.Name,
		CreatedBy: r.UserID,
		CreatedAt: r.CreatedAt,
		Entries:   make([]RoutineEntryResponse, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		entry := RoutineEntryResponse{
			ID:          e.ID,
			ExerciseID:  e.ExerciseID,
			Sets:        e.Sets,
			Reps:        e.Reps,
			RestSeconds: e.RestSeconds,
			Notes:       e.Notes,
			CreatedAt:   e.CreatedAt,
		}
		if e.Exercise != nil {
			entry.ExerciseName = e.Exercise.Name
			entry.MainMuscle = e.Exercise.MainMuscle
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}

func ToRoutineResponses(routines []models.Routine) []*RoutineResponse {
	out := make([]*RoutineResponse, 0, len(routines))
	for i := range routines {
		out = append(out, ToRoutineResponse(&routines[i]))
	}
	return out
}
