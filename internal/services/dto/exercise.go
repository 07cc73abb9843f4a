package dto

import "workout_scheduler/internal/models"

// ExercisePayload - JSON из multipart-поля "data"; при обновлении nil поля не меняются
type ExercisePayload struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	MainMuscle       *string `json:"mainMuscle"`
	SecondaryMuscle  *string `json:"secondaryMuscle"`
	RequireEquipment *bool   `json:"requireEquipment"`
	VideoURL         *string `json:"videoURL"`
}

type ExerciseResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	MainMuscle       string   `json:"mainMuscle"`
	SecondaryMuscle  string   `json:"secondaryMuscle,omitempty"`
	Description      string   `json:"description,omitempty"`
	RequireEquipment bool     `json:"requireEquipment"`
	IsCustom         bool     `json:"isCustom"`
	VideoURL         string   `json:"videoURL,omitempty"`
	ImageURLs        []string `json:"imagesUrls"`
}

type CreateExerciseResponse struct {
	ID string `json:"id"`
}

func ToExerciseResponse(e *models.Exercise) *ExerciseResponse {
	return &ExerciseResponse{
		ID:               e.ID,
		Name:             e.Name,
		MainMuscle:       e.MainMuscle,
		SecondaryMuscle:  e.SecondaryMuscle,
		Description:      e.Description,
		RequireEquipment: e.RequireEquipment,
		IsCustom:         e.IsCustom,
		VideoURL:         e.VideoURL,
		ImageURLs:        e.ImageURLs(),
	}
}
