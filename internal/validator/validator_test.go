package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout_scheduler/internal/services/dto"
)

func TestValidate_FieldPathsFromJSONTags(t *testing.T) {
	err := New().Validate(&dto.CreateRoutineRequest{
		Name: "   ",
		Exercises: []dto.RoutineEntryRequest{
			{ExerciseID: "squat", Sets: 3, Reps: 10},
			{Sets: 0, Reps: 5},
		},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, map[string]string{
		"name":                    "Must not be blank",
		"exercises[1].exerciseId": "This field is required",
		"exercises[1].sets":       "This field is required",
	}, vErr.Errors)
	assert.Contains(t, vErr.Error(), "field 'name': Must not be blank")
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	req := &dto.PreRegisterRequest{
		Username:   "athlete",
		Email:      "athlete@example.com",
		Password:   "Sup3rSecret!",
		Name:       "Alex",
		PersonType: "mesomorph",
	}
	assert.NoError(t, v.Validate(req))

	req.PersonType = "giant"
	var vErr *ValidationError
	require.ErrorAs(t, v.Validate(req), &vErr)
	assert.Equal(t, "Must be one of: ECTOMORPH, MESOMORPH, ENDOMORPH", vErr.Errors["personType"])

	page := &dto.PageRequestDTO{Direction: "DESC"}
	assert.NoError(t, v.Validate(page))
	page.Direction = "sideways"
	require.ErrorAs(t, v.Validate(page), &vErr)
	assert.Equal(t, "Must be one of: asc, desc", vErr.Errors["direction"])
}

func TestValidate_RangeMessages(t *testing.T) {
	err := New().Validate(&dto.CreateRatingRequest{Stars: 9})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Must be at most 5", vErr.Errors["stars"])
}
