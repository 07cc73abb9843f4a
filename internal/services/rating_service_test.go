package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout_scheduler/internal/models"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/internal/testutil"
	"workout_scheduler/pkg/apperrors"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newRatingFixture() (*fakeRatingRepo, *fakeRoutineRepo, RatingService) {
	ratings := newFakeRatingRepo()
	routines := newFakeRoutineRepo()
	routines.add(routineWithID("r1", "owner"))
	routines.add(routineWithID("r2", "owner"))

	svc := NewRatingService(ratings, routines).(*ratingService)
	svc.now = func() time.Time { return fixedNow }
	return ratings, routines, svc
}

func seedRating(repo *fakeRatingRepo, id, routineID, author string) {
	repo.ratings[id] = &models.RoutineRating{
		BaseModel: models.BaseModel{ID: id},
		RoutineID: routineID,
		Stars:     4,
		Comment:   "solid",
		CreatedBy: author,
		Enabled:   true,
	}
}

func TestCreateRoutineRating(t *testing.T) {
	ratings, _, svc := newRatingFixture()
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.CreateRoutineRating(context.Background(), db, "fan", "r1", &dto.CreateRatingRequest{Stars: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Stars)
	assert.Equal(t, "fan", resp.CreatedBy)
	assert.Len(t, ratings.ratings, 1)
}

func TestCreateRoutineRating_OneActiveRatingPerUser(t *testing.T) {
	ratings, _, svc := newRatingFixture()
	seedRating(ratings, "rt1", "r1", "fan")
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	// Ограничение действует и для другой программы
	_, err := svc.CreateRoutineRating(context.Background(), db, "fan", "r2", &dto.CreateRatingRequest{Stars: 3})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRated)
}

func TestCreateRoutineRating_AfterDisableAllowed(t *testing.T) {
	ratings, _, svc := newRatingFixture()
	seedRating(ratings, "rt1", "r1", "fan")
	ratings.ratings["rt1"].Enabled = false
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.CreateRoutineRating(context.Background(), db, "fan", "r1", &dto.CreateRatingRequest{Stars: 2})
	assert.NoError(t, err)
}

func TestCreateRoutineRating_UnknownRoutine(t *testing.T) {
	_, _, svc := newRatingFixture()
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CreateRoutineRating(context.Background(), db, "fan", "missing", &dto.CreateRatingRequest{Stars: 2})
	assert.ErrorIs(t, err, apperrors.ErrRoutineNotFound)
}

func TestUpdateRoutineRating(t *testing.T) {
	t.Run("author", func(t *testing.T) {
		ratings, _, svc := newRatingFixture()
		seedRating(ratings, "rt1", "r1", "fan")
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		stars := 2
		resp, err := svc.UpdateRoutineRating(context.Background(), db, "fan", "r1", "rt1", &dto.UpdateRatingRequest{Stars: &stars})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Stars)
		assert.Equal(t, "solid", resp.Comment)
		require.NotNil(t, resp.ModifiedAt)
		assert.True(t, fixedNow.Equal(*resp.ModifiedAt))
	})

	t.Run("not author", func(t *testing.T) {
		ratings, _, svc := newRatingFixture()
		seedRating(ratings, "rt1", "r1", "fan")
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.UpdateRoutineRating(context.Background(), db, "owner", "r1", "rt1", &dto.UpdateRatingRequest{Comment: strPtr("meh")})
		assert.ErrorIs(t, err, apperrors.ErrNotRatingAuthor)
		assert.Equal(t, "solid", ratings.ratings["rt1"].Comment)
	})

	t.Run("rating of another routine", func(t *testing.T) {
		ratings, _, svc := newRatingFixture()
		seedRating(ratings, "rt1", "r1", "fan")
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.UpdateRoutineRating(context.Background(), db, "fan", "r2", "rt1", &dto.UpdateRatingRequest{})
		assert.ErrorIs(t, err, apperrors.ErrRatingNotFound)
	})
}

func TestDeleteRoutineRating_Disables(t *testing.T) {
	ratings, _, svc := newRatingFixture()
	seedRating(ratings, "rt1", "r1", "fan")
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteRoutineRating(context.Background(), db, "fan", "r1", "rt1"))
	stored := ratings.ratings["rt1"]
	assert.False(t, stored.Enabled)
	require.NotNil(t, stored.ModifiedAt)

	list, err := svc.GetAllRatingsOfRoutine(context.Background(), db, "r1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestGetAllRatingsOfRoutine_DisabledRoutine(t *testing.T) {
	_, routines, svc := newRatingFixture()
	routines.routines["r1"].Enabled = false
	db, _ := testutil.NewMockDB(t)

	_, err := svc.GetAllRatingsOfRoutine(context.Background(), db, "r1")
	assert.ErrorIs(t, err, apperrors.ErrRoutineNotFound)
}
