package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout_scheduler/internal/models"
	"workout_scheduler/internal/testutil"
	"workout_scheduler/pkg/apperrors"
)

func newExerciseFixture(exercises ...*models.Exercise) (*fakeExerciseRepo, *fakeImageService, ExerciseService) {
	repo := newFakeExerciseRepo(exercises...)
	images := &fakeImageService{}
	return repo, images, NewExerciseService(repo, &fakeEntryRepo{}, images)
}

func headers(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(names))
	for _, n := range names {
		out = append(out, &multipart.FileHeader{Filename: n, Size: 10})
	}
	return out
}

func TestCreateCustomExercise_Validation(t *testing.T) {
	_, images, svc := newExerciseFixture()
	db, _ := testutil.NewMockDB(t)
	ctx := context.Background()

	_, err := svc.CreateCustomExercise(ctx, db, "{not json", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidExerciseData)

	_, err = svc.CreateCustomExercise(ctx, db, `{"name":"  ","mainMuscle":"chest"}`, nil)
	assert.ErrorIs(t, err, apperrors.ErrExerciseNameRequired)

	_, err = svc.CreateCustomExercise(ctx, db, `{"name":"Dips"}`, nil)
	assert.ErrorIs(t, err, apperrors.ErrMainMuscleRequired)

	assert.Empty(t, images.stored)
}

func TestCreateCustomExercise_StoresImages(t *testing.T) {
	repo, images, svc := newExerciseFixture()
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.CreateCustomExercise(context.Background(), db,
		`{"name":" Dips ","mainMuscle":"chest","secondaryMuscle":"triceps","requireEquipment":true}`,
		headers("a.png", "b.jpg"))
	require.NoError(t, err)

	created := repo.exercises[resp.ID]
	require.NotNil(t, created)
	assert.Equal(t, "Dips", created.Name)
	assert.True(t, created.IsCustom)
	assert.True(t, created.Enabled)
	assert.True(t, created.RequireEquipment)
	require.Len(t, created.Images, 2)
	assert.Equal(t, resp.ID, created.Images[0].ExerciseID)
	assert.Empty(t, images.deleted)
}

func TestCreateCustomExercise_FailedInsertRemovesFiles(t *testing.T) {
	repo, images, svc := newExerciseFixture()
	repo.createErr = errors.New("insert failed")
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CreateCustomExercise(context.Background(), db, `{"name":"Dips","mainMuscle":"chest"}`, headers("a.png"))
	require.Error(t, err)
	assert.Len(t, images.deleted, 1)
}

func TestCreateCustomExercise_UploadError(t *testing.T) {
	_, images, svc := newExerciseFixture()
	images.storeErr = apperrors.ErrInvalidFileType
	db, _ := testutil.NewMockDB(t)

	_, err := svc.CreateCustomExercise(context.Background(), db, `{"name":"Dips","mainMuscle":"chest"}`, headers("a.exe"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

func TestUpdateCustomExercise(t *testing.T) {
	existing := func() *models.Exercise {
		return &models.Exercise{
			BaseModel:  models.BaseModel{ID: "ex1"},
			Name:       "Dips",
			MainMuscle: "chest",
			IsCustom:   true,
			Enabled:    true,
		}
	}

	t.Run("partial without images", func(t *testing.T) {
		repo, images, svc := newExerciseFixture(existing())
		repo.images["ex1"] = []models.ExerciseImage{{StorageKey: "old.png"}}
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.UpdateCustomExercise(context.Background(), db, "ex1", `{"name":"","description":"bar dips"}`, nil)
		require.NoError(t, err)
		assert.Equal(t, "Dips", resp.Name)
		assert.Equal(t, "bar dips", resp.Description)
		assert.Empty(t, images.stored)
		assert.Empty(t, images.deleted)
		assert.Len(t, repo.images["ex1"], 1)
	})

	t.Run("replaces images", func(t *testing.T) {
		repo, images, svc := newExerciseFixture(existing())
		repo.images["ex1"] = []models.ExerciseImage{{StorageKey: "old.png"}}
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.UpdateCustomExercise(context.Background(), db, "ex1", "", headers("new.png"))
		require.NoError(t, err)
		assert.Len(t, resp.ImageURLs, 1)
		assert.Len(t, repo.createdImages, 1)
		require.Len(t, images.deleted, 1)
		assert.Equal(t, "old.png", images.deleted[0].StorageKey)
	})

	t.Run("unknown exercise", func(t *testing.T) {
		_, images, svc := newExerciseFixture()
		db, _ := testutil.NewMockDB(t)

		_, err := svc.UpdateCustomExercise(context.Background(), db, "missing", "", headers("new.png"))
		assert.ErrorIs(t, err, apperrors.ErrExerciseNotFound)
		assert.Empty(t, images.stored)
	})
}

func TestDeleteCustomExercise(t *testing.T) {
	repo, _, svc := newExerciseFixture(&models.Exercise{BaseModel: models.BaseModel{ID: "ex1"}, Enabled: true})
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteCustomExercise(context.Background(), db, "ex1"))
	assert.False(t, repo.exercises["ex1"].Enabled)

	_, err := svc.GetExerciseByID(context.Background(), db, "ex1")
	assert.ErrorIs(t, err, apperrors.ErrExerciseNotFound)
}

func TestPurgeExercise_DeletesFilesAfterCommit(t *testing.T) {
	repo, images, svc := newExerciseFixture(&models.Exercise{BaseModel: models.BaseModel{ID: "ex1"}, Enabled: false})
	repo.images["ex1"] = []models.ExerciseImage{{StorageKey: "a.png"}, {StorageKey: "b.png"}}
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.PurgeExercise(context.Background(), db, "ex1"))
	assert.NotContains(t, repo.exercises, "ex1")
	assert.Len(t, images.deleted, 2)
}
