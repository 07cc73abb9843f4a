package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/internal/testutil"
	"workout_scheduler/internal/validator"
	"workout_scheduler/pkg/apperrors"
)

type ratingCall struct {
	op        string
	userID    string
	routineID string
	ratingID  string
	stars     int
}

type stubRatingService struct {
	calls []ratingCall
	err   error
}

func (s *stubRatingService) GetAllRatingsOfRoutine(_ context.Context, _ *gorm.DB, routineID string) ([]*dto.RatingResponse, error) {
	s.calls = append(s.calls, ratingCall{op: "list", routineID: routineID})
	if s.err != nil {
		return nil, s.err
	}
	return []*dto.RatingResponse{{ID: "rt1", RoutineID: routineID, Stars: 4}}, nil
}

func (s *stubRatingService) CreateRoutineRating(_ context.Context, _ *gorm.DB, userID, routineID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	s.calls = append(s.calls, ratingCall{op: "create", userID: userID, routineID: routineID, stars: req.Stars})
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RatingResponse{ID: "rt1", RoutineID: routineID, CreatedBy: userID, Stars: req.Stars}, nil
}

func (s *stubRatingService) UpdateRoutineRating(_ context.Context, _ *gorm.DB, userID, routineID, ratingID string, _ *dto.UpdateRatingRequest) (*dto.RatingResponse, error) {
	s.calls = append(s.calls, ratingCall{op: "update", userID: userID, routineID: routineID, ratingID: ratingID})
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RatingResponse{ID: ratingID, RoutineID: routineID}, nil
}

func (s *stubRatingService) DeleteRoutineRating(_ context.Context, _ *gorm.DB, userID, routineID, ratingID string) error {
	s.calls = append(s.calls, ratingCall{op: "delete", userID: userID, routineID: routineID, ratingID: ratingID})
	return s.err
}

type errorBody struct {
	Error struct {
		Code    string      `json:"code"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func newRatingRouter(t *testing.T, svc *stubRatingService) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("secret", time.Hour)
	token, _, err := tokens.GenerateToken("u1", []string{string(models.RoleUser)})
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.DBMiddleware(testutil.NewDryRunDB(t)))
	base := NewBaseHandler(validator.New(), middleware.AuthMiddleware(tokens), nil)
	NewRatingHandler(base, svc).RegisterRoutes(r.Group(""))
	return r, token
}

func TestRatingHandler_ListIsPublic(t *testing.T) {
	svc := &stubRatingService{}
	r, _ := newRatingRouter(t, svc)

	rec := testutil.SendRequest(t, r, http.MethodGet, "/routines/r1/ratings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ratings []dto.RatingResponse
	testutil.DecodeJSON(t, rec, &ratings)
	require.Len(t, ratings, 1)
	assert.Equal(t, "r1", ratings[0].RoutineID)
}

func TestRatingHandler_CreateRequiresAuth(t *testing.T) {
	svc := &stubRatingService{}
	r, _ := newRatingRouter(t, svc)

	rec := testutil.SendRequest(t, r, http.MethodPost, "/routines/r1/ratings", "", dto.CreateRatingRequest{Stars: 4})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.calls)
}

func TestRatingHandler_CreateValidates(t *testing.T) {
	svc := &stubRatingService{}
	r, token := newRatingRouter(t, svc)

	rec := testutil.SendRequest(t, r, http.MethodPost, "/routines/r1/ratings", token, dto.CreateRatingRequest{Stars: 9})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	assert.Equal(t, string(apperrors.CodeValidationFailed), body.Error.Code)
	assert.Empty(t, svc.calls)
}

func TestRatingHandler_Create(t *testing.T) {
	svc := &stubRatingService{}
	r, token := newRatingRouter(t, svc)

	rec := testutil.SendRequest(t, r, http.MethodPost, "/routines/r1/ratings", token, dto.CreateRatingRequest{Stars: 5, Comment: "great"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []ratingCall{{op: "create", userID: "u1", routineID: "r1", stars: 5}}, svc.calls)
}

func TestRatingHandler_ServiceErrors(t *testing.T) {
	t.Run("domain error keeps its status", func(t *testing.T) {
		svc := &stubRatingService{err: apperrors.ErrNotRatingAuthor}
		r, token := newRatingRouter(t, svc)

		rec := testutil.SendRequest(t, r, http.MethodPatch, "/routines/r1/ratings/rt1", token, dto.UpdateRatingRequest{})
		assert.Equal(t, apperrors.StatusOf(apperrors.ErrNotRatingAuthor), rec.Code)
		require.Len(t, svc.calls, 1)
		assert.Equal(t, "rt1", svc.calls[0].ratingID)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		svc := &stubRatingService{err: errors.New("boom")}
		r, token := newRatingRouter(t, svc)

		rec := testutil.SendRequest(t, r, http.MethodDelete, "/routines/r1/ratings/rt1", token, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var body errorBody
		testutil.DecodeJSON(t, rec, &body)
		assert.Equal(t, string(apperrors.CodeInternalError), body.Error.Code)
	})
}

func TestRatingHandler_Delete(t *testing.T) {
	svc := &stubRatingService{}
	r, token := newRatingRouter(t, svc)

	rec := testutil.SendRequest(t, r, http.MethodDelete, "/routines/r1/ratings/rt1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.MessageResponse
	testutil.DecodeJSON(t, rec, &body)
	assert.Equal(t, "Rating deleted", body.Message)
}
