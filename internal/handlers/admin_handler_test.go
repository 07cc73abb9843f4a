package handlers

import (
	"context"
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
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/internal/testutil"
	"workout_scheduler/internal/validator"
)

type stubUserService struct {
	services.UserService
	purged int64
	calls  int
}

func (s *stubUserService) PurgeStaleConfirmationCodes(_ context.Context, _ *gorm.DB) (int64, error) {
	s.calls++
	return s.purged, nil
}

func TestAdminHandler_PurgeConfirmationCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("secret", time.Hour)
	adminToken, _, err := tokens.GenerateToken("admin", []string{string(models.RoleAdmin)})
	require.NoError(t, err)
	userToken, _, err := tokens.GenerateToken("u1", []string{string(models.RoleUser)})
	require.NoError(t, err)

	users := &stubUserService{purged: 4}
	r := gin.New()
	r.Use(middleware.DBMiddleware(testutil.NewDryRunDB(t)))
	base := NewBaseHandler(validator.New(), middleware.AuthMiddleware(tokens), nil)
	NewAdminHandler(base, nil, nil, users).RegisterRoutes(r.Group(""))

	rec := testutil.SendRequest(t, r, http.MethodDelete, "/admin/confirmation-codes/stale", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, users.calls)

	rec = testutil.SendRequest(t, r, http.MethodDelete, "/admin/confirmation-codes/stale", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.PurgeResponse
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, int64(4), resp.Deleted)
	assert.Equal(t, 1, users.calls)
}
