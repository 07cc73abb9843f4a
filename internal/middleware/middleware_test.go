package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
	Status int `json:"status"`
}

func protectedRouter(tokens *auth.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(tokens)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "roles": GetRoles(c)})
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := protectedRouter(tokens)

	t.Run("missing header", func(t *testing.T) {
		rec := testutil.SendRequest(t, router, http.MethodGet, "/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body errorBody
		testutil.DecodeJSON(t, rec, &body)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := testutil.SendRequest(t, router, http.MethodGet, "/me", "garbage", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body errorBody
		testutil.DecodeJSON(t, rec, &body)
		assert.Equal(t, "INVALID_TOKEN", body.Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, _, err := auth.NewTokenManager("secret", -time.Minute).GenerateToken("u1", nil)
		require.NoError(t, err)

		rec := testutil.SendRequest(t, router, http.MethodGet, "/me", expired, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body errorBody
		testutil.DecodeJSON(t, rec, &body)
		assert.Equal(t, "TOKEN_EXPIRED", body.Error.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := tokens.GenerateToken("u1", []string{string(models.RoleUser)})
		require.NoError(t, err)

		rec := testutil.SendRequest(t, router, http.MethodGet, "/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			UserID string   `json:"userId"`
			Roles  []string `json:"roles"`
		}
		testutil.DecodeJSON(t, rec, &body)
		assert.Equal(t, "u1", body.UserID)
		assert.Equal(t, []string{"ROLE_USER"}, body.Roles)
	})
}

func TestRequireRolesAndPermissions(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	userToken, _, err := tokens.GenerateToken("u1", []string{string(models.RoleUser)})
	require.NoError(t, err)
	adminToken, _, err := tokens.GenerateToken("a1", []string{string(models.RoleAdmin)})
	require.NoError(t, err)

	byRole := protectedRouter(tokens, RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, testutil.SendRequest(t, byRole, http.MethodGet, "/me", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, testutil.SendRequest(t, byRole, http.MethodGet, "/me", adminToken, nil).Code)

	byPermission := protectedRouter(tokens, RequirePermission(auth.PermRoutinesPurge))
	assert.Equal(t, http.StatusForbidden, testutil.SendRequest(t, byPermission, http.MethodGet, "/me", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, testutil.SendRequest(t, byPermission, http.MethodGet, "/me", adminToken, nil).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func() *httptest.ResponseRecorder {
		return testutil.SendRequest(t, r, http.MethodGet, "/ping", "", nil)
	}
	assert.Equal(t, http.StatusNoContent, send().Code)
	assert.Equal(t, http.StatusNoContent, send().Code)

	rec := send()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	now = now.Add(5 * time.Minute)
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(6 * time.Minute)
	rl.Cleanup()
	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestRateLimiter_SweepsOnAccess(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	now = now.Add(11 * time.Minute)
	assert.True(t, rl.Allow("10.0.0.2"))

	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Len(t, rl.limiters, 1)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = testutil.SendRequest(t, r, http.MethodGet, "/ping", "", nil)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
