package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workout_scheduler/internal/models"
	"workout_scheduler/internal/services/dto"
)

// RegisterAndLogin проходит полный путь регистрации через API и возвращает токен и id пользователя
func RegisterAndLogin(t *testing.T, ts *TestServer, username string) (string, string) {
	t.Helper()

	password := "Str0ngPassword!"
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/pre-register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
		"name":     "Test " + username,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var pre dto.PreRegisterResponse
	require.NoError(t, json.Unmarshal([]byte(body), &pre))

	code, ok := ts.Mail.LastCode()
	require.True(t, ok, "письмо с кодом не отправлено")

	path := fmt.Sprintf("/api/v1/users/%s/register-confirmation?attempt=%s", pre.UserID, code)
	res, body = ts.SendRequest(t, http.MethodPatch, path, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	return Login(t, ts, username, password), pre.UserID
}

func Login(t *testing.T, ts *TestServer, login, password string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		UsernameOrEmail: login,
		Password:        password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// CreateExercise кладет упражнение каталога прямо в БД
func CreateExercise(t *testing.T, ts *TestServer, name, mainMuscle, secondaryMuscle string) models.Exercise {
	t.Helper()

	exercise := models.Exercise{
		Name:            name,
		MainMuscle:      mainMuscle,
		SecondaryMuscle: secondaryMuscle,
		Enabled:         true,
	}
	require.NoError(t, ts.DB.Create(&exercise).Error)
	return exercise
}

// UniqueName - уникальный суффикс для пользователей и программ
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()%1_000_000_000)
}
