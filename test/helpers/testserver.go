package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workout_scheduler/database"
	"workout_scheduler/internal/app"
	"workout_scheduler/internal/config"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *gorm.DB
	Mail    *MockEmailProvider
	cleanup func()
}

// NewTestServer поднимает роутер поверх базы из TEST_DATABASE_URL.
// Без переменной тест пропускается.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.DSN = dsn
	if driver := os.Getenv("TEST_DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	cfg.JWT.Secret = "integration-secret"
	cfg.Email.Enabled = false
	cfg.Storage.BasePath = t.TempDir()
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000

	db, err := database.Connect(cfg)
	require.NoError(t, err, "не удалось подключиться к тестовой БД")
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedRoles(db))

	mail := &MockEmailProvider{}
	router, cleanup := app.NewRouter(cfg, db, mail)

	return &TestServer{
		Server:  httptest.NewServer(router),
		DB:      db,
		Mail:    mail,
		cleanup: cleanup,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.cleanup()
	if sqlDB, err := ts.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// ClearTables очищает все таблицы, кроме ролей
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()
	tables := []string{
		"saved_routines",
		"routine_ratings",
		"routine_entries",
		"routines",
		"exercise_images",
		"exercises",
		"confirmation_codes",
		"profiles",
		"users_roles",
		"users",
	}
	for _, table := range tables {
		require.NoError(t, ts.DB.Exec("DELETE FROM "+table).Error, "очистка %s", table)
	}
}

// SendRequest отправляет JSON-запрос и возвращает ответ с прочитанным телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}
