package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/email"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/internal/testutil"
	"workout_scheduler/pkg/apperrors"
)

type userFixture struct {
	users   *fakeUserRepo
	codes   *fakeCodeRepo
	mailer  *fakeMailer
	service *userService
	now     time.Time
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:  newFakeUserRepo(),
		codes:  &fakeCodeRepo{},
		mailer: &fakeMailer{},
		now:    time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewUserService(f.users, f.codes, f.mailer).(*userService)
	f.service.now = func() time.Time { return f.now }
	f.service.newCode = func() (int, error) { return 54321, nil }
	return f
}

func validPreRegister() *dto.PreRegisterRequest {
	return &dto.PreRegisterRequest{
		Username:   "athlete",
		Email:      "athlete@example.com",
		Password:   "Sup3rSecret!",
		Name:       "Alex",
		PersonType: "mesomorph",
		Birthdate:  "1990-04-12",
		Trainings:  3,
	}
}

func TestRandomConfirmationCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := randomConfirmationCode()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, code, 10000)
		assert.LessOrEqual(t, code, 99999)
	}
}

func TestPreRegister_CreatesDisabledUserAndSendsCode(t *testing.T) {
	f := newUserFixture()
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.service.PreRegister(context.Background(), db, validPreRegister())
	require.NoError(t, err)

	user := f.users.users[resp.UserID]
	require.NotNil(t, user)
	assert.False(t, user.Enabled)
	assert.True(t, auth.CheckPasswordHash("Sup3rSecret!", user.PasswordHash))
	assert.True(t, user.HasRole(models.RoleUser))
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.PersonTypeMesomorph, user.Profile.PersonType)
	require.NotNil(t, user.Profile.Birthdate)

	require.Len(t, f.codes.codes, 1)
	code := f.codes.codes[0]
	assert.Equal(t, 54321, code.Code)
	assert.Equal(t, models.ConfirmationCodeNew, code.Status)
	assert.Equal(t, f.now.Add(2*time.Hour), code.ExpiresAt)

	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.sent[0]
	assert.Equal(t, []string{"athlete@example.com"}, sent.to)
	assert.Equal(t, email.TemplateConfirmationCode, sent.template)
	assert.Equal(t, 54321, sent.data["Code"])
}

func TestPreRegister_Conflicts(t *testing.T) {
	t.Run("username case-insensitive", func(t *testing.T) {
		f := newUserFixture()
		f.users.add(&models.User{Username: "Athlete", Email: "other@example.com"})
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := f.service.PreRegister(context.Background(), db, validPreRegister())
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})

	t.Run("email", func(t *testing.T) {
		f := newUserFixture()
		f.users.add(&models.User{Username: "someone", Email: "ATHLETE@example.com"})
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := f.service.PreRegister(context.Background(), db, validPreRegister())
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("unique index race", func(t *testing.T) {
		f := newUserFixture()
		f.users.createErr = gorm.ErrDuplicatedKey
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := f.service.PreRegister(context.Background(), db, validPreRegister())
		assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
	})
}

func TestPreRegister_InvalidInputBeforeTransaction(t *testing.T) {
	f := newUserFixture()
	db, _ := testutil.NewMockDB(t)

	req := validPreRegister()
	req.PersonType = "giant"
	_, err := f.service.PreRegister(context.Background(), db, req)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	req = validPreRegister()
	req.Password = "short"
	_, err = f.service.PreRegister(context.Background(), db, req)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	assert.Empty(t, f.users.users)
}

func TestPreRegister_EmailFailureRollsBack(t *testing.T) {
	f := newUserFixture()
	f.mailer.err = errors.New("smtp down")
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.service.PreRegister(context.Background(), db, validPreRegister())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}

func TestRegisterConfirmation(t *testing.T) {
	seed := func(f *userFixture) {
		f.users.add(&models.User{BaseModel: models.BaseModel{ID: "u1"}, Username: "athlete", Email: "a@example.com"})
		f.codes.codes = append(f.codes.codes, models.ConfirmationCode{
			UserID:    "u1",
			Code:      12345,
			ExpiresAt: f.now.Add(time.Hour),
			Status:    models.ConfirmationCodeNew,
		})
	}

	t.Run("valid code", func(t *testing.T) {
		f := newUserFixture()
		seed(f)
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		require.NoError(t, f.service.RegisterConfirmation(context.Background(), db, "u1", " 12345 "))
		assert.True(t, f.users.users["u1"].Enabled)
		assert.Equal(t, models.ConfirmationCodeUsed, f.codes.codes[0].Status)
	})

	t.Run("non numeric", func(t *testing.T) {
		f := newUserFixture()
		seed(f)
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := f.service.RegisterConfirmation(context.Background(), db, "u1", "12a45")
		assert.ErrorIs(t, err, apperrors.ErrInvalidAttempt)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newUserFixture()
		seed(f)
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := f.service.RegisterConfirmation(context.Background(), db, "u1", "11111")
		assert.ErrorIs(t, err, apperrors.ErrCodeNotFoundOrExpired)
		assert.False(t, f.users.users["u1"].Enabled)
	})

	t.Run("expired", func(t *testing.T) {
		f := newUserFixture()
		seed(f)
		f.now = f.now.Add(3 * time.Hour)
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := f.service.RegisterConfirmation(context.Background(), db, "u1", "12345")
		assert.ErrorIs(t, err, apperrors.ErrCodeNotFoundOrExpired)
	})

	t.Run("already confirmed", func(t *testing.T) {
		f := newUserFixture()
		seed(f)
		f.users.users["u1"].Enabled = true
		db, mock := testutil.NewMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := f.service.RegisterConfirmation(context.Background(), db, "u1", "12345")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestResendConfirmationCode_ReplacesCodes(t *testing.T) {
	f := newUserFixture()
	f.users.add(&models.User{BaseModel: models.BaseModel{ID: "u1"}, Username: "athlete", Email: "a@example.com"})
	f.codes.codes = []models.ConfirmationCode{
		{UserID: "u1", Code: 11111, ExpiresAt: f.now.Add(time.Hour), Status: models.ConfirmationCodeNew},
		{UserID: "other", Code: 22222, ExpiresAt: f.now.Add(time.Hour), Status: models.ConfirmationCodeNew},
	}
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, f.service.ResendConfirmationCode(context.Background(), db, "u1"))

	var mine []int
	for _, c := range f.codes.codes {
		if c.UserID == "u1" {
			mine = append(mine, c.Code)
		}
	}
	assert.Equal(t, []int{54321}, mine)
	assert.Len(t, f.codes.codes, 2)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, []string{"a@example.com"}, f.mailer.sent[0].to)
}

func TestGetUserData_DisabledUserNotFound(t *testing.T) {
	f := newUserFixture()
	f.users.add(&models.User{BaseModel: models.BaseModel{ID: "u1"}, Username: "athlete"})
	db, _ := testutil.NewMockDB(t)

	_, err := f.service.GetUserData(context.Background(), db, "u1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestPurgeStaleConfirmationCodes(t *testing.T) {
	f := newUserFixture()
	f.codes.codes = []models.ConfirmationCode{
		{UserID: "u1", Code: 11111, ExpiresAt: f.now.Add(-time.Minute), Status: models.ConfirmationCodeNew},
		{UserID: "u2", Code: 22222, ExpiresAt: f.now.Add(time.Hour), Status: models.ConfirmationCodeUsed},
		{UserID: "u3", Code: 33333, ExpiresAt: f.now.Add(time.Hour), Status: models.ConfirmationCodeNew},
	}
	db, _ := testutil.NewMockDB(t)

	deleted, err := f.service.PurgeStaleConfirmationCodes(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	require.Len(t, f.codes.codes, 1)
	assert.Equal(t, "u3", f.codes.codes[0].UserID)
}
