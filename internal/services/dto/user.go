package dto

import (
	"time"

	"workout_scheduler/internal/models"
)

type PreRegisterRequest struct {
	Username   string   `json:"username" validate:"required,min=3,max=50"`
	Email      string   `json:"email" validate:"required,email,max=255"`
	Password   string   `json:"password" validate:"required,min=8,max=72"`
	Name       string   `json:"name" validate:"required,max=100"`
	Lastname   string   `json:"lastname" validate:"max=100"`
	Phone      string   `json:"phone" validate:"max=30"`
	Height     *float64 `json:"height,omitempty" validate:"omitempty,gt=0,lt=300"`
	Weight     *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lt=500"`
	PersonType string   `json:"personType" validate:"omitempty,is-person-type"`
	Birthdate  string   `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Trainings  int      `json:"trainings" validate:"min=0,max=14"`
}

type PreRegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type SaveRoutineRequest struct {
	ListType string `json:"listType" validate:"required"`
}

type ListTypeQuery struct {
	ListType string `form:"listType" json:"listType" validate:"required"`
}

type UserDataResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"createdAt"`
	Name       string     `json:"name,omitempty"`
	Lastname   string     `json:"lastname,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Height     *float64   `json:"height,omitempty"`
	Weight     *float64   `json:"weight,omitempty"`
	PersonType string     `json:"personType,omitempty"`
	Birthdate  *time.Time `json:"birthdate,omitempty"`
	Trainings  int        `json:"trainings"`
}

func ToUserDataResponse(u *models.User) *UserDataResponse {
	resp := &UserDataResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	if p := u.Profile; p != nil {
		resp.Name = p.Name
		resp.Lastname = p.Lastname
		resp.Phone = p.Phone
		resp.Height = p.Height
		resp.Weight = p.Weight
		resp.PersonType = string(p.PersonType)
		resp.Trainings = p.Trainings
		if p.Birthdate != nil {
			t := time.Time(*p.Birthdate)
			resp.Birthdate = &t
		}
	}
	return resp
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
}

type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
