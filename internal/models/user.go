package models

import (
	"time"

	"gorm.io/datatypes"
)

// User - учетная запись. Username и email уникальны без учета регистра (проверяется в сервисе)
type User struct {
	BaseModel
	Username     string `gorm:"size:100;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Enabled      bool   `gorm:"not null;default:false"`

	Roles             []Role             `gorm:"many2many:users_roles;"`
	Profile           *Profile           `gorm:"foreignKey:UserID"`
	ConfirmationCodes []ConfirmationCode `gorm:"foreignKey:UserID"`
	Routines          []Routine          `gorm:"foreignKey:UserID"`
	SavedRoutines     []SavedRoutine     `gorm:"foreignKey:UserID"`
}

// HasRole проверяет загруженные роли
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames - для claims токена
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Name))
	}
	return names
}

type Role struct {
	BaseModel
	Name        RoleName `gorm:"type:varchar(30);uniqueIndex;not null"`
	Description string
}

type Profile struct {
	BaseModel
	UserID     string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Name       string `gorm:"size:100"`
	Lastname   string `gorm:"size:100"`
	Phone      string `gorm:"size:30"`
	Height     *float64
	Weight     *float64
	PersonType PersonType `gorm:"type:varchar(20)"`
	Trainings  int
	Birthdate  *datatypes.Date
}

// ConfirmationCode - 5-значный код подтверждения регистрации
type ConfirmationCode struct {
	BaseModel
	UserID    string                 `gorm:"type:varchar(36);index;not null"`
	Code      int                    `gorm:"not null"`
	ExpiresAt time.Time              `gorm:"not null"`
	Status    ConfirmationCodeStatus `gorm:"type:varchar(10);not null;default:'NEW'"`
}
