package auth

import (
	"workout_scheduler/internal/models"
)

const (
	PermRoutinesWrite  = "routines:write:self"
	PermRoutinesPurge  = "routines:purge"
	PermExercisesWrite = "exercises:write"
	PermExercisesPurge = "exercises:purge"
	PermRatingsWrite   = "ratings:write:self"
)

// Permissions - разрешения по ролям
var Permissions = map[models.RoleName][]string{
	models.RoleAdmin: {
		PermRoutinesWrite,
		PermRoutinesPurge,
		PermExercisesWrite,
		PermExercisesPurge,
		PermRatingsWrite,
	},
	models.RoleUser: {
		PermRoutinesWrite,
		PermExercisesWrite,
		PermRatingsWrite,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.RoleName, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanPerformAction - достаточно одной роли с разрешением
func CanPerformAction(claims *Claims, permission string) bool {
	for _, role := range claims.Roles {
		if HasPermission(models.RoleName(role), permission) {
			return true
		}
	}
	return false
}

func IsAdmin(claims *Claims) bool {
	for _, role := range claims.Roles {
		if models.RoleName(role) == models.RoleAdmin {
			return true
		}
	}
	return false
}
