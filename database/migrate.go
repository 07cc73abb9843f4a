package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/models"
)

// Migrate создает схему и индексы, которые AutoMigrate выразить не может
func Migrate(db *gorm.DB) error {
	start := time.Now()

	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Profile{},
		&models.ConfirmationCode{},
		&models.Exercise{},
		&models.ExerciseImage{},
		&models.Routine{},
		&models.RoutineEntry{},
		&models.RoutineRating{},
		&models.SavedRoutine{},
	)
	logger.DBLog("automigrate", "models", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	// Одна активная оценка на (routine, author). Частичные индексы есть только в postgres
	if db.Dialector.Name() == "postgres" {
		const ddl = `CREATE UNIQUE INDEX IF NOT EXISTS idx_routine_ratings_active_author
			ON routine_ratings (routine_id, created_by) WHERE enabled`
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create rating index: %w", err)
		}
	}

	logger.Info("Migrations applied")
	return nil
}

// SeedRoles гарантирует наличие ROLE_USER и ROLE_ADMIN
func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{Name: models.RoleUser, Description: "Regular user"},
		{Name: models.RoleAdmin, Description: "Administrator"},
	}

	for i := range roles {
		var existing models.Role
		err := db.Where("name = ?", roles[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&roles[i]).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roles[i].Name, err)
		}
	}
	return nil
}
