package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"workout_scheduler/internal/config"
	"workout_scheduler/internal/logger"
)

// Dialector выбирает драйвер gorm по конфигурации
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// GormConfig - общие настройки gorm (ошибки драйвера переводятся в gorm.ErrDuplicatedKey и т.п.)
func GormConfig(slowQuery time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(slowQuery),
		TranslateError: true,
	}
}

// Connect открывает соединение и настраивает пул
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	slow := time.Duration(cfg.Database.SlowQueryMs) * time.Millisecond
	db, err := gorm.Open(dialector, GormConfig(slow))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
