package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workout_scheduler/database"
	"workout_scheduler/internal/auth"
	"workout_scheduler/internal/config"
	"workout_scheduler/internal/email"
	"workout_scheduler/internal/handlers"
	"workout_scheduler/internal/imageprocessor"
	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/middleware"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/routes"
	"workout_scheduler/internal/services"
	"workout_scheduler/internal/storage"
	"workout_scheduler/internal/validator"
	"workout_scheduler/pkg/apperrors"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	defer sqlDB.Close()
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if err := database.SeedRoles(gormDB); err != nil {
		logger.Fatal("Failed to seed roles", "error", err)
	}
	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, cleanup := SetupRouter(cfg, gormDB)
	defer cleanup()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает зависимости и возвращает роутер; cleanup закрывает почтовый провайдер
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, func()) {
	emailService, err := email.NewProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize email provider", "error", err)
	}
	return NewRouter(cfg, gormDB, emailService)
}

// NewRouter - то же, что SetupRouter, но с готовым почтовым провайдером
func NewRouter(cfg *config.Config, gormDB *gorm.DB, emailService email.Provider) (*gin.Engine, func()) {
	storageInstance, err := storage.NewStorage(storage.ConfigFromApp(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, storageInstance, emailService, tokens)

	// 2. Хэндлеры
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	appHandlers := initializeHandlers(serviceContainer, tokens, limiter)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers)
	systemOpts := routes.SystemOptions{Swagger: cfg.IsDevelopment()}
	if local, ok := storageInstance.(*storage.LocalStorage); ok {
		systemOpts.StaticURL = cfg.Storage.BaseURL
		systemOpts.StaticDir = local.BasePath()
	}
	routes.RegisterSystemRoutes(ginRouter, gormDB, systemOpts)

	cleanup := func() {
		if err := emailService.Close(); err != nil {
			logger.Warn("Failed to close email provider", "error", err)
		}
	}
	return ginRouter, cleanup
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, emailService email.Provider, tokens *auth.TokenManager) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	codeRepo := repositories.NewConfirmationCodeRepository()
	exerciseRepo := repositories.NewExerciseRepository()
	routineRepo := repositories.NewRoutineRepository()
	entryRepo := repositories.NewRoutineEntryRepository()
	ratingRepo := repositories.NewRatingRepository()
	savedRepo := repositories.NewSavedRoutineRepository()

	// --- Сервисы ---
	imageService := services.NewImageService(
		storageInstance,
		imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
		services.ImageConfig{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
			MaxDimension: cfg.Upload.MaxImageDimension,
		},
	)
	entryService := services.NewRoutineEntryService(routineRepo, entryRepo, exerciseRepo)
	routineService := services.NewRoutineService(routineRepo, entryRepo, ratingRepo, savedRepo, userRepo, entryService,
		services.PaginationConfig{
			DefaultSize: cfg.Pagination.DefaultSize,
			MaxSize:     cfg.Pagination.MaxSize,
			DefaultSort: cfg.Pagination.DefaultSort,
		},
	)

	return &services.ServiceContainer{
		UserService:         services.NewUserService(userRepo, codeRepo, emailService),
		AuthService:         services.NewAuthService(userRepo, tokens),
		RoutineService:      routineService,
		RoutineEntryService: entryService,
		RatingService:       services.NewRatingService(ratingRepo, routineRepo),
		SavedRoutineService: services.NewSavedRoutineService(savedRepo, routineRepo, userRepo),
		ExerciseService:     services.NewExerciseService(exerciseRepo, entryRepo, imageService),
		ImageService:        imageService,
		EmailService:        emailService,
		Storage:             storageInstance,
	}
}

func initializeHandlers(svc *services.ServiceContainer, tokens *auth.TokenManager, limiter *middleware.RateLimiter) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator, middleware.AuthMiddleware(tokens), limiter.Handler())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService, svc.RoutineService, svc.SavedRoutineService),
		ExerciseHandler:     handlers.NewExerciseHandler(baseHandler, svc.ExerciseService),
		RoutineHandler:      handlers.NewRoutineHandler(baseHandler, svc.RoutineService),
		RoutineEntryHandler: handlers.NewRoutineEntryHandler(baseHandler, svc.RoutineEntryService),
		RatingHandler:       handlers.NewRatingHandler(baseHandler, svc.RatingService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, svc.RoutineService, svc.ExerciseService, svc.UserService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}

// seedFirstAdmin создает подтвержденного администратора из FIRST_ADMIN_EMAIL / FIRST_ADMIN_PASSWORD
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.TrimSpace(cfg.FirstAdmin.Email)
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	users := repositories.NewUserRepository()

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	_, err := users.FindUserByLogin(tx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	if err := auth.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("invalid admin password: %w", err)
	}
	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	var roles []models.Role
	for _, name := range []models.RoleName{models.RoleUser, models.RoleAdmin} {
		role, err := users.FindRoleByName(tx, name)
		if err != nil {
			return fmt.Errorf("failed to load role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}

	username := adminEmail
	if at := strings.IndexByte(adminEmail, '@'); at > 0 {
		username = adminEmail[:at]
	}

	newAdmin := &models.User{
		Username:     username,
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Enabled:      true,
		Roles:        roles,
		Profile:      &models.Profile{Name: "Administrator"},
	}
	if err := users.CreateUser(tx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
