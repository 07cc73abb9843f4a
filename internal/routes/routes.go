package routes

import (
	"github.com/gin-gonic/gin"

	"workout_scheduler/internal/handlers"
	"workout_scheduler/internal/logger"
)

// RegisterRoutes регистрирует все HTTP маршруты API.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.ExerciseHandler.RegisterRoutes(api)
		appHandlers.RoutineHandler.RegisterRoutes(api)
		appHandlers.RoutineEntryHandler.RegisterRoutes(api)
		appHandlers.RatingHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
	}
	logger.Info("API routes registered", "prefix", "/api/v1", "count", len(ginRouter.Routes()))
}
