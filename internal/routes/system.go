package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "workout_scheduler/docs"
	"workout_scheduler/internal/metrics"
)

// SystemOptions - служебные маршруты вне /api/v1
type SystemOptions struct {
	// StaticURL и StaticDir задаются только для локального хранилища
	StaticURL string
	StaticDir string
	Swagger   bool
}

// RegisterSystemRoutes - /health, /metrics, /swagger и раздача локальных файлов
func RegisterSystemRoutes(ginRouter *gin.Engine, db *gorm.DB, opts SystemOptions) {
	ginRouter.GET("/health", healthHandler(db))
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if opts.StaticDir != "" && strings.HasPrefix(opts.StaticURL, "/") {
		ginRouter.Static(strings.TrimRight(opts.StaticURL, "/"), opts.StaticDir)
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
